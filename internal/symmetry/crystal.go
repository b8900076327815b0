package symmetry

// CrystalSystem names the crystal system for an international space group
// number. Unknown numbers yield the empty string.
func CrystalSystem(number int) string {
	switch {
	case number < 1 || number > 230:
		return ""
	case number <= 2:
		return "triclinic"
	case number <= 15:
		return "monoclinic"
	case number <= 74:
		return "orthorhombic"
	case number <= 142:
		return "tetragonal"
	case number <= 167:
		return "trigonal"
	case number <= 194:
		return "hexagonal"
	default:
		return "cubic"
	}
}

// BravaisLattice derives the Pearson notation for a space group: the crystal
// family letter followed by the centering letter of the international short
// symbol. Side-centered settings A, B and C collapse to the unified S.
func BravaisLattice(number int, international string) string {
	family := familyLetter(number)
	if family == "" || international == "" {
		return ""
	}
	centering := international[0]
	switch centering {
	case 'A', 'B', 'C':
		centering = 'S'
	case 'P', 'I', 'F', 'R':
	default:
		return ""
	}
	return family + string(centering)
}

// familyLetter maps a space group number to its crystal family letter.
// Trigonal and hexagonal share the hexagonal family h.
func familyLetter(number int) string {
	switch CrystalSystem(number) {
	case "triclinic":
		return "a"
	case "monoclinic":
		return "m"
	case "orthorhombic":
		return "o"
	case "tetragonal":
		return "t"
	case "trigonal", "hexagonal":
		return "h"
	case "cubic":
		return "c"
	default:
		return ""
	}
}
