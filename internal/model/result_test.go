package model

import "testing"

func TestClass_Rank(t *testing.T) {
	tests := []struct {
		class Class
		want  int
	}{
		{Class0D, 0},
		{Class1D, 1},
		{Class2D, 2},
		{Class3D, 3},
		{ClassUnknown, -1},
		{Class("bogus"), -1},
	}

	for _, tt := range tests {
		if got := tt.class.Rank(); got != tt.want {
			t.Errorf("Rank(%q) = %d, want %d", tt.class, got, tt.want)
		}
	}
}

func TestClassForRank_RoundTrip(t *testing.T) {
	for rank := 0; rank <= 3; rank++ {
		if got := ClassForRank(rank).Rank(); got != rank {
			t.Errorf("ClassForRank(%d).Rank() = %d", rank, got)
		}
	}
	if ClassForRank(7) != ClassUnknown {
		t.Errorf("ClassForRank(7) = %q, want unknown", ClassForRank(7))
	}
}

func TestRegionAssignment_Indices(t *testing.T) {
	ra := RegionAssignment{
		Labels: []Region{RegionPrimary, RegionOutlier, RegionPrimary, RegionOutlier},
	}

	primary := ra.PrimaryIndices()
	if len(primary) != 2 || primary[0] != 0 || primary[1] != 2 {
		t.Errorf("PrimaryIndices() = %v, want [0 2]", primary)
	}

	outliers := ra.OutlierIndices()
	if len(outliers) != 2 || outliers[0] != 1 || outliers[1] != 3 {
		t.Errorf("OutlierIndices() = %v, want [1 3]", outliers)
	}
}

func TestClassificationResult_Warnings(t *testing.T) {
	r := NewClassificationResult(4)
	if r.ID == "" {
		t.Fatal("NewClassificationResult() produced empty ID")
	}
	if r.Class != ClassUnknown || r.Subtype != SubtypeUnknown {
		t.Errorf("fresh result class/subtype = %q/%q, want unknown/unknown", r.Class, r.Subtype)
	}

	r.AddWarning(WarnUnknownSpecies, "no covalent radius for species Xx", 1, 3)
	if !r.HasWarning(WarnUnknownSpecies) {
		t.Error("HasWarning() = false after AddWarning")
	}
	if r.HasWarning(WarnSymmetrySkipped) {
		t.Error("HasWarning() = true for absent code")
	}
	if len(r.Warnings[0].Atoms) != 2 {
		t.Errorf("warning atoms = %v, want [1 3]", r.Warnings[0].Atoms)
	}
}
