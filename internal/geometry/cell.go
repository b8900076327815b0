// Package geometry provides the spatial primitives for structure analysis:
// cell algebra, minimum-image distances, covalent radii tables, interval
// bookkeeping and inertia moments.
package geometry

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/blueraft/matid/internal/model"
)

// MinCellVolume is the volume in cubic ångströms below which a cell is
// treated as degenerate.
const MinCellVolume = 1e-9

// ErrDegenerateCell is the sentinel wrapped by DegenerateCellError.
var ErrDegenerateCell = errors.New("geometry: degenerate cell")

// DegenerateCellError reports a cell whose basis vectors do not span a
// usable volume. It is fatal: fractional coordinates and periodic images
// are undefined for such a cell.
type DegenerateCellError struct {
	Volume float64
	Basis  [3]model.Vec3
}

func (e *DegenerateCellError) Error() string {
	return fmt.Sprintf("geometry: degenerate cell with volume %.3e", e.Volume)
}

func (e *DegenerateCellError) Unwrap() error { return ErrDegenerateCell }

// Cell is a complete 3x3 repeat cell with per-direction periodicity flags.
// Basis vectors are rows, matching the convention cartesian = fractional * B.
// The inverse basis is precomputed so coordinate conversions stay cheap in
// inner loops.
type Cell struct {
	Basis    [3]model.Vec3
	Periodic [3]bool

	inverse [3]model.Vec3
	volume  float64
}

// NewCell validates the basis and precomputes its inverse. A basis whose
// volume falls below MinCellVolume, or that contains a near-zero periodic
// vector, yields a DegenerateCellError.
func NewCell(basis [3]model.Vec3, periodic [3]bool) (*Cell, error) {
	vol := math.Abs(tripleProduct(basis[0], basis[1], basis[2]))
	if vol < MinCellVolume {
		return nil, &DegenerateCellError{Volume: vol, Basis: basis}
	}
	for i, p := range periodic {
		if p && Norm(basis[i]) < 1e-12 {
			return nil, &DegenerateCellError{Volume: vol, Basis: basis}
		}
	}

	m := mat.NewDense(3, 3, []float64{
		basis[0][0], basis[0][1], basis[0][2],
		basis[1][0], basis[1][1], basis[1][2],
		basis[2][0], basis[2][1], basis[2][2],
	})
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return nil, &DegenerateCellError{Volume: vol, Basis: basis}
	}

	c := &Cell{Basis: basis, Periodic: periodic, volume: vol}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			c.inverse[i][j] = inv.At(i, j)
		}
	}
	return c, nil
}

// CompleteBasis fills a partial lattice declaration up to three vectors.
// Declared vectors keep their positions; missing directions receive vectors
// orthogonal to the declared ones, scaled to extent, and are flagged
// non-periodic. This lets molecules and chains share the fully periodic
// code paths.
func CompleteBasis(declared []model.Vec3, periodic []bool, extent float64) ([3]model.Vec3, [3]bool) {
	if extent <= 0 {
		extent = 1
	}
	var basis [3]model.Vec3
	var flags [3]bool
	n := len(declared)
	for i := 0; i < n && i < 3; i++ {
		basis[i] = declared[i]
		flags[i] = periodic[i]
	}

	switch n {
	case 0:
		basis[0] = model.Vec3{extent, 0, 0}
		basis[1] = model.Vec3{0, extent, 0}
		basis[2] = model.Vec3{0, 0, extent}
	case 1:
		u := basis[0]
		v := anyOrthogonal(u)
		w := cross(u, v)
		basis[1] = scaleTo(v, extent)
		basis[2] = scaleTo(w, extent)
	case 2:
		w := cross(basis[0], basis[1])
		basis[2] = scaleTo(w, extent)
	}
	return basis, flags
}

// Volume returns the absolute volume of the cell in cubic ångströms.
func (c *Cell) Volume() float64 { return c.volume }

// Length returns the norm of the given basis vector.
func (c *Cell) Length(axis int) float64 { return Norm(c.Basis[axis]) }

// PeriodicCount returns the number of periodic directions.
func (c *Cell) PeriodicCount() int {
	n := 0
	for _, p := range c.Periodic {
		if p {
			n++
		}
	}
	return n
}

// ToFractional converts a Cartesian position to fractional coordinates.
func (c *Cell) ToFractional(p model.Vec3) model.Vec3 {
	var f model.Vec3
	for j := 0; j < 3; j++ {
		f[j] = p[0]*c.inverse[0][j] + p[1]*c.inverse[1][j] + p[2]*c.inverse[2][j]
	}
	return f
}

// ToCartesian converts fractional coordinates to a Cartesian position.
func (c *Cell) ToCartesian(f model.Vec3) model.Vec3 {
	var p model.Vec3
	for j := 0; j < 3; j++ {
		p[j] = f[0]*c.Basis[0][j] + f[1]*c.Basis[1][j] + f[2]*c.Basis[2][j]
	}
	return p
}

// FractionalPositions converts a position list in one pass.
func (c *Cell) FractionalPositions(positions []model.Vec3) []model.Vec3 {
	out := make([]model.Vec3, len(positions))
	for i, p := range positions {
		out[i] = c.ToFractional(p)
	}
	return out
}

// WrapPrecision is the tolerance used when snapping wrapped fractional
// coordinates to zero. Values within this distance of 0 or 1 map to 0 so
// that equivalent descriptions of the same structure wrap identically.
const WrapPrecision = 1e-5

// WrapFractional wraps a fractional coordinate vector into [0, 1) along the
// periodic directions. Non-periodic components pass through unchanged.
func (c *Cell) WrapFractional(f model.Vec3) model.Vec3 {
	for d := 0; d < 3; d++ {
		if !c.Periodic[d] {
			continue
		}
		v := math.Mod(f[d], 1)
		if v < 0 {
			v++
		}
		if v < WrapPrecision || math.Abs(v-1) < WrapPrecision {
			v = 0
		}
		f[d] = v
	}
	return f
}

// Translate returns p shifted by an integer combination of basis vectors.
func (c *Cell) Translate(p model.Vec3, shift [3]int) model.Vec3 {
	for d := 0; d < 3; d++ {
		if shift[d] == 0 {
			continue
		}
		s := float64(shift[d])
		p[0] += s * c.Basis[d][0]
		p[1] += s * c.Basis[d][1]
		p[2] += s * c.Basis[d][2]
	}
	return p
}

func tripleProduct(a, b, c model.Vec3) float64 {
	return a[0]*(b[1]*c[2]-b[2]*c[1]) +
		a[1]*(b[2]*c[0]-b[0]*c[2]) +
		a[2]*(b[0]*c[1]-b[1]*c[0])
}

func cross(a, b model.Vec3) model.Vec3 {
	return model.Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// anyOrthogonal picks a vector orthogonal to u by crossing it with the
// coordinate axis it is least aligned with.
func anyOrthogonal(u model.Vec3) model.Vec3 {
	ax := model.Vec3{1, 0, 0}
	if math.Abs(u[0]) >= math.Abs(u[1]) && math.Abs(u[0]) >= math.Abs(u[2]) {
		ax = model.Vec3{0, 1, 0}
	}
	return cross(u, ax)
}

func scaleTo(v model.Vec3, length float64) model.Vec3 {
	n := Norm(v)
	if n < 1e-12 {
		return model.Vec3{0, 0, length}
	}
	s := length / n
	return model.Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Norm returns the Euclidean length of v.
func Norm(v model.Vec3) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Sub returns a - b.
func Sub(a, b model.Vec3) model.Vec3 {
	return model.Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Add returns a + b.
func Add(a, b model.Vec3) model.Vec3 {
	return model.Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Scale returns v scaled by s.
func Scale(v model.Vec3, s float64) model.Vec3 {
	return model.Vec3{v[0] * s, v[1] * s, v[2] * s}
}
