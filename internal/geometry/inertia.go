package geometry

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/blueraft/matid/internal/model"
)

// ErrEigenFailed indicates the inertia tensor eigendecomposition did not
// converge. It should not happen for finite inputs.
var ErrEigenFailed = errors.New("geometry: inertia eigendecomposition failed")

// CenterOfMass returns the mass-weighted centroid. Passing nil masses gives
// the geometric center.
func CenterOfMass(positions []model.Vec3, masses []float64) model.Vec3 {
	var cm model.Vec3
	if len(positions) == 0 {
		return cm
	}
	total := 0.0
	for i, p := range positions {
		w := 1.0
		if masses != nil {
			w = masses[i]
		}
		total += w
		cm[0] += w * p[0]
		cm[1] += w * p[1]
		cm[2] += w * p[2]
	}
	if total == 0 {
		return model.Vec3{}
	}
	return Scale(cm, 1/total)
}

// MomentsOfInertia computes the eigenvalues and eigenvectors of the inertia
// tensor about the center of mass. Nil masses weight every atom equally,
// giving the geometric inertia tensor. Eigenvalues come out ascending with
// their eigenvectors in matching order.
func MomentsOfInertia(positions []model.Vec3, masses []float64) ([3]float64, [3]model.Vec3, error) {
	var evals [3]float64
	var evecs [3]model.Vec3
	if len(positions) == 0 {
		return evals, evecs, nil
	}

	cm := CenterOfMass(positions, masses)

	var i11, i22, i33, i12, i13, i23 float64
	for i, p := range positions {
		w := 1.0
		if masses != nil {
			w = masses[i]
		}
		x := p[0] - cm[0]
		y := p[1] - cm[1]
		z := p[2] - cm[2]
		i11 += w * (y*y + z*z)
		i22 += w * (x*x + z*z)
		i33 += w * (x*x + y*y)
		i12 -= w * x * y
		i13 -= w * x * z
		i23 -= w * y * z
	}

	tensor := mat.NewSymDense(3, []float64{
		i11, i12, i13,
		i12, i22, i23,
		i13, i23, i33,
	})

	var eig mat.EigenSym
	if !eig.Factorize(tensor, true) {
		return evals, evecs, ErrEigenFailed
	}

	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	for i := 0; i < 3; i++ {
		evals[i] = vals[i]
		for j := 0; j < 3; j++ {
			evecs[i][j] = vecs.At(j, i)
		}
	}
	return evals, evecs, nil
}
