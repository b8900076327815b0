//go:build !spglib

// Package spglib binds the C spglib library as a symmetry.Provider. The
// binding is compiled only under the spglib build tag so the default build
// needs no C toolchain; without the tag New returns a stub provider that
// reports ErrProviderUnavailable.
package spglib

import (
	"context"

	"github.com/blueraft/matid/internal/symmetry"
)

// Provider is the stub installed when the binding is not compiled in.
type Provider struct{}

// New returns the stub provider.
func New() *Provider { return &Provider{} }

// FindSymmetry always reports ErrProviderUnavailable.
func (p *Provider) FindSymmetry(context.Context, [3][3]float64, [][3]float64, []int, float64) (*symmetry.Dataset, error) {
	return nil, symmetry.ErrProviderUnavailable
}
