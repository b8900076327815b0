package symmetry

import (
	"context"
	"sync"
	"time"
)

// MockProvider is a test implementation of the Provider interface. With no
// knobs set it answers every query with an identity (P1) dataset; tests
// configure canned datasets, failure modes and latency through the fields.
type MockProvider struct {
	calls []MockProviderCall
	mu    sync.Mutex

	// FindFunc, when set, handles every call and overrides the other knobs.
	FindFunc func(ctx context.Context, lattice [3][3]float64, fractional [][3]float64, species []int, tolerance float64) (*Dataset, error)
	// Dataset, when set, is returned for every successful call.
	Dataset *Dataset
	// Err, when set, is returned for every call.
	Err error
	// MinTolerance, when positive, makes calls below it report
	// ErrNoSymmetry, so tests can drive the tolerance ladder.
	MinTolerance float64
	// Delay stalls each call before answering, so tests can drive timeouts.
	Delay time.Duration
}

// MockProviderCall records the inputs of one query.
type MockProviderCall struct {
	Lattice    [3][3]float64
	Fractional [][3]float64
	AtomCount  int
	Species    []int
	Tolerance  float64
}

// NewMockProvider creates a new mock symmetry provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		calls: make([]MockProviderCall, 0),
	}
}

// FindSymmetry records the call and answers it per the configured knobs.
func (m *MockProvider) FindSymmetry(ctx context.Context, lattice [3][3]float64, fractional [][3]float64, species []int, tolerance float64) (*Dataset, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockProviderCall{
		Lattice:    lattice,
		Fractional: append([][3]float64(nil), fractional...),
		AtomCount:  len(fractional),
		Species:    append([]int(nil), species...),
		Tolerance:  tolerance,
	})
	m.mu.Unlock()

	if m.FindFunc != nil {
		return m.FindFunc(ctx, lattice, fractional, species, tolerance)
	}

	if m.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.Delay):
		}
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.MinTolerance > 0 && tolerance < m.MinTolerance {
		return nil, ErrNoSymmetry
	}
	if m.Dataset != nil {
		return m.Dataset, nil
	}
	return IdentityDataset(len(fractional)), nil
}

// Calls returns all recorded calls for verification in tests.
func (m *MockProvider) Calls() []MockProviderCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]MockProviderCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// CallCount returns the number of times FindSymmetry was called.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Reset clears all recorded calls.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = make([]MockProviderCall, 0)
}

// IdentityDataset builds a P1 dataset for n atoms: the identity operation
// only, every atom on a general position equivalent to itself.
func IdentityDataset(n int) *Dataset {
	ds := &Dataset{
		SpaceGroupNumber:    1,
		InternationalSymbol: "P1",
		HallNumber:          1,
		HallSymbol:          "P 1",
		PointGroup:          "1",
		Rotations:           [][3][3]int{{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}},
		Translations:        [][3]float64{{0, 0, 0}},
	}
	for i := 0; i < n; i++ {
		ds.Wyckoffs = append(ds.Wyckoffs, "a")
		ds.EquivalentAtoms = append(ds.EquivalentAtoms, i)
	}
	return ds
}
