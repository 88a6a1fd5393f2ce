package distance

import "context"

type MockPair struct {
	From, To string
	Km       float64
}

// MockDistanceProvider returns configured pair distances and falls back to a fixed value.
// A non-nil Err fails every lookup.
type MockDistanceProvider struct {
	m        map[string]float64
	fallback float64

	Err error
}

func NewMockDistanceProvider(pairs []MockPair, fallbackKm float64) *MockDistanceProvider {
	m := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		m[p.From+"|"+p.To] = p.Km
	}
	return &MockDistanceProvider{m: m, fallback: fallbackKm}
}

// NewFixedDistanceProvider reports the same distance for every leg.
func NewFixedDistanceProvider(km float64) *MockDistanceProvider {
	return NewMockDistanceProvider(nil, km)
}

func (p *MockDistanceProvider) LegDistanceKm(_ context.Context, origin, destination string) (float64, error) {
	if p.Err != nil {
		return 0, p.Err
	}
	if km, ok := p.m[origin+"|"+destination]; ok {
		return km, nil
	}
	return p.fallback, nil
}
