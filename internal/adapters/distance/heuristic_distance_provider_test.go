package distance

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func legKm(t *testing.T, p interface {
	LegDistanceKm(context.Context, string, string) (float64, error)
}, from, to string) float64 {
	t.Helper()
	km, err := p.LegDistanceKm(context.Background(), from, to)
	require.NoError(t, err)
	return km
}

func TestHeuristicDistanceProvider(t *testing.T) {
	p := NewHeuristicDistanceProvider()

	assert.Equal(t, 0.0, legKm(t, p, "Depot", "  depot "))

	ab := legKm(t, p, "12 High Street", "4 Mill Lane")
	ba := legKm(t, p, "4 Mill Lane", "12 High Street")
	assert.Equal(t, ab, ba)
	assert.Equal(t, ab, legKm(t, p, "12  High Street", "4 mill lane"))

	for _, pair := range [][2]string{{"A", "B"}, {"Depot", "Stop A"}, {"x", "y z"}} {
		km := legKm(t, p, pair[0], pair[1])
		assert.GreaterOrEqual(t, km, heuristicMinKm)
		assert.Less(t, km, heuristicMinKm+heuristicSpanKm)
	}
}

func TestMockDistanceProvider(t *testing.T) {
	p := NewMockDistanceProvider([]MockPair{{From: "A", To: "B", Km: 7}}, 2)

	assert.Equal(t, 7.0, legKm(t, p, "A", "B"))
	assert.Equal(t, 2.0, legKm(t, p, "B", "A"))

	p.Err = errors.New("routing unavailable")
	_, err := p.LegDistanceKm(context.Background(), "A", "B")
	assert.EqualError(t, err, "routing unavailable")
}
