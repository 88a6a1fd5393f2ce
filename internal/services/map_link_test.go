package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectionsLink(t *testing.T) {
	assert.Nil(t, DirectionsLink(nil))

	link := DirectionsLink([]string{"Depot", "  12 Main   St ", "Depot"})
	require.NotNil(t, link)
	assert.Equal(t, "https://www.google.com/maps/dir/Depot/12%20Main%20St/Depot", *link)
}
