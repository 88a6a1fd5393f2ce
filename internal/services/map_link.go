package services

import (
	"net/url"
	"strings"
)

const directionsBaseURL = "https://www.google.com/maps/dir/"

// DirectionsLink builds an external directions URL through the given locations.
func DirectionsLink(locations []string) *string {
	if len(locations) == 0 {
		return nil
	}

	parts := make([]string, 0, len(locations))
	for _, l := range locations {
		parts = append(parts, url.PathEscape(strings.Join(strings.Fields(l), " ")))
	}

	link := directionsBaseURL + strings.Join(parts, "/")
	return &link
}
