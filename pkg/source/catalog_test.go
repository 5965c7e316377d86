package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogIdsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range Catalog() {
		assert.False(t, seen[s.Id], "duplicate source id %s", s.Id)
		seen[s.Id] = true
		assert.NotEmpty(t, s.Name)
		assert.NotEmpty(t, s.Category)
	}
}

func TestByIDFallsBackToUnknown(t *testing.T) {
	assert.Equal(t, "US Chess Upcoming Tournaments", ByID("uschess-upcoming").Name)
	assert.Equal(t, Unknown, ByID("no-such-source"))
}
