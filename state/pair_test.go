package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortPairs(t *testing.T) {
	pairs := []Pair[NodeId, int]{
		{V1: "RC", V2: 10},
		{V1: "RA", V2: 20},
		{V1: "RA", V2: 5},
		{V1: "H1", V2: 15},
	}
	SortPairs(pairs)
	assert.Equal(t, []Pair[NodeId, int]{
		{V1: "H1", V2: 15},
		{V1: "RA", V2: 5},
		{V1: "RA", V2: 20},
		{V1: "RC", V2: 10},
	}, pairs)
}

func TestSimCfg_Edges(t *testing.T) {
	cfg := &SimCfg{Links: []LinkCfg{
		{A: "RB:1", B: "H2:0"},
		{A: "RB:0", B: "RA:1"},
		{A: "H1:0", B: "RA:0"},
		{A: "bogus", B: "RA:2"},
	}}
	assert.Equal(t, []Pair[NodeId, NodeId]{
		{V1: "H1", V2: "RA"},
		{V1: "H2", V2: "RB"},
		{V1: "RA", V2: "RB"},
	}, cfg.Edges())
}
