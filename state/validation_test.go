package state

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameValidator_Valid(t *testing.T) {
	assert.NoError(t, NameValidator("1"))
	assert.NoError(t, NameValidator("RA"))
	assert.NoError(t, NameValidator("h_1.a"))
}

func TestNameValidator_Invalid(t *testing.T) {
	assert.Error(t, NameValidator("node name"))
	assert.Error(t, NameValidator(""))
	assert.Error(t, NameValidator("\t"))
	assert.Error(t, NameValidator("01"))
	assert.Error(t, NameValidator("R\\1"))
	assert.Error(t, NameValidator(strings.Repeat("a", DstWidth+1)))
}

func validCfg() *SimCfg {
	return &SimCfg{
		Routers: []RouterCfg{
			{Id: "RA", Neighbours: []NeighbourCfg{{Id: "H1", Interface: 0, Cost: 1}, {Id: "RB", Interface: 1, Cost: 1}}},
			{Id: "RB", Neighbours: []NeighbourCfg{{Id: "RA", Interface: 0, Cost: 1}}},
		},
		Hosts: []HostCfg{{Id: "H1"}},
		Links: []LinkCfg{{A: "H1:0", B: "RA:0"}, {A: "RA:1", B: "RB:0"}},
	}
}

func TestSimConfigValidator_Valid(t *testing.T) {
	assert.NoError(t, SimConfigValidator(validCfg()))
}

func TestSimConfigValidator_Errors(t *testing.T) {
	cases := map[string]struct {
		mutate func(c *SimCfg)
		err    string
	}{
		"duplicate node": {func(c *SimCfg) {
			c.Hosts = append(c.Hosts, HostCfg{Id: "RA"})
		}, "duplicate node: RA"},
		"router prefix": {func(c *SimCfg) {
			c.Routers = append(c.Routers, RouterCfg{Id: "X1"})
		}, "must start with"},
		"host prefix": {func(c *SimCfg) {
			c.Hosts = append(c.Hosts, HostCfg{Id: "R9"})
		}, "must not start with"},
		"unknown neighbour": {func(c *SimCfg) {
			c.Routers[1].Neighbours = append(c.Routers[1].Neighbours, NeighbourCfg{Id: "RZ", Interface: 1})
		}, "neighbour RZ not defined"},
		"self neighbour": {func(c *SimCfg) {
			c.Routers[1].Neighbours = append(c.Routers[1].Neighbours, NeighbourCfg{Id: "RB", Interface: 1})
		}, "lists itself"},
		"shared interface": {func(c *SimCfg) {
			c.Routers[0].Neighbours[1].Interface = 0
		}, "interface 0 is shared"},
		"link to missing interface": {func(c *SimCfg) {
			c.Links = append(c.Links, LinkCfg{A: "RB:5", B: "H1:0"})
		}, "has no interface 5"},
		"endpoint linked twice": {func(c *SimCfg) {
			c.Links = append(c.Links, LinkCfg{A: "RA:1", B: "RB:0"})
		}, "linked twice"},
		"link disagrees with neighbours": {func(c *SimCfg) {
			c.Links[1] = LinkCfg{A: "RA:0", B: "RB:0"}
			c.Links[0] = LinkCfg{A: "H1:0", B: "RA:1"}
		}, "router RA does not list H1 on interface 1"},
		"unlinked interface": {func(c *SimCfg) {
			c.Routers[0].Neighbours = append(c.Routers[0].Neighbours, NeighbourCfg{Id: "RB", Interface: 2, Cost: 1})
		}, "router RA: interface 2 (RB) is not linked"},
		"negative queue capacity": {func(c *SimCfg) {
			c.QueueCapacity = -1
		}, "queue_capacity must not be negative"},
		"host interface": {func(c *SimCfg) {
			c.Links[0].A = "H1:1"
		}, "only has interface 0"},
		"message from router": {func(c *SimCfg) {
			c.Messages = []MessageCfg{{From: "RA", To: "H1"}}
		}, "is not a host"},
		"message to unknown": {func(c *SimCfg) {
			c.Messages = []MessageCfg{{From: "H1", To: "H9"}}
		}, "H9 not defined"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validCfg()
			tc.mutate(cfg)
			assert.ErrorContains(t, SimConfigValidator(cfg), tc.err)
		})
	}
}
