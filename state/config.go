package state

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

var ConfigPath = "topology.yaml"

type NeighbourCfg struct {
	Id        NodeId `yaml:"id"`
	Interface int    `yaml:"interface"`
	Cost      uint32 `yaml:"cost"`
}

// RouterCfg describes a router and its static cost table
type RouterCfg struct {
	Id         NodeId         `yaml:"id"`
	Neighbours []NeighbourCfg `yaml:"neighbours"`
}

type HostCfg struct {
	Id NodeId `yaml:"id"`
}

// LinkCfg joins two interfaces, each written as "node:interface"
type LinkCfg struct {
	A string `yaml:"a"`
	B string `yaml:"b"`
}

// MessageCfg is a data packet a host sends once the simulation has been running for After
type MessageCfg struct {
	From  NodeId        `yaml:"from"`
	To    NodeId        `yaml:"to"`
	Data  string        `yaml:"data"`
	After time.Duration `yaml:"after,omitempty"`
}

// SimCfg is the whole simulated topology
type SimCfg struct {
	Name               string        `yaml:"name,omitempty"`
	QueueCapacity      int           `yaml:"queue_capacity,omitempty"`      // bound of every router queue, 0 for unbounded
	NonBlockingForward bool          `yaml:"nonblocking_forward,omitempty"` // drop data packets instead of waiting on a full queue
	Duration           time.Duration `yaml:"duration,omitempty"`            // how long `run` keeps the network up
	LogPath            string        `yaml:"log_path,omitempty"`            // if not empty, logs are also written to this file
	Routers            []RouterCfg   `yaml:"routers"`
	Hosts              []HostCfg     `yaml:"hosts,omitempty"`
	Links              []LinkCfg     `yaml:"links"`
	Messages           []MessageCfg  `yaml:"messages,omitempty"`
}

type Endpoint struct {
	Node      NodeId
	Interface int
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%s:%d", e.Node, e.Interface)
}

func ParseEndpoint(s string) (Endpoint, error) {
	node, iface, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Endpoint{}, fmt.Errorf("invalid endpoint %q, expected node:interface", s)
	}
	idx, err := strconv.Atoi(iface)
	if err != nil || idx < 0 {
		return Endpoint{}, fmt.Errorf("invalid interface in endpoint %q", s)
	}
	return Endpoint{Node: NodeId(node), Interface: idx}, nil
}

func (c *SimCfg) GetRouter(id NodeId) *RouterCfg {
	for i := range c.Routers {
		if c.Routers[i].Id == id {
			return &c.Routers[i]
		}
	}
	return nil
}

func (c *SimCfg) IsHost(id NodeId) bool {
	for _, h := range c.Hosts {
		if h.Id == id {
			return true
		}
	}
	return false
}

func (c *SimCfg) GetNodes() []NodeId {
	nodes := make([]NodeId, 0, len(c.Routers)+len(c.Hosts))
	for _, r := range c.Routers {
		nodes = append(nodes, r.Id)
	}
	for _, h := range c.Hosts {
		nodes = append(nodes, h.Id)
	}
	return nodes
}

// CostTable builds the static neighbour table of a router
func (r *RouterCfg) CostTable() CostTable {
	tbl := make(CostTable)
	for _, n := range r.Neighbours {
		if _, ok := tbl[n.Id]; !ok {
			tbl[n.Id] = make(InterfaceCost)
		}
		tbl[n.Id][n.Interface] = n.Cost
	}
	return tbl
}

// Edges lists the node pairs joined by a link, each pair in ascending order, sorted.
// Links with malformed endpoints are skipped.
func (c *SimCfg) Edges() []Pair[NodeId, NodeId] {
	edges := make([]Pair[NodeId, NodeId], 0, len(c.Links))
	for _, l := range c.Links {
		a, errA := ParseEndpoint(l.A)
		b, errB := ParseEndpoint(l.B)
		if errA != nil || errB != nil {
			continue
		}
		edges = append(edges, Pair[NodeId, NodeId]{V1: min(a.Node, b.Node), V2: max(a.Node, b.Node)})
	}
	SortPairs(edges)
	return edges
}

// ExpandSimConfig fills in defaults
func ExpandSimConfig(c *SimCfg) {
	if c.Name == "" {
		c.Name = "dvsim"
	}
	if c.Duration == 0 {
		c.Duration = DefaultRunDuration
	}
}

func ReadSimConfig(path string) (*SimCfg, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSimConfig(file)
}

func ParseSimConfig(data []byte) (*SimCfg, error) {
	var cfg SimCfg
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse topology: %w", err)
	}
	ExpandSimConfig(&cfg)
	if err := SimConfigValidator(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LineTopology builds H1 - R1 - R2 - ... - Rn - H2 with every link at cost
func LineTopology(routers int, cost uint32) (*SimCfg, error) {
	if routers < 1 {
		return nil, fmt.Errorf("a line needs at least one router, got %d", routers)
	}
	cfg := &SimCfg{
		Name:     fmt.Sprintf("line-%d", routers),
		Duration: DefaultRunDuration,
		Hosts:    []HostCfg{{Id: "H1"}, {Id: "H2"}},
		Messages: []MessageCfg{{From: "H1", To: "H2", Data: "hello", After: DefaultRunDuration / 2}},
	}
	name := func(i int) NodeId {
		return NodeId(fmt.Sprintf("%s%d", RouterPrefix, i+1))
	}
	for i := range routers {
		rc := RouterCfg{Id: name(i)}
		left, right := NodeId("H1"), NodeId("H2")
		if i > 0 {
			left = name(i - 1)
		}
		if i < routers-1 {
			right = name(i + 1)
		}
		rc.Neighbours = []NeighbourCfg{
			{Id: left, Interface: 0, Cost: cost},
			{Id: right, Interface: 1, Cost: cost},
		}
		cfg.Routers = append(cfg.Routers, rc)
		if i == 0 {
			cfg.Links = append(cfg.Links, LinkCfg{A: "H1:0", B: fmt.Sprintf("%s:0", rc.Id)})
		} else {
			cfg.Links = append(cfg.Links, LinkCfg{A: fmt.Sprintf("%s:1", name(i-1)), B: fmt.Sprintf("%s:0", rc.Id)})
		}
	}
	cfg.Links = append(cfg.Links, LinkCfg{A: fmt.Sprintf("%s:1", name(routers-1)), B: "H2:0"})
	if err := SimConfigValidator(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
