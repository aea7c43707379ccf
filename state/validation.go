package state

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var namePattern, _ = regexp.Compile("^[0-9A-Za-z._-]+$")

func NameValidator(s string) error {
	if !namePattern.MatchString(s) {
		return fmt.Errorf("%s is not a valid name, must match pattern %s", s, namePattern.String())
	}
	if len(s) > DstWidth {
		return fmt.Errorf("len(\"%s\") = %d > %d is too long", s, len(s), DstWidth)
	}
	// leading zeros do not survive the wire encoding
	if strings.HasPrefix(s, "0") {
		return fmt.Errorf("%s must not start with 0", s)
	}
	return nil
}

func SimConfigValidator(cfg *SimCfg) error {
	if cfg.QueueCapacity < 0 {
		return fmt.Errorf("queue_capacity must not be negative, got %d (0 means unbounded)", cfg.QueueCapacity)
	}
	seen := make([]NodeId, 0)
	for _, id := range cfg.GetNodes() {
		if err := NameValidator(string(id)); err != nil {
			return err
		}
		if slices.Contains(seen, id) {
			return fmt.Errorf("duplicate node: %s", id)
		}
		seen = append(seen, id)
	}
	for _, r := range cfg.Routers {
		if !r.Id.IsRouter() {
			return fmt.Errorf("router %s must start with %q", r.Id, RouterPrefix)
		}
		usedIfaces := make(map[int]NodeId)
		for _, n := range r.Neighbours {
			if !slices.Contains(seen, n.Id) {
				return fmt.Errorf("router %s: neighbour %s not defined", r.Id, n.Id)
			}
			if n.Id == r.Id {
				return fmt.Errorf("router %s lists itself as a neighbour", r.Id)
			}
			if n.Interface < 0 {
				return fmt.Errorf("router %s: negative interface %d", r.Id, n.Interface)
			}
			if other, ok := usedIfaces[n.Interface]; ok && other != n.Id {
				return fmt.Errorf("router %s: interface %d is shared by %s and %s", r.Id, n.Interface, other, n.Id)
			}
			usedIfaces[n.Interface] = n.Id
		}
	}
	for _, h := range cfg.Hosts {
		if h.Id.IsRouter() {
			return fmt.Errorf("host %s must not start with %q", h.Id, RouterPrefix)
		}
	}

	usedEps := make([]Endpoint, 0)
	for _, l := range cfg.Links {
		for _, raw := range []string{l.A, l.B} {
			ep, err := ParseEndpoint(raw)
			if err != nil {
				return err
			}
			if err := endpointValidator(cfg, ep); err != nil {
				return err
			}
			if slices.Contains(usedEps, ep) {
				return fmt.Errorf("endpoint %s is linked twice", ep)
			}
			usedEps = append(usedEps, ep)
		}
	}

	for _, l := range cfg.Links {
		a, _ := ParseEndpoint(l.A)
		b, _ := ParseEndpoint(l.B)
		if err := linkValidator(cfg, a, b); err != nil {
			return err
		}
		if err := linkValidator(cfg, b, a); err != nil {
			return err
		}
	}

	// every interface a router routes through must be drained by a link
	for _, r := range cfg.Routers {
		for _, n := range r.Neighbours {
			ep := Endpoint{Node: r.Id, Interface: n.Interface}
			if !slices.Contains(usedEps, ep) {
				return fmt.Errorf("router %s: interface %d (%s) is not linked", r.Id, n.Interface, n.Id)
			}
		}
	}

	for _, m := range cfg.Messages {
		if !cfg.IsHost(m.From) {
			return fmt.Errorf("message sender %s is not a host", m.From)
		}
		if !slices.Contains(seen, m.To) {
			return fmt.Errorf("message destination %s not defined", m.To)
		}
	}
	return nil
}

func endpointValidator(cfg *SimCfg, ep Endpoint) error {
	if cfg.IsHost(ep.Node) {
		if ep.Interface != 0 {
			return fmt.Errorf("host %s only has interface 0", ep.Node)
		}
		return nil
	}
	r := cfg.GetRouter(ep.Node)
	if r == nil {
		return fmt.Errorf("node %s not defined", ep.Node)
	}
	if ep.Interface >= r.CostTable().NumInterfaces() {
		return fmt.Errorf("router %s has no interface %d", ep.Node, ep.Interface)
	}
	return nil
}

// linkValidator checks that a router reaches the far end of a link through the interface the link is plugged into
func linkValidator(cfg *SimCfg, local, remote Endpoint) error {
	r := cfg.GetRouter(local.Node)
	if r == nil {
		return nil
	}
	if _, ok := r.CostTable()[remote.Node][local.Interface]; !ok {
		return fmt.Errorf("link %s-%s: router %s does not list %s on interface %d", local, remote, local.Node, remote.Node, local.Interface)
	}
	return nil
}
