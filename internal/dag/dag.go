// SPDX-License-Identifier: MPL-2.0

// Package dag records which modules import which and orders them so that
// every dependency precedes its importers.
package dag

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

type (
	// CycleError reports modules that import each other, directly or
	// through a chain, and therefore have no load order.
	CycleError struct {
		// Cycle lists the modules still waiting on an import when ordering
		// stalled, in first-seen order.
		Cycle []string
	}

	// Graph is a directed graph of module names. An edge from A to B means
	// A is imported by B, so A loads first.
	Graph struct {
		// dependents maps a module to the modules that import it.
		dependents map[string][]string
		// nodes keeps first-seen order for deterministic output.
		nodes []string
		seen  map[string]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("import cycle: %s", strings.Join(e.Cycle, " -> "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		dependents: make(map[string][]string),
		seen:       make(map[string]bool),
	}
}

// AddNode records a module. Adding a known module is a no-op.
func (g *Graph) AddNode(name string) {
	if g.seen[name] {
		return
	}
	g.seen[name] = true
	g.nodes = append(g.nodes, name)
}

// AddEdge records that dep is imported by importer. Repeated edges are
// stored once.
func (g *Graph) AddEdge(dep, importer string) {
	g.AddNode(dep)
	g.AddNode(importer)
	if slices.Contains(g.dependents[dep], importer) {
		return
	}
	g.dependents[dep] = append(g.dependents[dep], importer)
}

// Nodes returns every module in first-seen order.
func (g *Graph) Nodes() []string {
	return slices.Clone(g.nodes)
}

// Dependents returns the modules that import name.
func (g *Graph) Dependents(name string) []string {
	return slices.Clone(g.dependents[name])
}

// Len is the number of modules.
func (g *Graph) Len() int { return len(g.nodes) }

// TopologicalSort returns a load order using Kahn's algorithm, or a
// *CycleError when modules import each other. Modules that become ready
// together keep their first-seen order.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	pending := make(map[string]int, len(g.nodes))
	for _, importers := range g.dependents {
		for _, imp := range importers {
			pending[imp]++
		}
	}

	var ready []string
	for _, n := range g.nodes {
		if pending[n] == 0 {
			ready = append(ready, n)
		}
	}

	order := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		order = append(order, n)
		for _, imp := range g.dependents[n] {
			if pending[imp]--; pending[imp] == 0 {
				ready = append(ready, imp)
			}
		}
	}

	if len(order) != len(g.nodes) {
		var stuck []string
		for _, n := range g.nodes {
			if pending[n] > 0 {
				stuck = append(stuck, n)
			}
		}
		return nil, &CycleError{Cycle: stuck}
	}
	return order, nil
}
