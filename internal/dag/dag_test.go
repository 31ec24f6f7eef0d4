// SPDX-License-Identifier: MPL-2.0

package dag

import (
	"errors"
	"slices"
	"testing"
)

func TestTopologicalSort(t *testing.T) {
	t.Parallel()

	type edge struct{ dep, importer string }
	tests := []struct {
		name  string
		nodes []string
		edges []edge
		want  []string
	}{
		{"empty", nil, nil, nil},
		{"single module", []string{"/app/main.js"}, nil, []string{"/app/main.js"}},
		{
			"import chain",
			nil,
			[]edge{{"std", "/app/lib.js"}, {"/app/lib.js", "/app/main.js"}},
			[]string{"std", "/app/lib.js", "/app/main.js"},
		},
		{
			"shared dependency",
			nil,
			[]edge{{"std", "/app/a.js"}, {"std", "/app/b.js"}, {"/app/a.js", "/app/main.js"}, {"/app/b.js", "/app/main.js"}},
			[]string{"std", "/app/a.js", "/app/b.js", "/app/main.js"},
		},
		{
			"repeated import stored once",
			nil,
			[]edge{{"os", "/app/main.js"}, {"os", "/app/main.js"}},
			[]string{"os", "/app/main.js"},
		},
		{
			"standalone modules keep first-seen order",
			[]string{"<data-url>", "util"},
			[]edge{{"path", "/app/main.js"}},
			[]string{"<data-url>", "util", "path", "/app/main.js"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := New()
			for _, n := range tt.nodes {
				g.AddNode(n)
			}
			for _, e := range tt.edges {
				g.AddEdge(e.dep, e.importer)
			}
			got, err := g.TopologicalSort()
			if err != nil {
				t.Fatalf("TopologicalSort() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("TopologicalSort() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTopologicalSort_Cycles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		edges    [][2]string
		minStuck int
	}{
		{"self import", [][2]string{{"/a.js", "/a.js"}}, 1},
		{"mutual import", [][2]string{{"/a.js", "/b.js"}, {"/b.js", "/a.js"}}, 2},
		{"three module ring", [][2]string{{"/a.js", "/b.js"}, {"/b.js", "/c.js"}, {"/c.js", "/a.js"}}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := New()
			g.AddNode("std")
			for _, e := range tt.edges {
				g.AddEdge(e[0], e[1])
			}
			_, err := g.TopologicalSort()
			var cycle *CycleError
			if !errors.As(err, &cycle) {
				t.Fatalf("TopologicalSort() error = %v, want *CycleError", err)
			}
			if len(cycle.Cycle) < tt.minStuck || slices.Contains(cycle.Cycle, "std") {
				t.Errorf("Cycle = %v", cycle.Cycle)
			}
		})
	}
}

func TestGraph_Accessors(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddEdge("std", "/app/a.js")
	g.AddEdge("std", "/app/b.js")
	g.AddNode("std")

	if g.Len() != 3 {
		t.Errorf("Len() = %d", g.Len())
	}
	if !slices.Equal(g.Nodes(), []string{"std", "/app/a.js", "/app/b.js"}) {
		t.Errorf("Nodes() = %v", g.Nodes())
	}
	deps := g.Dependents("std")
	if !slices.Equal(deps, []string{"/app/a.js", "/app/b.js"}) {
		t.Errorf("Dependents(std) = %v", deps)
	}
	deps[0] = "mutated"
	if g.Dependents("std")[0] != "/app/a.js" {
		t.Error("Dependents() must return a copy")
	}
	if g.Dependents("/app/a.js") != nil {
		t.Error("leaf module should have no dependents")
	}
}

func TestCycleError_Message(t *testing.T) {
	t.Parallel()
	err := &CycleError{Cycle: []string{"/a.js", "/b.js"}}
	if got, want := err.Error(), "import cycle: /a.js -> /b.js"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
