// SPDX-License-Identifier: MPL-2.0

package jsmod

import (
	"slices"
	"testing"
)

func TestStack(t *testing.T) {
	t.Parallel()

	var s Stack
	if s.Top() != "" || s.Pop() != "" || s.Len() != 0 {
		t.Fatal("empty stack should report zero values")
	}

	s.Push("a")
	s.Push("b")
	if !s.Contains("a") || s.Contains("c") {
		t.Error("Contains() mismatch")
	}
	if s.Top() != "b" {
		t.Errorf("Top() = %q, want b", s.Top())
	}

	frames := s.Frames()
	frames[0] = "mutated"
	if !slices.Equal(s.Frames(), []string{"a", "b"}) {
		t.Errorf("Frames() should be a copy in push order, got %v", s.Frames())
	}

	if got := s.Pop(); got != "b" {
		t.Errorf("Pop() = %q, want b", got)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}
