// SPDX-License-Identifier: MPL-2.0

package jsmod

import "golang.org/x/exp/slices"

// Stack is the LIFO list of specifiers currently being resolved. No two
// frames are ever equal.
type Stack struct {
	frames []string
}

// Contains reports whether spec is already in flight.
func (s *Stack) Contains(spec string) bool {
	return slices.Contains(s.frames, spec)
}

// Push appends spec to the top of the stack.
func (s *Stack) Push(spec string) {
	s.frames = append(s.frames, spec)
}

// Pop removes and returns the top frame, or "" when empty.
func (s *Stack) Pop() string {
	if len(s.frames) == 0 {
		return ""
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return top
}

// Top returns the most recently pushed frame, or "" when empty.
func (s *Stack) Top() string {
	if len(s.frames) == 0 {
		return ""
	}
	return s.frames[len(s.frames)-1]
}

// Len returns the stack depth.
func (s *Stack) Len() int { return len(s.frames) }

// Frames returns a copy of the stack in push order.
func (s *Stack) Frames() []string {
	return slices.Clone(s.frames)
}
