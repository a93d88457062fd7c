package command

import (
	"slices"
	"strings"
)

// segments is an argument list cut at marker tokens such as /by or /from.
// Segment 0 is everything before the first marker; segment i+1 follows
// markers[i]. Only the first occurrence of each marker counts.
type segments struct {
	args       []string
	markers    []string
	pos        []int
	outOfOrder bool
}

func split(args []string, markers ...string) segments {
	s := segments{args: args, markers: markers, pos: make([]int, len(markers))}
	last := -1
	for i, m := range markers {
		s.pos[i] = slices.Index(args, m)
		if s.pos[i] < 0 {
			continue
		}
		if s.pos[i] < last {
			s.outOfOrder = true
		}
		last = s.pos[i]
	}
	return s
}

func (s segments) has(marker string) bool {
	i := slices.Index(s.markers, marker)
	return i >= 0 && s.pos[i] >= 0
}

// text joins segment i with single spaces. Missing segments are empty.
func (s segments) text(i int) string {
	start := 0
	if i > 0 {
		if s.pos[i-1] < 0 {
			return ""
		}
		start = s.pos[i-1] + 1
	}
	end := len(s.args)
	for _, p := range s.pos {
		if p >= start && p < end {
			end = p
		}
	}
	return strings.Join(s.args[start:end], " ")
}
