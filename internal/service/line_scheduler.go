package service

import (
	"fmt"
	"time"
)

// DefaultLines is the rotation used when none is configured.
var DefaultLines = []int{1, 2, 3, 6, 7, 8}

const DefaultWindow = 5

type LineScheduler interface {
	// LinesFor returns the lines emphasised on the given calendar day.
	LinesFor(day time.Time) []int
	// LinesForYearDay is LinesFor keyed by ordinal day-of-year.
	LinesForYearDay(yearDay int) []int
	Lines() []int
}

type rotatingScheduler struct {
	lines  []int
	window int
}

func NewLineScheduler(lines []int, window int) (LineScheduler, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("line set must not be empty")
	}
	if window <= 0 || window > len(lines) {
		return nil, fmt.Errorf("window %d out of range 1..%d", window, len(lines))
	}
	owned := make([]int, len(lines))
	copy(owned, lines)
	return &rotatingScheduler{lines: owned, window: window}, nil
}

func (s *rotatingScheduler) LinesFor(day time.Time) []int {
	return s.LinesForYearDay(day.YearDay())
}

// LinesForYearDay slides a window over the rotation repeated twice, so the
// line left out moves by one position per day.
func (s *rotatingScheduler) LinesForYearDay(yearDay int) []int {
	n := len(s.lines)
	offset := yearDay % n
	if offset < 0 {
		offset += n
	}
	out := make([]int, 0, s.window)
	for i := 0; i < s.window; i++ {
		out = append(out, s.lines[(offset+i)%n])
	}
	return out
}

func (s *rotatingScheduler) Lines() []int {
	out := make([]int, len(s.lines))
	copy(out, s.lines)
	return out
}
