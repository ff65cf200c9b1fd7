package coursedomain

import (
	"errors"
	"fmt"
	"slices"
)

// HolesPerRound is the number of holes a tee must define.
const HolesPerRound = 18

var (
	ErrWrongHoleCount            = errors.New("tee must define exactly 18 holes")
	ErrInvalidHoleNumber         = errors.New("hole number must be unique and between 1 and 18")
	ErrInvalidPar                = errors.New("par must be between 3 and 5")
	ErrStrokeIndexNotPermutation = errors.New("stroke indices must be a permutation of 1 to 18")
	ErrTeeMismatch               = errors.New("hole belongs to a different tee")
	ErrInvalidYardage            = errors.New("yardage must not be negative")
)

// HoleDefinition describes one hole played from a tee.
type HoleDefinition struct {
	Number      int    `json:"number" yaml:"number"`
	Par         int    `json:"par" yaml:"par"`
	StrokeIndex int    `json:"stroke_index" yaml:"stroke_index"`
	Yardage     int    `json:"yardage" yaml:"yardage"`
	Tee         string `json:"tee" yaml:"tee"`
}

// Tee is the validated, immutable hole layout of a course tee.
type Tee struct {
	courseID string
	name     string
	holes    [HolesPerRound]HoleDefinition
}

// NewTee validates holes and returns them ordered by hole number.
func NewTee(courseID, tee string, holes []HoleDefinition) (*Tee, error) {
	if len(holes) != HolesPerRound {
		return nil, fmt.Errorf("%w: got %d", ErrWrongHoleCount, len(holes))
	}

	t := &Tee{courseID: courseID, name: tee}
	var seenHole, seenIndex [HolesPerRound + 1]bool

	for _, h := range holes {
		if h.Number < 1 || h.Number > HolesPerRound || seenHole[h.Number] {
			return nil, fmt.Errorf("%w: %d", ErrInvalidHoleNumber, h.Number)
		}
		seenHole[h.Number] = true

		if h.Tee != "" && h.Tee != tee {
			return nil, fmt.Errorf("%w: hole %d is on tee %q, want %q", ErrTeeMismatch, h.Number, h.Tee, tee)
		}
		if h.Par < 3 || h.Par > 5 {
			return nil, fmt.Errorf("%w: hole %d has par %d", ErrInvalidPar, h.Number, h.Par)
		}
		if h.StrokeIndex < 1 || h.StrokeIndex > HolesPerRound || seenIndex[h.StrokeIndex] {
			return nil, fmt.Errorf("%w: hole %d has stroke index %d", ErrStrokeIndexNotPermutation, h.Number, h.StrokeIndex)
		}
		seenIndex[h.StrokeIndex] = true

		if h.Yardage < 0 {
			return nil, fmt.Errorf("%w: hole %d", ErrInvalidYardage, h.Number)
		}

		h.Tee = tee
		t.holes[h.Number-1] = h
	}

	return t, nil
}

func (t *Tee) CourseID() string { return t.courseID }
func (t *Tee) Name() string     { return t.name }

// Hole returns the definition of hole n (1-based).
func (t *Tee) Hole(n int) (HoleDefinition, bool) {
	if n < 1 || n > HolesPerRound {
		return HoleDefinition{}, false
	}
	return t.holes[n-1], true
}

// Holes returns a copy of all holes in play order.
func (t *Tee) Holes() []HoleDefinition {
	return slices.Clone(t.holes[:])
}

// Par returns the total par of the tee.
func (t *Tee) Par() int {
	total := 0
	for _, h := range t.holes {
		total += h.Par
	}
	return total
}

// Yardage returns the total length of the tee.
func (t *Tee) Yardage() int {
	total := 0
	for _, h := range t.holes {
		total += h.Yardage
	}
	return total
}
