package coursedomain

import (
	"errors"
	"testing"
)

func standardHoles(tee string) []HoleDefinition {
	pars := []int{4, 4, 3, 5, 4, 4, 3, 4, 5, 4, 3, 4, 5, 4, 4, 3, 4, 5}
	indices := []int{7, 1, 15, 11, 3, 9, 17, 5, 13, 8, 18, 2, 12, 4, 10, 16, 6, 14}
	holes := make([]HoleDefinition, 0, HolesPerRound)
	// Deliberately out of order.
	for i := HolesPerRound - 1; i >= 0; i-- {
		holes = append(holes, HoleDefinition{
			Number:      i + 1,
			Par:         pars[i],
			StrokeIndex: indices[i],
			Yardage:     300 + i*10,
			Tee:         tee,
		})
	}
	return holes
}

func TestNewTeeOrdersHoles(t *testing.T) {
	tee, err := NewTee("pinecrest", "white", standardHoles("white"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for n := 1; n <= HolesPerRound; n++ {
		h, ok := tee.Hole(n)
		if !ok || h.Number != n {
			t.Fatalf("hole %d: got %+v ok=%v", n, h, ok)
		}
	}
	if tee.Par() != 72 {
		t.Fatalf("expected par 72, got %d", tee.Par())
	}
	if _, ok := tee.Hole(19); ok {
		t.Fatalf("expected hole 19 to be missing")
	}
}

func TestNewTeeAcceptsHolesWithoutTeeTag(t *testing.T) {
	holes := standardHoles("")
	tee, err := NewTee("pinecrest", "blue", holes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h, _ := tee.Hole(1)
	if h.Tee != "blue" {
		t.Fatalf("expected tee to be stamped, got %q", h.Tee)
	}
}

func TestHolesReturnsCopy(t *testing.T) {
	tee, err := NewTee("pinecrest", "white", standardHoles("white"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	holes := tee.Holes()
	holes[0].Par = 99
	if h, _ := tee.Hole(1); h.Par == 99 {
		t.Fatalf("tee mutated through Holes()")
	}
}

func TestNewTeeValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]HoleDefinition) []HoleDefinition
		want   error
	}{
		{
			name:   "17 holes",
			mutate: func(h []HoleDefinition) []HoleDefinition { return h[:17] },
			want:   ErrWrongHoleCount,
		},
		{
			name: "duplicate hole number",
			mutate: func(h []HoleDefinition) []HoleDefinition {
				h[0].Number = h[1].Number
				return h
			},
			want: ErrInvalidHoleNumber,
		},
		{
			name: "par 6",
			mutate: func(h []HoleDefinition) []HoleDefinition {
				h[3].Par = 6
				return h
			},
			want: ErrInvalidPar,
		},
		{
			name: "duplicate stroke index",
			mutate: func(h []HoleDefinition) []HoleDefinition {
				h[0].StrokeIndex = h[1].StrokeIndex
				return h
			},
			want: ErrStrokeIndexNotPermutation,
		},
		{
			name: "stroke index out of range",
			mutate: func(h []HoleDefinition) []HoleDefinition {
				h[0].StrokeIndex = 19
				return h
			},
			want: ErrStrokeIndexNotPermutation,
		},
		{
			name: "hole from another tee",
			mutate: func(h []HoleDefinition) []HoleDefinition {
				h[5].Tee = "red"
				return h
			},
			want: ErrTeeMismatch,
		},
		{
			name: "negative yardage",
			mutate: func(h []HoleDefinition) []HoleDefinition {
				h[2].Yardage = -1
				return h
			},
			want: ErrInvalidYardage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTee("pinecrest", "white", tt.mutate(standardHoles("white")))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
