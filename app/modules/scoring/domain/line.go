package scoringdomain

import (
	coursedomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/course/domain"
)

// ScoreLine holds the gross score of each hole. Zero means not played.
type ScoreLine [coursedomain.HolesPerRound]int

// Score returns the gross for hole n and whether it was played.
func (l ScoreLine) Score(hole int) (int, bool) {
	if hole < 1 || hole > coursedomain.HolesPerRound || l[hole-1] == 0 {
		return 0, false
	}
	return l[hole-1], true
}

func (l ScoreLine) Gross() int {
	total := 0
	for _, g := range l {
		total += g
	}
	return total
}

func (l ScoreLine) HolesPlayed() int {
	n := 0
	for _, g := range l {
		if g > 0 {
			n++
		}
	}
	return n
}

// Slice returns the line as a slice, for storage.
func (l ScoreLine) Slice() []int {
	return append([]int(nil), l[:]...)
}

// LineFromSlice builds a line from stored values, ignoring extras.
func LineFromSlice(values []int) ScoreLine {
	var l ScoreLine
	copy(l[:], values)
	return l
}
