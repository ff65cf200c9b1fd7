package scoringdomain

import "math"

const (
	MinGross = 1
	MaxGross = 15
)

// ShotsReceived allocates one stroke on holes whose stroke index is within
// the handicap. Handicaps above 18 do not earn a second stroke.
func ShotsReceived(handicap float64, strokeIndex int) int {
	if handicap >= float64(strokeIndex) {
		return 1
	}
	return 0
}

// NetScore is gross minus the strokes received on the hole.
func NetScore(gross int, handicap float64, strokeIndex int) int {
	return gross - ShotsReceived(handicap, strokeIndex)
}

// StablefordPoints awards 2 for a net par, one more per stroke under and one
// less per stroke over, never below zero. There is no upper cap.
func StablefordPoints(gross int, handicap float64, par, strokeIndex int) int {
	net := NetScore(gross, handicap, strokeIndex)
	return max(0, 2-(net-par))
}

// TeamHandicapMultiplier returns the allowance for a team of the given size.
func TeamHandicapMultiplier(size int) float64 {
	switch size {
	case 2:
		return 0.375
	case 3:
		return 0.25
	default:
		return 0.20
	}
}

// TeamHandicap is the sum of member handicaps times the size multiplier,
// rounded to the nearest whole stroke.
func TeamHandicap(handicaps []float64) int {
	sum := 0.0
	for _, h := range handicaps {
		sum += h
	}
	return int(math.Round(sum * TeamHandicapMultiplier(len(handicaps))))
}
