package scoringdomain

import (
	"testing"

	"github.com/Black-And-White-Club/golf-scorecard/internal/testutils"
)

func TestShotsReceived(t *testing.T) {
	tests := []struct {
		handicap    float64
		strokeIndex int
		want        int
	}{
		{handicap: 12, strokeIndex: 10, want: 1},
		{handicap: 12, strokeIndex: 12, want: 1},
		{handicap: 12, strokeIndex: 13, want: 0},
		{handicap: 9.4, strokeIndex: 10, want: 0},
		{handicap: 0, strokeIndex: 1, want: 0},
		// Single allocation only, even above 18.
		{handicap: 28, strokeIndex: 1, want: 1},
	}
	for _, tt := range tests {
		if got := ShotsReceived(tt.handicap, tt.strokeIndex); got != tt.want {
			t.Fatalf("ShotsReceived(%v, %d) = %d, want %d", tt.handicap, tt.strokeIndex, got, tt.want)
		}
	}
}

func TestStablefordPoints(t *testing.T) {
	tests := []struct {
		name        string
		gross       int
		handicap    float64
		par         int
		strokeIndex int
		want        int
	}{
		{name: "net par with shot", gross: 5, handicap: 12, par: 4, strokeIndex: 10, want: 2},
		{name: "gross par no shot", gross: 4, handicap: 5, par: 4, strokeIndex: 10, want: 2},
		{name: "net birdie", gross: 4, handicap: 12, par: 4, strokeIndex: 10, want: 3},
		{name: "net eagle", gross: 3, handicap: 12, par: 4, strokeIndex: 10, want: 4},
		{name: "albatross is uncapped", gross: 2, handicap: 0, par: 5, strokeIndex: 3, want: 5},
		{name: "bogey", gross: 5, handicap: 0, par: 4, strokeIndex: 1, want: 1},
		{name: "double bogey", gross: 6, handicap: 0, par: 4, strokeIndex: 1, want: 0},
		{name: "blow up hole", gross: 15, handicap: 18, par: 3, strokeIndex: 1, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StablefordPoints(tt.gross, tt.handicap, tt.par, tt.strokeIndex); got != tt.want {
				t.Fatalf("got %d points, want %d", got, tt.want)
			}
		})
	}
}

func TestStablefordPointsNonIncreasingInNet(t *testing.T) {
	g := testutils.NewGenerator(42)
	for i := 0; i < 200; i++ {
		handicap := g.Handicap()
		par := testutils.Pars[i%18]
		si := testutils.StrokeIndices[i%18]

		prev := StablefordPoints(MinGross, handicap, par, si)
		for gross := MinGross + 1; gross <= MaxGross; gross++ {
			pts := StablefordPoints(gross, handicap, par, si)
			if pts < 0 {
				t.Fatalf("negative points for gross %d", gross)
			}
			if pts > prev {
				t.Fatalf("points increased from %d to %d at gross %d (handicap %v, SI %d)", prev, pts, gross, handicap, si)
			}
			prev = pts
		}
	}
}

func TestTeamHandicap(t *testing.T) {
	tests := []struct {
		name      string
		handicaps []float64
		want      int
	}{
		{name: "four ball", handicaps: []float64{12, 18, 8, 5}, want: 9},
		{name: "pair", handicaps: []float64{10, 14}, want: 9},
		{name: "three", handicaps: []float64{10, 11, 12}, want: 8},
		{name: "five uses default", handicaps: []float64{10, 10, 10, 10, 10}, want: 10},
		{name: "single uses default", handicaps: []float64{13}, want: 3},
		{name: "rounds half up", handicaps: []float64{10, 2.5, 0, 0}, want: 3},
		{name: "empty", handicaps: nil, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TeamHandicap(tt.handicaps); got != tt.want {
				t.Fatalf("TeamHandicap(%v) = %d, want %d", tt.handicaps, got, tt.want)
			}
		})
	}
}
