package rounddomain

import (
	"testing"

	scoringdomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/scoring/domain"
)

func TestScoreCacheOverwrite(t *testing.T) {
	c := NewScoreCache()
	if !c.Empty() {
		t.Fatalf("new cache should be empty")
	}

	c.Set("ann", 3, 6)
	c.Set("ann", 3, 4)
	c.Set("ann", 1, 5)

	if got, ok := c.Get("ann", 3); !ok || got != 4 {
		t.Fatalf("expected corrected value 4, got %d (%v)", got, ok)
	}
	if c.HolesPlayed("ann") != 2 {
		t.Fatalf("expected 2 holes, got %d", c.HolesPlayed("ann"))
	}
	if _, ok := c.Get("bob", 3); ok {
		t.Fatalf("bob has no scores")
	}
	want := scoringdomain.ScoreLine{0: 5, 2: 4}
	if c.Line("ann") != want {
		t.Fatalf("unexpected line %v", c.Line("ann"))
	}
	if c.Empty() {
		t.Fatalf("cache should not be empty")
	}
}

func TestScoreCacheCloneIsIndependent(t *testing.T) {
	c := NewScoreCache()
	c.Set("ann", 1, 5)

	clone := c.Clone()
	clone.Set("ann", 1, 7)
	clone.Set("bob", 2, 4)

	if got, _ := c.Get("ann", 1); got != 5 {
		t.Fatalf("original mutated through clone: %d", got)
	}
	if _, ok := c.Get("bob", 2); ok {
		t.Fatalf("original gained bob's score")
	}
}

func TestTeamLabel(t *testing.T) {
	if got := TeamLabel([]string{"Ann", "Bob", "Cat"}); got != "Team: Ann, Bob, Cat" {
		t.Fatalf("unexpected label %q", got)
	}
}
