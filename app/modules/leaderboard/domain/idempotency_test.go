package leaderboarddomain

import (
	"testing"

	scoringdomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/scoring/domain"
)

func TestFingerprintDeterministic(t *testing.T) {
	in := fourPlayerInput(t, scoringdomain.FormatStroke, scoringdomain.FormatStableford)
	in.Lines["ann"] = scoringdomain.ScoreLine{4, 5}

	if Fingerprint(Build(in)) != Fingerprint(Build(in)) {
		t.Fatalf("expected equal fingerprints for identical input")
	}
}

func TestFingerprintChangesWhenScoresChange(t *testing.T) {
	in := fourPlayerInput(t, scoringdomain.FormatStroke)
	in.Lines["ann"] = scoringdomain.ScoreLine{4}
	before := Fingerprint(Build(in))

	in.Lines["ann"] = scoringdomain.ScoreLine{5}
	if Fingerprint(Build(in)) == before {
		t.Fatalf("expected a different fingerprint after a score correction")
	}
}
