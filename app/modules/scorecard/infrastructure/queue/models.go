package scorecardqueue

import (
	"github.com/riverqueue/river"
)

// QueueName is the River queue score writes run on.
const QueueName = "scorecard"

// ScoreWriteJob writes one versioned hole score to the remote store.
type ScoreWriteJob struct {
	RoundID     string `json:"round_id"`
	PlayerID    string `json:"player_id"`
	ScorecardID string `json:"scorecard_id"`
	Hole        int    `json:"hole"`
	Gross       int    `json:"gross"`
	Version     int64  `json:"version"`
}

// Kind returns the job type identifier for River
func (ScoreWriteJob) Kind() string { return "scorecard_score_write" }

func (ScoreWriteJob) InsertOpts() river.InsertOpts {
	return river.InsertOpts{Queue: QueueName}
}
