package playerservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	playerdb "github.com/Black-And-White-Club/golf-scorecard/app/modules/player/infrastructure/repositories"
	rounddomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/round/domain"
	"github.com/Black-And-White-Club/golf-scorecard/internal/attr"
)

// ErrUnknownPlayers is returned when requested ids have no profile.
var ErrUnknownPlayers = errors.New("unknown players")

// PlayerSource supplies players with their current handicap and account.
type PlayerSource interface {
	GetPlayers(ctx context.Context, ids []string) ([]rounddomain.Player, error)
}

// Source reads players from the players table.
type Source struct {
	repo   playerdb.Repository
	logger *slog.Logger
}

func NewSource(repo playerdb.Repository, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{repo: repo, logger: logger}
}

var _ PlayerSource = (*Source)(nil)

// GetPlayers returns players in the order requested.
func (s *Source) GetPlayers(ctx context.Context, ids []string) ([]rounddomain.Player, error) {
	rows, err := s.repo.GetPlayers(ctx, nil, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]playerdb.PlayerRow, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}

	players := make([]rounddomain.Player, 0, len(ids))
	var missing []string
	for _, id := range ids {
		r, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		players = append(players, rounddomain.Player{
			ID:        r.ID,
			Name:      r.Name,
			Handicap:  r.Handicap,
			AccountID: r.AccountID,
		})
	}
	if len(missing) > 0 {
		s.logger.WarnContext(ctx, "Players not found", attr.ExtractCorrelationID(ctx), attr.Any("ids", missing))
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlayers, strings.Join(missing, ", "))
	}
	return players, nil
}
