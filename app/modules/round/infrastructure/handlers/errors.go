package roundhandlers

import (
	"errors"
	"net/http"

	historydomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/history/domain"
	playerservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/player/application"
	roundservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/round/application"
)

var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Error      string   `json:"error"`
	Conditions []string `json:"conditions,omitempty"`
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var startErr *roundservice.StartError
	var validationErr *historydomain.ValidationError

	switch {
	case errors.As(err, &startErr), errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNoRound):
		return http.StatusNotFound
	case errors.Is(err, ErrRoundInProgress),
		errors.Is(err, roundservice.ErrRoundNotActive),
		errors.Is(err, roundservice.ErrRoundNotCompleted),
		errors.Is(err, roundservice.ErrRoundAlreadyStarted):
		return http.StatusConflict
	case errors.Is(err, errBadRequest),
		errors.Is(err, errMissingSession),
		errors.Is(err, roundservice.ErrScoreOutOfRange),
		errors.Is(err, roundservice.ErrInvalidHole),
		errors.Is(err, roundservice.ErrUnknownCompetitor),
		errors.Is(err, roundservice.ErrDriveNotInTeam),
		errors.Is(err, playerservice.ErrUnknownPlayers):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: err.Error()}
	if status == http.StatusInternalServerError {
		resp.Error = http.StatusText(status)
	}
	var validationErr *historydomain.ValidationError
	if errors.As(err, &validationErr) {
		resp.Conditions = validationErr.Conditions
	}
	writeJSON(w, status, resp)
}
