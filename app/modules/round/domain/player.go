package rounddomain

import "strings"

// Player is a golfer in the group.
type Player struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Handicap float64 `json:"handicap"`
	// AccountID links the player to a club account. Without one the round
	// is not archived for this player.
	AccountID *string `json:"account_id,omitempty"`
}

func (p Player) HasAccount() bool {
	return p.AccountID != nil && *p.AccountID != ""
}

// Team groups players for team formats.
type Team struct {
	ID        string   `json:"id"`
	Name      string   `json:"name,omitempty"`
	PlayerIDs []string `json:"player_ids"`
}

// TeamLabel is the display label of a team built from member names.
func TeamLabel(names []string) string {
	return "Team: " + strings.Join(names, ", ")
}
