package leaderboarddomain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Fingerprint is a deterministic hash of the ranked content of standings.
// Equal fingerprints mean a recompute changed nothing a viewer can see.
func Fingerprint(s Standings) string {
	var sb strings.Builder
	for _, b := range s.Boards {
		fmt.Fprintf(&sb, "[%s]", b.Format)
		for _, e := range b.Entries {
			fmt.Fprintf(&sb, "%d:%s:%d:%d:%d;", e.Position, e.ID, e.HolesPlayed, e.Gross, e.Totals[b.Format])
		}
	}
	if s.TeamMatch != nil {
		fmt.Fprintf(&sb, "[match]%v", s.TeamMatch.Holes)
	}

	hash := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(hash[:])
}
