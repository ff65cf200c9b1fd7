package scoringdomain

import (
	"errors"
	"fmt"
)

// Format is a scoring format that can be active in a round.
type Format string

const (
	FormatStroke        Format = "stroke"
	FormatStableford    Format = "stableford"
	FormatMatchPlay     Format = "match_play"
	FormatTeamMatchPlay Format = "team_match_play"
	FormatScramble      Format = "scramble"
)

// Formats lists every supported format in display order.
var Formats = []Format{FormatStroke, FormatStableford, FormatMatchPlay, FormatTeamMatchPlay, FormatScramble}

var ErrUnknownFormat = errors.New("unknown scoring format")

// ParseFormat converts a wire value into a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
	return f, nil
}

func (f Format) Valid() bool {
	switch f {
	case FormatStroke, FormatStableford, FormatMatchPlay, FormatTeamMatchPlay, FormatScramble:
		return true
	}
	return false
}

// IsTeamFormat reports whether the format needs a team composition.
func (f Format) IsTeamFormat() bool {
	return f == FormatTeamMatchPlay || f == FormatScramble
}

func (f Format) String() string { return string(f) }

// Basis selects how team match play compares balls.
type Basis string

const (
	BasisStroke     Basis = "stroke"
	BasisStableford Basis = "stableford"
)

func (b Basis) Valid() bool {
	return b == BasisStroke || b == BasisStableford
}
