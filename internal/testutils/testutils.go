// Package testutils holds fixtures and seeded data generators shared by tests.
package testutils

import (
	"fmt"
	"testing"
	"time"

	coursedomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/course/domain"
	"github.com/brianvoe/gofakeit/v7"
)

// Pars and StrokeIndices describe the fixture tee used across tests.
var (
	Pars          = [coursedomain.HolesPerRound]int{4, 4, 3, 5, 4, 4, 3, 4, 5, 4, 3, 4, 5, 4, 4, 3, 4, 5}
	StrokeIndices = [coursedomain.HolesPerRound]int{7, 1, 15, 11, 3, 9, 17, 5, 13, 10, 18, 2, 12, 4, 8, 16, 6, 14}
)

// StandardHoles returns the fixture holes for a tee.
func StandardHoles(tee string) []coursedomain.HoleDefinition {
	holes := make([]coursedomain.HoleDefinition, 0, coursedomain.HolesPerRound)
	for i := 0; i < coursedomain.HolesPerRound; i++ {
		holes = append(holes, coursedomain.HoleDefinition{
			Number:      i + 1,
			Par:         Pars[i],
			StrokeIndex: StrokeIndices[i],
			Yardage:     150 + 20*Pars[i] + i,
			Tee:         tee,
		})
	}
	return holes
}

// StandardTee returns the par 72 fixture tee.
func StandardTee(t testing.TB) *coursedomain.Tee {
	t.Helper()
	tee, err := coursedomain.NewTee("pinecrest", "white", StandardHoles("white"))
	if err != nil {
		t.Fatalf("fixture tee invalid: %v", err)
	}
	return tee
}

// Generator produces seeded random round data.
type Generator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewGenerator creates a generator. Without a seed it uses the clock.
func NewGenerator(seed ...int64) *Generator {
	var s int64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = time.Now().UnixNano()
	}
	return &Generator{faker: gofakeit.New(uint64(s)), seed: s}
}

func (g *Generator) Seed() int64 { return g.seed }

// Name returns a display name.
func (g *Generator) Name() string {
	return g.faker.FirstName()
}

// ID returns an identifier with the given prefix.
func (g *Generator) ID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.faker.LetterN(8))
}

// Handicap returns a handicap index between 0 and 36 with one decimal.
func (g *Generator) Handicap() float64 {
	return float64(g.faker.IntRange(0, 360)) / 10
}

// Gross returns a plausible gross score for a par.
func (g *Generator) Gross(par int) int {
	return g.faker.IntRange(max(1, par-2), min(15, par+4))
}

// Line returns 18 gross scores, leaving the last holes unplayed when
// played < 18. Unplayed holes are 0.
func (g *Generator) Line(played int) [coursedomain.HolesPerRound]int {
	var line [coursedomain.HolesPerRound]int
	for i := 0; i < played && i < coursedomain.HolesPerRound; i++ {
		line[i] = g.Gross(Pars[i])
	}
	return line
}

// HolesPlayed returns a count between 0 and 18.
func (g *Generator) HolesPlayed() int {
	return g.faker.IntRange(0, coursedomain.HolesPerRound)
}
