// Package historyexport writes a finished round to an xlsx workbook.
package historyexport

import (
	"fmt"
	"io"

	coursedomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/course/domain"
	leaderboarddomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/leaderboard/domain"
	rounddomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/round/domain"
	scoringdomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/scoring/domain"
	"github.com/xuri/excelize/v2"
)

const scorecardSheet = "Scorecard"

// ExportInput is the round being exported.
type ExportInput struct {
	Tee       *coursedomain.Tee
	Players   []rounddomain.Player
	Lines     map[string]scoringdomain.ScoreLine
	Standings leaderboarddomain.Standings
}

// WriteScorecard writes a Scorecard sheet followed by one sheet per board.
func WriteScorecard(w io.Writer, in ExportInput) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", scorecardSheet); err != nil {
		return fmt.Errorf("failed to name scorecard sheet: %w", err)
	}
	if err := writeCard(f, in); err != nil {
		return err
	}

	for _, board := range in.Standings.Boards {
		if _, err := f.NewSheet(board.Format.String()); err != nil {
			return fmt.Errorf("failed to add %s sheet: %w", board.Format, err)
		}
		if err := writeBoard(f, board); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeCard(f *excelize.File, in ExportInput) error {
	holes := in.Tee.Holes()

	header := []any{"Hole"}
	par := []any{"Par"}
	si := []any{"SI"}
	yards := []any{"Yards"}
	for _, h := range holes {
		header = append(header, h.Number)
		par = append(par, h.Par)
		si = append(si, h.StrokeIndex)
		yards = append(yards, h.Yardage)
	}
	header = append(header, "Total", "Handicap")
	par = append(par, in.Tee.Par())
	yards = append(yards, in.Tee.Yardage())

	rows := [][]any{header, par, si, yards}
	for _, p := range in.Players {
		line := in.Lines[p.ID]
		row := []any{p.Name}
		for _, h := range holes {
			if gross, ok := line.Score(h.Number); ok {
				row = append(row, gross)
			} else {
				row = append(row, "")
			}
		}
		row = append(row, line.Gross(), p.Handicap)
		rows = append(rows, row)
	}
	return writeRows(f, scorecardSheet, rows)
}

func writeBoard(f *excelize.File, board leaderboarddomain.Board) error {
	rows := [][]any{{"Pos", "Name", "Handicap", "Thru", "Gross", "To Par", "Total"}}
	for _, e := range board.Entries {
		rows = append(rows, []any{e.Position, e.Label, e.Handicap, e.HolesPlayed, e.Gross, e.ToPar, e.Totals[board.Format]})
	}
	return writeRows(f, board.Format.String(), rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
