// Package export writes leaderboard snapshots to spreadsheet files.
package export

import (
	"fmt"
	"io"

	leaderboardservice "github.com/Black-And-White-Club/pga-leaderboard/app/modules/leaderboard/application"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the standings.
const SheetName = "Leaderboard"

// ContentType is the MIME type of WriteXLSX output.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var header = []interface{}{"Position", "Player", "Score", "Status"}

// WriteXLSX writes snap as a single sheet workbook: a title row, a header row
// and one row per player.
func WriteXLSX(w io.Writer, snap leaderboardservice.Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetName); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	rows := [][]interface{}{{Title(snap)}, header}
	for _, p := range snap.Players {
		row := []interface{}{p.Position, p.Name, p.Score}
		if p.Status != "" {
			row = append(row, p.Status)
		}
		rows = append(rows, row)
	}

	for idx, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, idx+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, axis, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", idx+1, err)
		}
	}

	if err := f.SetColWidth(SheetName, "B", "B", 28); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Title is the first row of the sheet.
func Title(snap leaderboardservice.Snapshot) string {
	if snap.Tournament == nil {
		return "No PGA Tour tournaments"
	}
	if snap.IsPrevious {
		return "PREV: " + snap.Tournament.Name
	}
	return snap.Tournament.Name
}
