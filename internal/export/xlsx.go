package export

import (
	"fmt"
	"io"

	"github.com/mauv0809/fairway-oom/internal/oom"
	"github.com/xuri/excelize/v2"
)

// SeasonSheet is the name of the worksheet holding the standings.
const SeasonSheet = "Order of Merit"

var seasonHeader = []any{"Rank", "Member", "Points", "Wins", "Events", "Handicap"}

// WriteSeasonXLSX writes the season table as a single sheet workbook.
func WriteSeasonXLSX(w io.Writer, table []oom.SeasonEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SeasonSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(SeasonSheet, "A1", &seasonHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(SeasonSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, entry := range table {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		var handicap any = ""
		if entry.HandicapIndex != nil {
			handicap = *entry.HandicapIndex
		}
		row := []any{entry.Rank, entry.MemberName, entry.TotalPoints, entry.Wins, entry.Appearances, handicap}
		if err := f.SetSheetRow(SeasonSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(SeasonSheet, "B", "B", 28); err != nil {
		return err
	}

	return f.Write(w)
}
