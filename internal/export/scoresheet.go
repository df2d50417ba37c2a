package export

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ScoreRow is one participant line of an uploaded score sheet.
type ScoreRow struct {
	Member     string
	Gross      *float64
	Net        *float64
	Stableford *float64
}

// ParseScoreSheet reads the first sheet of an XLSX score sheet. The header row must name a
// member column and at least one of gross, net or stableford. Rows without a member or any
// numeric score are skipped.
func ParseScoreSheet(data []byte) ([]ScoreRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse XLSX: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("XLSX file contains no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("XLSX must contain a header and at least one score row")
	}

	header := rows[0]
	memberIdx := findColumn(header, "member", "name", "player", "member_id")
	grossIdx := findColumn(header, "gross")
	netIdx := findColumn(header, "net")
	stablefordIdx := findColumn(header, "stableford", "points", "pts")
	if memberIdx < 0 {
		memberIdx = 0
	}
	if grossIdx < 0 && netIdx < 0 && stablefordIdx < 0 {
		return nil, fmt.Errorf("XLSX needs a gross, net or stableford column")
	}

	var out []ScoreRow
	for _, row := range rows[1:] {
		member := cellAt(row, memberIdx)
		if member == "" {
			continue
		}
		sr := ScoreRow{
			Member:     member,
			Gross:      numberAt(row, grossIdx),
			Net:        numberAt(row, netIdx),
			Stableford: numberAt(row, stablefordIdx),
		}
		if sr.Gross == nil && sr.Net == nil && sr.Stableford == nil {
			continue
		}
		out = append(out, sr)
	}
	return out, nil
}

func findColumn(header []string, names ...string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, name := range names {
			if h == name {
				return i
			}
		}
	}
	return -1
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func numberAt(row []string, idx int) *float64 {
	s := cellAt(row, idx)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
