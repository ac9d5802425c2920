package report

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/f-sync/followback/internal/relationship"
)

const (
	summaryHeadingMetric = "Metric"
	summaryHeadingCount  = "Count"
	emptyListPlaceholder = "(none)"
	listBullet           = "  - "
	columnGap            = "  "
	underlineRune        = "-"
	newline              = "\n"
)

// WriteText renders the summary table and the three lists as aligned plain text.
func WriteText(writer io.Writer, result relationship.AnalysisResult) error {
	buffered := bufio.NewWriter(writer)

	rows := [][]string{{summaryHeadingMetric, summaryHeadingCount}}
	for _, row := range summaryRows(result.Stats) {
		rows = append(rows, []string{row.label, strconv.Itoa(row.count)})
	}
	for _, line := range alignColumns(rows) {
		buffered.WriteString(line + newline)
	}

	for _, kind := range relationship.ListKinds() {
		identifiers := result.List(kind)
		heading := listHeading(kind)
		buffered.WriteString(newline + heading + newline)
		buffered.WriteString(strings.Repeat(underlineRune, runewidth.StringWidth(heading)) + newline)
		if len(identifiers) == 0 {
			buffered.WriteString(listBullet + emptyListPlaceholder + newline)
			continue
		}
		for _, identifier := range identifiers {
			buffered.WriteString(listBullet + identifier + newline)
		}
	}
	return buffered.Flush()
}

// alignColumns pads cells to the display width of the widest cell in each column. The first row is
// treated as a header and underlined.
func alignColumns(rows [][]string) []string {
	if len(rows) == 0 {
		return nil
	}
	columnWidths := make([]int, len(rows[0]))
	for _, row := range rows {
		for columnIndex := 0; columnIndex < len(row) && columnIndex < len(columnWidths); columnIndex++ {
			if width := runewidth.StringWidth(row[columnIndex]); width > columnWidths[columnIndex] {
				columnWidths[columnIndex] = width
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	for rowIndex, row := range rows {
		cells := make([]string, len(columnWidths))
		for columnIndex := range columnWidths {
			content := ""
			if columnIndex < len(row) {
				content = row[columnIndex]
			}
			cells[columnIndex] = runewidth.FillRight(content, columnWidths[columnIndex])
		}
		lines = append(lines, strings.TrimRight(strings.Join(cells, columnGap), " "))
		if rowIndex == 0 {
			underlines := make([]string, len(columnWidths))
			for columnIndex, width := range columnWidths {
				underlines[columnIndex] = strings.Repeat(underlineRune, width)
			}
			lines = append(lines, strings.Join(underlines, columnGap))
		}
	}
	return lines
}
