package ui

import (
	"fmt"
	"pgtpch/internal/history"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var historyHeaders = []string{"STARTED", "TEST", "QUERY", "SCALE", "STATUS", "RETCODE", "SAMPLES", "MEAN", "DURATION"}

// HistoryTitle renders the banner above the history table.
func (s *Styles) HistoryTitle(shown, total int) string {
	if shown == total {
		return s.Header.Render(fmt.Sprintf("Run history: %d runs", total))
	}
	return s.Header.Render(fmt.Sprintf("Run history: latest %d of %d runs", shown, total))
}

// HistoryTable renders run records as a bordered table, newest last.
func (s *Styles) HistoryTable(records []history.RunRecord) string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		mean := "-"
		if rec.Status == history.StatusSucceeded {
			mean = strconv.FormatFloat(rec.Mean, 'f', 2, 64)
		}
		rows = append(rows, []string{
			rec.StartedAt.Local().Format("2006-01-02 15:04:05"),
			rec.TestName,
			rec.Query,
			rec.Scale,
			rec.Status,
			strconv.Itoa(rec.ExitCode),
			fmt.Sprintf("%d/%d", rec.Found, rec.Expected),
			mean,
			rec.Duration.Round(time.Millisecond).String(),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Muted).
		Headers(historyHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.Group.Padding(0, 1)
			}
			cell := s.renderer.NewStyle().Padding(0, 1)
			if col == 4 && row >= 0 && row < len(records) && records[row].Status != history.StatusSucceeded {
				return cell.Inherit(s.Failed)
			}
			return cell
		})
	return t.String()
}
