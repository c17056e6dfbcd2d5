// Package stats contains statistics calculations and reporting.
package stats

import (
	"context"
	"fmt"
	"io"

	"github.com/verte-zerg/blip/internal/model"
	"github.com/verte-zerg/blip/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions []model.SessionAggregate
	Quarters map[int64][]model.QuarterRecord
	Drift    []DriftSummary
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}

	var vigilanceIDs []int64
	for _, s := range sessions {
		if s.Kind == model.KindVigilance {
			vigilanceIDs = append(vigilanceIDs, s.SessionID)
		}
	}
	quarters, err := st.ListQuarters(ctx, vigilanceIDs)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Sessions: sessions,
		Quarters: quarters,
		Drift:    SummarizeDrift(sessions, quarters),
	}, nil
}

// RenderSummary prints an aggregate table for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalScore, totalRT float64
	var rtSessions int
	bestScore := 0
	for _, s := range sessions {
		totalScore += float64(s.Score)
		if s.Score > bestScore {
			bestScore = s.Score
		}
		if rt := s.AvgReactionMs(); rt > 0 {
			totalRT += rt
			rtSessions++
		}
	}
	count := float64(len(sessions))
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Sessions: %d\n", len(sessions)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Score: %.1f\n", totalScore/count); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best Score: %d\n", bestScore); err != nil {
		return err
	}
	if rtSessions > 0 {
		if _, err := fmt.Fprintf(w, "Avg Reaction: %.0f ms\n", totalRT/float64(rtSessions)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderCurves prints score and reaction-time curves for the sessions.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window int) error {
	return RenderCurvesWithSize(w, sessions, window, 0, 10)
}

// RenderCurvesWithSize prints curves sized to a given total width.
func RenderCurvesWithSize(w io.Writer, sessions []model.SessionAggregate, window, totalWidth, height int) error {
	if len(sessions) == 0 {
		return nil
	}
	scores := MovingAverage(ScoreSeries(sessions), window)
	reactions := MovingAverage(ReactionSeries(sessions), window)

	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeries(w, "Progress", []Series{
		{Name: "Score", Values: scores},
		{Name: "Reaction ms", Values: reactions},
	}, width, height)
}

// RenderDriftTable prints the sustained-attention breakdown of vigilance
// sessions.
func RenderDriftTable(w io.Writer, drift []DriftSummary) error {
	if len(drift) == 0 {
		_, err := fmt.Fprintln(w, "No focus sessions found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Focus Sessions"); err != nil {
		return err
	}
	headers := []string{"Session", "Q1", "Q2", "Q3", "Q4", "Drift", "Verdict"}
	rows := make([][]string, 0, len(drift))
	for _, d := range drift {
		row := []string{fmt.Sprintf("#%d", d.SessionID)}
		for _, q := range d.QuarterScores {
			row = append(row, fmt.Sprintf("%d", q))
		}
		for len(row) < 5 {
			row = append(row, "-")
		}
		row = append(row, fmt.Sprintf("%+.1f", d.Drift), d.Band.Label())
		rows = append(rows, row)
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}
