// Package tui provides the Bubble Tea game interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/blip/internal/campaign"
	"github.com/verte-zerg/blip/internal/engine"
	"github.com/verte-zerg/blip/internal/game"
	"github.com/verte-zerg/blip/internal/level"
	"github.com/verte-zerg/blip/internal/model"
	"github.com/verte-zerg/blip/internal/remote"
	"github.com/verte-zerg/blip/internal/score"
	"github.com/verte-zerg/blip/internal/store"
)

const (
	phasePlaying = iota
	phaseSummary
)

const (
	moveInterval     = 150 * time.Millisecond
	feedbackDuration = 450 * time.Millisecond
)

var (
	blueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4DA6FF"))
	redStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	greenStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	yellowStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FADB14"))
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	hitStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	failStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	scoreStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	unlockStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	summaryCard   = lipgloss.NewStyle().Padding(1, 3).Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#4A4A4A"))
	livesFull     = "♥"
	livesEmpty    = "♡"
	bandNoteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
)

func colorStyle(c game.Color) lipgloss.Style {
	switch c {
	case game.ColorBlue:
		return blueStyle
	case game.ColorRed:
		return redStyle
	case game.ColorGreen:
		return greenStyle
	case game.ColorYellow:
		return yellowStyle
	}
	return headerStyle
}

// Options configure one session run.
type Options struct {
	Kind       string
	Mode       game.Mode
	Config     level.TrialConfig
	Difficulty string
	// Campaign carries the progression state for campaign sessions and
	// is nil otherwise.
	Campaign *campaign.State
}

type trialExpiredMsg struct{ seq int }

type moveTickMsg struct{ seq int }

type clearFeedbackMsg struct{ seq int }

type persistedMsg struct {
	saveErr   error
	submitErr error
}

// Model implements the Bubble Tea game UI and orchestrates one session
// after another.
type Model struct {
	opts  Options
	store *store.Store
	sink  *remote.Sink
	rng   game.Rand

	session   *engine.Session
	trial     engine.Trial
	placed    []placedSymbol
	startedAt time.Time

	width  int
	height int

	feedback    string
	feedbackSeq int

	phase        int
	lastRecord   model.SessionRecord
	lastQuarters []model.QuarterRecord
	lastBand     score.Band
	campResult   campaign.Result
	persistNote  string

	bestScore    int
	hasBest      bool
	totalPlayed  int
	footerLoaded bool
}

// NewModel constructs a game model for the given session options.
func NewModel(st *store.Store, sink *remote.Sink, opts Options, rng game.Rand) *Model {
	m := &Model{
		opts:  opts,
		store: st,
		sink:  sink,
		rng:   rng,
	}
	m.session = engine.New(opts.Mode, opts.Config, rng)
	m.loadFooterStats()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	m.startedAt = time.Now()
	trial, ok := m.session.Start(m.startedAt)
	if !ok {
		return tea.Quit
	}
	return m.beginTrial(trial)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.updateKey(msg)
	case trialExpiredMsg:
		return m.updateExpiry(msg.seq)
	case moveTickMsg:
		if m.phase == phasePlaying && msg.seq == m.trial.Seq && m.trial.Moving {
			m.placed = m.positionsFor(m.trial)
			return m, tea.Tick(moveInterval, func(time.Time) tea.Msg {
				return moveTickMsg{seq: msg.seq}
			})
		}
		return m, nil
	case clearFeedbackMsg:
		if msg.seq == m.feedbackSeq {
			m.feedback = ""
		}
		return m, nil
	case persistedMsg:
		notes := []string{}
		if msg.saveErr != nil {
			notes = append(notes, "save failed")
		}
		if msg.submitErr != nil {
			notes = append(notes, "sync failed")
		}
		m.persistNote = strings.Join(notes, " · ")
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC || msg.String() == "q":
		m.session.Abort()
		return m, tea.Quit
	case msg.Type == tea.KeySpace || msg.Type == tea.KeyEnter:
		if m.phase == phaseSummary {
			return m, m.startNextSession()
		}
		return m, m.handleTap()
	default:
		return m, nil
	}
}

func (m *Model) handleTap() tea.Cmd {
	outcome, ok := m.session.Tap(time.Now())
	if !ok {
		return nil
	}
	m.feedbackSeq++
	seq := m.feedbackSeq
	switch outcome {
	case engine.OutcomeHit:
		rts := m.session.ReactionTimes()
		rt := rts[len(rts)-1]
		m.feedback = hitStyle.Render(fmt.Sprintf("HIT  %d ms", rt.Milliseconds()))
	case engine.OutcomeFalseTap:
		m.feedback = failStyle.Render("TOO HASTY")
	}
	return tea.Tick(feedbackDuration, func(time.Time) tea.Msg {
		return clearFeedbackMsg{seq: seq}
	})
}

func (m *Model) updateExpiry(seq int) (tea.Model, tea.Cmd) {
	if m.phase != phasePlaying {
		return m, nil
	}
	trial, ok := m.session.ExpireTrial(seq, time.Now())
	if ok {
		return m, m.beginTrial(trial)
	}
	if m.session.Status() == engine.StatusFinished {
		return m, m.finishSession()
	}
	// Stale countdown from an earlier trial.
	return m, nil
}

func (m *Model) beginTrial(trial engine.Trial) tea.Cmd {
	m.trial = trial
	m.placed = m.positionsFor(trial)
	seq := trial.Seq
	cmds := []tea.Cmd{tea.Tick(trial.Duration, func(time.Time) tea.Msg {
		return trialExpiredMsg{seq: seq}
	})}
	if trial.Moving {
		cmds = append(cmds, tea.Tick(moveInterval, func(time.Time) tea.Msg {
			return moveTickMsg{seq: seq}
		}))
	}
	return tea.Batch(cmds...)
}

func (m *Model) positionsFor(trial engine.Trial) []placedSymbol {
	var placed []placedSymbol
	if trial.Moving {
		placed = scatterPositions(m.rng, len(trial.Stimuli))
	} else {
		placed = centeredPositions(len(trial.Stimuli))
	}
	for i := range placed {
		placed[i].stimulus = trial.Stimuli[i]
	}
	return placed
}

func (m *Model) finishSession() tea.Cmd {
	endedAt := time.Now()
	hits, misses, falseTaps, totalTargets := m.session.Counters()
	counters := score.Counters{
		Hits:         hits,
		Misses:       misses,
		FalseTaps:    falseTaps,
		TotalTargets: totalTargets,
		Trials:       m.session.Trials(),
	}
	sessionScore := score.Session(counters)

	var rtSum time.Duration
	rts := m.session.ReactionTimes()
	for _, rt := range rts {
		rtSum += rt
	}

	rec := model.SessionRecord{
		StartedAt:    m.startedAt,
		EndedAt:      endedAt,
		Kind:         m.opts.Kind,
		ModeID:       m.opts.Mode.ID(),
		Difficulty:   m.opts.Difficulty,
		Score:        sessionScore,
		Hits:         hits,
		Misses:       misses,
		FalseTaps:    falseTaps,
		TotalTargets: totalTargets,
		Trials:       m.session.Trials(),
		RTSumMs:      rtSum.Milliseconds(),
		RTCount:      int64(len(rts)),
		DurationMs:   endedAt.Sub(m.startedAt).Milliseconds(),
	}

	var quarters []model.QuarterRecord
	m.lastBand = ""
	if m.opts.Mode.IsVigilance() {
		quarters = quarterRecords(m.session.Quarters())
		m.lastBand = score.Classify(quarterScoresOf(quarters))
	}

	if m.opts.Campaign != nil {
		rec.Level = m.opts.Campaign.Level
		next, res := campaign.Apply(*m.opts.Campaign, sessionScore, m.opts.Config.PassScore)
		*m.opts.Campaign = next
		m.campResult = res
	}

	m.lastRecord = rec
	m.lastQuarters = quarters
	m.phase = phaseSummary
	m.persistNote = ""

	if sessionScore > m.bestScore || !m.hasBest {
		m.bestScore = sessionScore
		m.hasBest = true
	}
	m.totalPlayed++

	return m.persistCmd(rec, quarters)
}

// persistCmd saves the session and submits it to the remote sink off the
// update loop. Failures are reported for display only; they never touch
// session or campaign state.
func (m *Model) persistCmd(rec model.SessionRecord, quarters []model.QuarterRecord) tea.Cmd {
	var campState *campaign.State
	if m.opts.Campaign != nil {
		snapshot := *m.opts.Campaign
		campState = &snapshot
	}
	summary := summaryOf(rec, quarters, m.lastBand)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		var saveErr error
		if m.store != nil {
			if _, err := m.store.InsertSession(ctx, rec, quarters); err != nil {
				saveErr = err
				logErrf("failed to save session: %v\n", err)
			}
			if campState != nil {
				if err := m.store.SaveCampaign(ctx, *campState); err != nil {
					if saveErr == nil {
						saveErr = err
					}
					logErrf("failed to save campaign: %v\n", err)
				}
			}
		}
		var submitErr error
		if m.sink.Enabled() {
			if err := m.sink.Submit(ctx, summary); err != nil {
				submitErr = err
				logErrf("failed to submit result: %v\n", err)
			}
		}
		return persistedMsg{saveErr: saveErr, submitErr: submitErr}
	}
}

func (m *Model) startNextSession() tea.Cmd {
	if m.opts.Campaign != nil {
		cfg := level.ForLevel(m.opts.Campaign.Level)
		mode, ok := game.Lookup(cfg.ModeID)
		if !ok {
			mode = game.Default()
		}
		m.opts.Mode = mode
		m.opts.Config = cfg
	}
	m.session = engine.New(m.opts.Mode, m.opts.Config, m.rng)
	m.phase = phasePlaying
	m.feedback = ""
	m.persistNote = ""
	return m.Init()
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	if m.phase == phaseSummary {
		content = m.summaryView()
	} else {
		content = m.playView()
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footer := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, m.renderFooter())
	return body + "\n" + footer
}

func (m *Model) playView() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(m.headerLine()))
	b.WriteString("\n\n")
	b.WriteString(renderField(m.placed))
	b.WriteString("\n\n")
	if m.feedback != "" {
		b.WriteString(m.feedback)
	} else {
		b.WriteString(" ")
	}
	return b.String()
}

func (m *Model) headerLine() string {
	segments := []string{m.opts.Mode.Label()}
	if m.opts.Campaign != nil {
		segments = append(segments,
			fmt.Sprintf("Level %d", m.opts.Campaign.Level),
			m.renderLives(),
			fmt.Sprintf("streak %d", m.opts.Campaign.Streak))
	} else if m.opts.Difficulty != "" {
		segments = append(segments, m.opts.Difficulty)
	}
	segments = append(segments, fmt.Sprintf("trial %d/%d", m.session.TrialIndex(), m.session.Trials()))
	return strings.Join(segments, " · ")
}

func (m *Model) renderLives() string {
	if m.opts.Campaign == nil {
		return ""
	}
	var b strings.Builder
	for i := 0; i < campaign.MaxLives; i++ {
		if i < m.opts.Campaign.Lives {
			b.WriteString(livesFull)
		} else {
			b.WriteString(livesEmpty)
		}
	}
	return b.String()
}

func (m *Model) summaryView() string {
	rec := m.lastRecord
	lines := []string{
		scoreStyle.Render(fmt.Sprintf("Score %d", rec.Score)),
		"",
		fmt.Sprintf("hits %d · misses %d · false taps %d", rec.Hits, rec.Misses, rec.FalseTaps),
	}
	if rec.RTCount > 0 {
		lines = append(lines, fmt.Sprintf("avg reaction %.0f ms", rec.AvgReactionMs()))
	}
	if len(m.lastQuarters) > 0 {
		scores := quarterScoresOf(m.lastQuarters)
		parts := make([]string, len(scores))
		for i, s := range scores {
			parts[i] = fmt.Sprintf("Q%d %d", i+1, s)
		}
		lines = append(lines, strings.Join(parts, "  "))
		lines = append(lines, bandNoteStyle.Render(m.lastBand.Label()))
	}
	if m.opts.Campaign != nil {
		lines = append(lines, "", m.campaignResultLine())
		if m.campResult.NewUnlock != "" {
			lines = append(lines, unlockStyle.Render("Unlocked: "+unlockLabel(m.campResult.NewUnlock)))
		}
	}
	if m.persistNote != "" {
		lines = append(lines, "", footerStyle.Render(m.persistNote))
	}
	return summaryCard.Render(strings.Join(lines, "\n"))
}

func (m *Model) campaignResultLine() string {
	if m.campResult.Passed {
		return hitStyle.Render(fmt.Sprintf("Level passed! Next: level %d", m.campResult.LevelAfter))
	}
	if m.campResult.RunEnded {
		return failStyle.Render("Out of lives. Back to level 1.")
	}
	return failStyle.Render(fmt.Sprintf("Level failed. %s remaining.", m.renderLives()))
}

func (m *Model) renderFooter() string {
	segments := []string{"space tap", "q quit"}
	if m.phase == phaseSummary {
		segments[0] = "space next"
	}
	if m.hasBest {
		segments = append(segments, fmt.Sprintf("best %d", m.bestScore))
	}
	if m.footerLoaded && m.totalPlayed > 0 {
		segments = append(segments, fmt.Sprintf("games %d", m.totalPlayed))
	}
	return footerStyle.Render(strings.Join(segments, "  ·  "))
}

func (m *Model) loadFooterStats() {
	if m.store == nil {
		return
	}
	ctx := context.Background()
	sessions, err := m.store.ListSessions(ctx, model.StatsConfig{Kind: m.opts.Kind, ModeID: m.opts.Mode.ID()})
	if err != nil {
		logErrf("failed to load session stats: %v\n", err)
		return
	}
	m.footerLoaded = true
	m.totalPlayed = len(sessions)
	for _, s := range sessions {
		if s.Score > m.bestScore || !m.hasBest {
			m.bestScore = s.Score
			m.hasBest = true
		}
	}
}

func quarterRecords(quarters [engine.NumQuarters]engine.QuarterCounters) []model.QuarterRecord {
	out := make([]model.QuarterRecord, engine.NumQuarters)
	for i, q := range quarters {
		var rtSum time.Duration
		for _, rt := range q.ReactionTimes {
			rtSum += rt
		}
		out[i] = model.QuarterRecord{
			Quarter:   i,
			Hits:      q.Hits,
			Misses:    q.Misses,
			FalseTaps: q.FalseTaps,
			Targets:   q.Targets,
			RTSumMs:   rtSum.Milliseconds(),
			RTCount:   int64(len(q.ReactionTimes)),
			Score: score.Quarter(score.QuarterCounters{
				Hits:      q.Hits,
				Misses:    q.Misses,
				FalseTaps: q.FalseTaps,
				Targets:   q.Targets,
			}),
		}
	}
	return out
}

func quarterScoresOf(quarters []model.QuarterRecord) []int {
	out := make([]int, len(quarters))
	for i, q := range quarters {
		out[i] = q.Score
	}
	return out
}

func summaryOf(rec model.SessionRecord, quarters []model.QuarterRecord, band score.Band) model.SessionSummary {
	summary := model.SessionSummary{
		Kind:           rec.Kind,
		ModeID:         rec.ModeID,
		Difficulty:     rec.Difficulty,
		Level:          rec.Level,
		Score:          rec.Score,
		Hits:           rec.Hits,
		Misses:         rec.Misses,
		FalseTaps:      rec.FalseTaps,
		TotalTargets:   rec.TotalTargets,
		AvgReactionMs:  rec.AvgReactionMs(),
		PlayedAt:       rec.EndedAt,
		SessionTrials:  rec.Trials,
		SessionSeconds: float64(rec.DurationMs) / 1000,
	}
	if len(quarters) > 0 {
		summary.QuarterScores = quarterScoresOf(quarters)
		for _, q := range quarters {
			rt := 0.0
			if q.RTCount > 0 {
				rt = float64(q.RTSumMs) / float64(q.RTCount)
			}
			summary.QuarterRTMs = append(summary.QuarterRTMs, rt)
		}
		summary.AttentionBand = string(band)
	}
	return summary
}

func unlockLabel(id string) string {
	if mode, ok := game.Lookup(id); ok {
		return mode.Label()
	}
	if id == campaign.UnlockMoving {
		return "Moving stimuli"
	}
	return id
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
