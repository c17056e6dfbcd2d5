// Package main provides the CLI entrypoint for blip.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/blip/internal/campaign"
	"github.com/verte-zerg/blip/internal/config"
	"github.com/verte-zerg/blip/internal/game"
	"github.com/verte-zerg/blip/internal/level"
	"github.com/verte-zerg/blip/internal/model"
	"github.com/verte-zerg/blip/internal/remote"
	"github.com/verte-zerg/blip/internal/statsui"
	"github.com/verte-zerg/blip/internal/store"
	"github.com/verte-zerg/blip/internal/tui"
)

const (
	defaultDifficulty  = level.DifficultyNormal
	defaultCurveWindow = 10
)

var (
	playMode       string
	playDifficulty string
	playMoving     bool

	focusDifficulty string

	statsMode        string
	statsKind        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "blip",
		Short:         "Terminal reaction trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().StringVar(&playMode, "mode", game.ModeTapBlue, "game mode (see: blip modes)")
	rootCmd.Flags().StringVar(&playDifficulty, "difficulty", defaultDifficulty, "difficulty (easy, normal, hard)")
	rootCmd.Flags().BoolVar(&playMoving, "moving", false, "scatter stimuli across the field (campaign unlock)")

	rootCmd.AddCommand(newCampaignCmd())
	rootCmd.AddCommand(newFocusCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newModesCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "mode", &playMode, fileCfg.Play.Mode)
	applyStringConfig(cmd, "difficulty", &playDifficulty, fileCfg.Play.Difficulty)

	mode, ok := game.Lookup(playMode)
	if !ok || mode.IsVigilance() {
		logErrf("unknown mode %q; using %s\n", playMode, game.Default().ID())
		mode = game.Default()
	}
	cfg, known := level.ForDifficulty(mode, playDifficulty)
	difficulty := playDifficulty
	if !known {
		logErrf("unknown difficulty %q; using %s\n", playDifficulty, defaultDifficulty)
		difficulty = defaultDifficulty
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	camp, err := st.LoadCampaign(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load campaign: %w", err)
	}
	if !camp.Unlocked(mode.ID()) {
		return fmt.Errorf("mode %q unlocks at campaign level %d (play: blip campaign)", mode.ID(), mode.UnlockLevel())
	}
	if playMoving {
		if !camp.Unlocked(campaign.UnlockMoving) {
			return fmt.Errorf("moving stimuli unlock at campaign level 3 (play: blip campaign)")
		}
		cfg.Moving = true
	}

	opts := tui.Options{
		Kind:       model.KindFreeplay,
		Mode:       mode,
		Config:     cfg,
		Difficulty: difficulty,
	}
	return runGame(st, fileCfg, opts)
}

func newCampaignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "campaign",
		Short: "Play the level campaign",
		Args:  cobra.NoArgs,
		RunE:  runCampaignCmd,
	}
}

func runCampaignCmd(_ *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	camp, err := st.LoadCampaign(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load campaign: %w", err)
	}

	cfg := level.ForLevel(camp.Level)
	mode, ok := game.Lookup(cfg.ModeID)
	if !ok {
		mode = game.Default()
	}

	opts := tui.Options{
		Kind:     model.KindCampaign,
		Mode:     mode,
		Config:   cfg,
		Campaign: &camp,
	}
	return runGame(st, fileCfg, opts)
}

func newFocusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Play a sustained-attention session",
		Args:  cobra.NoArgs,
		RunE:  runFocusCmd,
	}
	cmd.Flags().StringVar(&focusDifficulty, "difficulty", defaultDifficulty, "difficulty (easy, normal, hard)")
	return cmd
}

func runFocusCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "difficulty", &focusDifficulty, fileCfg.Play.Difficulty)

	mode, ok := game.Lookup(game.ModeFocusLab)
	if !ok {
		return fmt.Errorf("focus mode is not available")
	}
	cfg, known := level.ForDifficulty(mode, focusDifficulty)
	difficulty := focusDifficulty
	if !known {
		logErrf("unknown difficulty %q; using %s\n", focusDifficulty, defaultDifficulty)
		difficulty = defaultDifficulty
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	opts := tui.Options{
		Kind:       model.KindVigilance,
		Mode:       mode,
		Config:     cfg,
		Difficulty: difficulty,
	}
	return runGame(st, fileCfg, opts)
}

func runGame(st *store.Store, fileCfg config.FileConfig, opts tui.Options) error {
	sink := newSink(fileCfg)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	model := tui.NewModel(st, sink, opts, rng)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsMode, "mode", "", "mode filter")
	cmd.Flags().StringVar(&statsKind, "kind", "", "session kind filter (freeplay, campaign, vigilance)")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	return cmd
}

func runStatsCmd(_ *cobra.Command, _ []string) error {
	switch statsKind {
	case "", model.KindFreeplay, model.KindCampaign, model.KindVigilance:
	default:
		return fmt.Errorf("invalid --kind value %q (use freeplay, campaign or vigilance)", statsKind)
	}
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}

	cfg := model.StatsConfig{
		ModeID:      statsMode,
		Kind:        statsKind,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	model := statsui.NewModel(st, cfg)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newModesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List game modes and unlock status",
		Args:  cobra.NoArgs,
		RunE:  runModesCmd,
	}
}

func runModesCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	camp, err := st.LoadCampaign(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load campaign: %w", err)
	}

	for _, m := range game.Selectable() {
		status := "available"
		if !camp.Unlocked(m.ID()) {
			status = fmt.Sprintf("locked (campaign level %d)", m.UnlockLevel())
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-14s %-22s %s\n", m.ID(), m.Label(), status); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	moving := "locked (campaign level 3)"
	if camp.Unlocked(campaign.UnlockMoving) {
		moving = "available"
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-14s %-22s %s\n", "--moving", "Moving stimuli", moving); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
}

func newSink(fileCfg config.FileConfig) *remote.Sink {
	endpoint := ""
	if fileCfg.Sync.Endpoint != nil {
		endpoint = strings.TrimSpace(*fileCfg.Sync.Endpoint)
	}
	player := ""
	if fileCfg.Sync.Player != nil {
		player = strings.TrimSpace(*fileCfg.Sync.Player)
	}
	return remote.NewSink(endpoint, player)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# blip configuration
# Uncomment a value to enable it. CLI flags override config values.

[play]
# mode = %q          # Game mode (see: blip modes)
# difficulty = %q      # Difficulty (easy, normal, hard)

[sync]
# endpoint = ""              # POST completed sessions to this URL
# player = ""                # Player name attached to submissions
`,
		game.ModeTapBlue,
		defaultDifficulty,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
