// escape is a terminal action-platformer: cross each level, dodge or fight
// the monsters and reach the exit before the floor falls away.
//
// Usage:
//
//	escape                   - Pick a mode from the menu
//	escape list              - List game modes
//	escape play [mode]       - Play a mode (campaign, competitive, sandbox)
//	escape scores [mode]     - Show the best runs
//	escape serve             - Start SSH server for remote play
//	escape replay <file>     - Re-simulate a recorded run
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.escape/scores.db)
//	--config <path>      - Custom tuning YAML
//	--difficulty <name>  - Difficulty preset: easy, normal, hard, fixed
package main

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-escape/internal/games/escape"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagVerbose    bool
	flagLogFile    string
)

// logger is the command-line logger. It writes to stderr, so it is only
// used before and after the terminal UI owns the screen.
var logger = newLogger(os.Stderr)

func newLogger(w io.Writer) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "escape",
	})
	if flagVerbose {
		l.SetLevel(log.DebugLevel)
	}
	return l
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "escape",
	Short: "Escape - a platformer in your terminal",
	Long: `Escape is a terminal action-platformer. Cross each level, fight or
avoid the monsters, buy gear at the kiosk and reach the exit before the
level timer runs out and the floor falls away.

Available commands:
  list     - Show all game modes
  play     - Play a mode directly
  menu     - Interactive mode picker (default)
  serve    - Start SSH server for remote play
  scores   - View high scores
  replay   - Re-simulate a recorded run

Examples:
  escape
  escape play
  escape play competitive
  escape play --record run.escape
  escape replay run.escape
  escape serve --ssh :2222
  escape scores campaign`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger = newLogger(os.Stderr)
		escape.SetConfigPath(flagConfig)
		escape.SetDifficultyPreset(flagDifficulty)
	},
	RunE: runMenu,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.escape/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom tuning YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write in-game logs to this file")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(replayCmd)
}
