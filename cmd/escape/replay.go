package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-escape/internal/games/escape"
	"github.com/vovakirdan/tui-escape/internal/registry"
	"github.com/vovakirdan/tui-escape/internal/replay"
)

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Re-simulate a recorded run",
	Long: `Load a recording made with 'escape play --record' and feed its input
back into a fresh game, headless. Prints the level, score and outcome the
run reached. The current --config is used for tuning; the recorded
difficulty preset overrides --difficulty.

Examples:
  escape replay run.escape`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func runReplay(_ *cobra.Command, args []string) error {
	rec, err := replay.Load(args[0])
	if err != nil {
		return err
	}

	game, err := registry.Create(rec.Mode)
	if err != nil {
		return err
	}
	escape.SetDifficultyPreset(rec.Difficulty)
	if eg, ok := game.(*escape.Game); ok {
		eg.SetLogger(logger)
	}

	logger.Debug("replaying", "run", rec.RunID, "mode", rec.Mode, "seed", rec.Seed, "frames", len(rec.Frames))
	start := time.Now()
	res := rec.Run(game)

	outcome := "in progress"
	switch {
	case res.State.Won:
		outcome = "escaped"
	case res.State.GameOver:
		outcome = "dead"
	}

	fmt.Printf("Run       %s\n", rec.RunID)
	fmt.Printf("Mode      %s\n", game.Title())
	fmt.Printf("Frames    %d of %d (%.1fs simulated)\n", res.Frames, len(rec.Frames), rec.Duration()/1000)
	fmt.Printf("Level     %d\n", res.State.Level)
	fmt.Printf("Score     %d\n", res.State.Score)
	fmt.Printf("Outcome   %s\n", outcome)
	if eg, ok := game.(*escape.Game); ok {
		fmt.Printf("State     %016x\n", eg.Snapshot().Hash())
	}
	logger.Debug("replay finished", "elapsed", time.Since(start))
	return nil
}
