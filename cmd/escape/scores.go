package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-escape/internal/registry"
	"github.com/vovakirdan/tui-escape/internal/storage"
)

var (
	flagScoresLimit  int
	flagScoresLatest bool
	flagScoresClear  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show high scores",
	Long: `Display the best runs of a mode (default: campaign).

With --latest the most recent run is listed first, followed by the rest
by score, as the in-game score screen shows them. --clear deletes every
run of the mode.

Examples:
  escape scores
  escape scores competitive --limit 20
  escape scores --latest
  escape scores campaign --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVarP(&flagScoresLimit, "limit", "n", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagScoresLatest, "latest", false, "List the latest run first")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the mode's runs")
}

func runScores(_ *cobra.Command, args []string) error {
	mode := "campaign"
	if len(args) > 0 {
		mode = args[0]
	}
	if !registry.Exists(mode) {
		return fmt.Errorf("unknown mode %q, run 'escape list' to see available modes", mode)
	}

	game, err := registry.Create(mode)
	if err != nil {
		return err
	}
	title := game.Title()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.Clear(mode); err != nil {
			return fmt.Errorf("clearing scores: %w", err)
		}
		logger.Info("scores cleared", "mode", mode)
		return nil
	}

	var runs []storage.Run
	if flagScoresLatest {
		runs, err = store.Scores(mode)
		if len(runs) > flagScoresLimit {
			runs = runs[:flagScoresLimit]
		}
	} else {
		runs, err = store.TopScores(mode, flagScoresLimit)
	}
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'escape play %s' to set the first high score!\n", mode)
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-5s  %-7s  %s\n", "Rank", "Score", "Level", "Result", "Date")
	fmt.Printf("  %-4s  %-8s  %-5s  %-7s  %s\n", "----", "-----", "-----", "------", "----")
	for i, r := range runs {
		result := "dead"
		if r.Won {
			result = "escaped"
		}
		fmt.Printf("  %-4d  %-8d  %-5d  %-7s  %s\n", i+1, r.Score, r.Level, result, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	stats, err := store.Stats()
	if err != nil {
		return nil
	}
	if st := stats[mode]; st != nil {
		fmt.Printf("Best: %d  Runs: %d  Escapes: %d  Best level: %d\n", st.HighScore, st.RunsCount, st.Wins, st.BestLevel)
	}
	return nil
}
