package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-gorillas/internal/platform/tui"
	"github.com/vovakirdan/tui-gorillas/internal/registry"
	"github.com/vovakirdan/tui-gorillas/internal/storage"
)

var (
	flagRecent      bool
	flagOnline      bool
	flagClear       bool
	flagInteractive bool
	flagLimit       int
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show standings",
	Long: `Display the players with the most round wins, for one mode or for all.
Ties are broken by the fewest throws per won round.

Examples:
  gorillas scores
  gorillas scores gorillas_cpu
  gorillas scores --recent
  gorillas scores --online
  gorillas scores -i
  gorillas scores gorillas --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagRecent, "recent", false, "Show the most recent rounds instead")
	scoresCmd.Flags().BoolVar(&flagOnline, "online", false, "Show recent online matches instead")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the recorded rounds")
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse the standings in the terminal")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of entries to show")
}

func runScores(_ *cobra.Command, args []string) error {
	gameID := ""
	title := "All modes"
	if len(args) > 0 {
		info, ok := registry.Lookup(args[0])
		if !ok {
			return fmt.Errorf("unknown mode %q; run 'gorillas list' to see available modes", args[0])
		}
		gameID, title = info.ID, info.Title
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("open scores database: %w", err)
	}
	defer store.Close()

	switch {
	case flagInteractive:
		w, h := terminalSize()
		_, err = tui.RunScoreboard(store, w, h)
		return err
	case flagClear:
		if err := store.ClearRounds(gameID); err != nil {
			return fmt.Errorf("clear rounds: %w", err)
		}
		fmt.Printf("Cleared rounds - %s\n", title)
		return nil
	case flagOnline:
		return printOnline(store)
	case flagRecent:
		return printRecent(store, gameID, title)
	}

	standings, err := store.TopPlayers(gameID, flagLimit)
	if err != nil {
		return fmt.Errorf("retrieve standings: %w", err)
	}

	fmt.Printf("Standings - %s\n", title)
	fmt.Println()

	if len(standings) == 0 {
		fmt.Println("No rounds recorded yet.")
		fmt.Println()
		fmt.Println("Play 'gorillas play' to get on the board!")
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-16s  %4s  %6s  %5s  %4s\n", "Rank", "Player", "Wins", "Losses", "Avg", "Best")
	fmt.Printf("  %-4s  %-16s  %4s  %6s  %5s  %4s\n", "----", "------", "----", "------", "---", "----")

	for i, s := range standings {
		fmt.Printf("  %-4d  %-16s  %4d  %6d  %5.1f  %4d\n", i+1, s.Name, s.Wins, s.Losses, s.AvgThrows, s.BestRound)
	}

	stats, err := store.GetGameStats(gameID)
	if err == nil {
		fmt.Println()
		fmt.Printf("%d rounds, %d winners, best round %d throws\n", stats.RoundsCount, stats.Players, stats.BestThrows)
	}
	return nil
}

func printRecent(store *storage.Store, gameID, title string) error {
	rounds, err := store.RecentRounds(gameID, flagLimit)
	if err != nil {
		return fmt.Errorf("retrieve rounds: %w", err)
	}

	fmt.Printf("Recent rounds - %s\n", title)
	fmt.Println()
	if len(rounds) == 0 {
		fmt.Println("No rounds recorded yet.")
		return nil
	}

	fmt.Printf("  %-16s  %-10s  %-16s  %-16s  %6s\n", "Date", "Mode", "Winner", "Loser", "Throws")
	for _, r := range rounds {
		winner := r.Winner
		if r.MatchOver {
			winner += " *"
		}
		fmt.Printf("  %-16s  %-10s  %-16s  %-16s  %6d\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Mode, winner, r.Loser, r.Throws)
	}
	fmt.Println()
	fmt.Println("* won the match")
	return nil
}

func printOnline(store *storage.Store) error {
	matches, err := store.RecentOnlineMatches(flagLimit)
	if err != nil {
		return fmt.Errorf("retrieve online matches: %w", err)
	}

	fmt.Println("Recent online matches")
	fmt.Println()
	if len(matches) == 0 {
		fmt.Println("No online matches recorded yet.")
		fmt.Fprintln(os.Stderr, "Online matches are played through 'gorillas serve'.")
		return nil
	}

	fmt.Printf("  %-16s  %-32s  %5s  %8s  %s\n", "Date", "Players", "Score", "Duration", "End")
	for _, m := range matches {
		players := fmt.Sprintf("%s vs %s", m.Player1Name, m.Player2Name)
		fmt.Printf("  %-16s  %-32s  %2d-%-2d  %7ds  %s\n",
			m.CreatedAt.Format("2006-01-02 15:04"), players, m.Score1, m.Score2, m.Duration, m.EndReason)
	}
	return nil
}
