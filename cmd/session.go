package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fokus/internal/models"
	"fokus/internal/output"
	"fokus/internal/timeutil"
)

var (
	sessionLimit int
	sessionKind  string
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"sessions"},
	Short:   "List recorded sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return sessionListRun()
	},
}

func init() {
	sessionCmd.Flags().IntVarP(&sessionLimit, "limit", "l", 20, "Maximum sessions to show")
	sessionCmd.Flags().StringVar(&sessionKind, "kind", "", "Filter by kind: focus, break")
	rootCmd.AddCommand(sessionCmd)
}

func sessionListRun() error {
	app, _, err := getApp()
	if err != nil {
		return err
	}
	st := app.State()

	var filtered []models.Session
	for _, s := range st.Sessions {
		if sessionKind != "" && string(s.Kind) != sessionKind {
			continue
		}
		filtered = append(filtered, s)
	}

	if len(filtered) == 0 {
		ui.Info("No sessions recorded yet. Start one with 'fokus timer'.")
		return nil
	}

	// Most recent first.
	start := 0
	if len(filtered) > sessionLimit {
		start = len(filtered) - sessionLimit
	}

	now := time.Now()
	table := ui.Table([]string{"Date", "Start", "Duration", "Kind", "Type", "Category", "Note"})
	for i := len(filtered) - 1; i >= start; i-- {
		s := filtered[i]
		completed := ""
		if s.Completed {
			completed = " " + output.Green("✓")
		}
		table.Append([]string{
			timeutil.RelativeDate(s.StartTime, now),
			s.StartTime.Format("15:04"),
			timeutil.FormatDuration(s.Duration) + completed,
			output.ModeColor(string(s.Kind)),
			string(s.SessionType),
			s.Category(),
			s.Note,
		})
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintln(ui.Out)
	ui.VerboseLog("%d of %d sessions shown", len(filtered)-start, len(filtered))
	return nil
}
