package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fokus/internal/analytics"
	"fokus/internal/models"
	"fokus/internal/output"
	"fokus/internal/timeutil"
)

var statsWeekly bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show focus stats, goal progress, and focus score",
	RunE: func(cmd *cobra.Command, args []string) error {
		if statsWeekly {
			return statsWeekRun()
		}
		return statsRun()
	},
}

func init() {
	statsCmd.Flags().BoolVarP(&statsWeekly, "week", "w", false, "Show this week instead of today")
	rootCmd.AddCommand(statsCmd)
}

func statsRun() error {
	app, _, err := getApp()
	if err != nil {
		return err
	}
	st := app.State()
	now := time.Now()

	today := analytics.Today(st.Sessions, st.Goals, now)
	score := analytics.FocusScore(today, st.Streak)

	fmt.Fprintf(ui.Out, "%s", timeutil.Greeting(now))
	if st.User != nil && st.User.DisplayName != "" {
		fmt.Fprintf(ui.Out, ", %s", st.User.DisplayName)
	}
	fmt.Fprintln(ui.Out)
	fmt.Fprintln(ui.Out)

	table := ui.Table([]string{"", ""})
	table.Append([]string{"Focus today", timeutil.FormatDuration(today.TotalSeconds)})
	table.Append([]string{"Sessions", fmt.Sprintf("%d", today.SessionCount)})
	table.Append([]string{"Daily goal", fmt.Sprintf("%.0f%% of %s", today.GoalProgress, timeutil.FormatMinutes(st.Goals.Daily))})
	table.Append([]string{"Focus score", output.ScoreColor(score)})
	table.Append([]string{"Streak", fmt.Sprintf("%d days (best %d)", st.Streak.Current, st.Streak.Longest)})
	if err := table.Render(); err != nil {
		return err
	}

	if best, ok := analytics.BestDay(st.Sessions, now); ok {
		ui.Info("Best day this week: %s (%s)", best.Date.Format("Monday"), timeutil.FormatDuration(best.Seconds))
	}

	return categoryBreakdownRun(st)
}

func statsWeekRun() error {
	app, _, err := getApp()
	if err != nil {
		return err
	}
	st := app.State()
	now := time.Now()

	week := analytics.Week(st.Sessions, st.Goals, now)

	table := ui.Table([]string{"Day", "Focus", ""})
	for _, d := range analytics.DailyTotals(st.Sessions, now, 7) {
		table.Append([]string{
			timeutil.RelativeDate(d.Date, now),
			timeutil.FormatDuration(d.Seconds),
			output.IntensityGlyph(analytics.Intensity(d.Seconds)),
		})
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintln(ui.Out)
	ui.Info("Week total: %s (%.0f%% of %s goal)",
		timeutil.FormatDuration(week.TotalSeconds),
		week.GoalProgress,
		timeutil.FormatMinutes(st.Goals.Weekly))
	return nil
}

func categoryBreakdownRun(st models.AppState) error {
	shares := analytics.CategoryBreakdown(st.Sessions)
	if len(shares) == 0 {
		return nil
	}

	fmt.Fprintln(ui.Out)
	table := ui.Table([]string{"Category", "Time", "Share"})
	for _, share := range shares {
		table.Append([]string{
			share.CategoryID,
			timeutil.FormatDuration(share.Seconds),
			fmt.Sprintf("%d%%", share.Percent),
		})
	}
	return table.Render()
}
