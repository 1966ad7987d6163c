package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"fokus/internal/analytics"
	"fokus/internal/auth"
	"fokus/internal/state"
	"fokus/internal/timeutil"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Show or set daily/weekly focus goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return goalShowRun()
	},
}

var goalSetCmd = &cobra.Command{
	Use:   "set <daily|weekly> <minutes>",
	Short: "Set a goal in minutes",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return goalSetRun(args[0], args[1])
	},
}

func init() {
	goalCmd.AddCommand(goalSetCmd)
	rootCmd.AddCommand(goalCmd)
}

func goalShowRun() error {
	app, _, err := getApp()
	if err != nil {
		return err
	}
	st := app.State()
	now := time.Now()

	today := analytics.Today(st.Sessions, st.Goals, now)
	week := analytics.Week(st.Sessions, st.Goals, now)

	table := ui.Table([]string{"Goal", "Target", "Progress"})
	table.Append([]string{"Daily", timeutil.FormatMinutes(st.Goals.Daily),
		fmt.Sprintf("%s (%.0f%%)", timeutil.FormatDuration(today.TotalSeconds), today.GoalProgress)})
	table.Append([]string{"Weekly", timeutil.FormatMinutes(st.Goals.Weekly),
		fmt.Sprintf("%s (%.0f%%)", timeutil.FormatDuration(week.TotalSeconds), week.GoalProgress)})
	if err := table.Render(); err != nil {
		return err
	}

	if today.GoalProgress >= 100 {
		ui.Success("Daily goal achieved")
	} else {
		remaining := st.Goals.Daily - today.TotalMinutes
		ui.Info("%s remaining today", timeutil.FormatMinutes(remaining))
	}
	return nil
}

func goalSetRun(kind, value string) error {
	minutes, err := strconv.Atoi(value)
	if err != nil || minutes <= 0 {
		return fmt.Errorf("minutes must be a positive integer, got %q", value)
	}

	app, svc, err := getApp()
	if err != nil {
		return err
	}

	patch := &state.GoalsPatch{}
	switch kind {
	case "daily":
		patch.Daily = &minutes
	case "weekly":
		patch.Weekly = &minutes
	default:
		return fmt.Errorf("unknown goal kind: %s (use: daily, weekly)", kind)
	}
	app.Apply(state.Patch{Goals: patch})

	if err := svc.SaveProfile(context.Background()); err != nil {
		if errors.Is(err, auth.ErrNoUser) {
			ui.Warning("Goal set for this run only; sign in to persist it")
			return nil
		}
		return err
	}

	ui.Success("%s goal set to %s", kind, timeutil.FormatMinutes(minutes))
	return nil
}
