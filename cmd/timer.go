package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"fokus/internal/models"
	"fokus/internal/timer"
	"fokus/internal/timeutil"
)

var (
	timerMinutes  int
	timerBreak    bool
	timerType     string
	timerCategory string
	timerNote     string
)

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Run a focus or break countdown in the foreground",
	Long: `Run a countdown timer in the foreground. On completion (or Ctrl-C)
the run is finished: sessions of at least one minute are recorded,
shorter runs are discarded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return timerRun()
	},
}

func init() {
	timerCmd.Flags().IntVarP(&timerMinutes, "minutes", "m", 0, "Timer length in minutes (default from settings)")
	timerCmd.Flags().BoolVar(&timerBreak, "break", false, "Run a break instead of a focus session")
	timerCmd.Flags().StringVarP(&timerType, "type", "t", "deep-work", "Session type: deep-work, shallow-work, meeting")
	timerCmd.Flags().StringVarP(&timerCategory, "category", "c", "", "Category for the session")
	timerCmd.Flags().StringVar(&timerNote, "note", "", "Note attached to the session")
	rootCmd.AddCommand(timerCmd)
}

func timerRun() error {
	app, svc, err := getApp()
	if err != nil {
		return err
	}

	m := timer.New(app, svc, nil)
	defer m.Close()

	if app.State().User == nil {
		ui.Warning("Not signed in; this session will not be saved. Use 'fokus user signin <email>'.")
	}

	mode := models.ModeFocus
	if timerBreak {
		mode = models.ModeBreak
	}
	m.SetMode(mode)

	switch models.SessionType(timerType) {
	case models.SessionTypeDeepWork, models.SessionTypeShallowWork, models.SessionTypeMeeting:
		m.SetSessionType(models.SessionType(timerType))
	default:
		return fmt.Errorf("unknown session type: %s (use: deep-work, shallow-work, meeting)", timerType)
	}
	if timerCategory != "" {
		m.SetCategory(timerCategory)
	}
	if timerNote != "" {
		m.SetNote(timerNote)
	}

	if timerMinutes > 0 {
		// Adjust from the mode default to the requested length.
		current := app.State().Timer.Duration
		m.Adjust(timerMinutes*60 - current)
	}

	// done fires when the machine transitions back to idle.
	done := make(chan struct{}, 1)
	unsubscribe := app.Subscribe(func(st models.AppState) {
		t := st.Timer
		if t.IsRunning {
			fmt.Fprintf(ui.Out, "\r  %s  %s ", timeutil.FormatClock(t.Remaining), t.Mode)
		}
		if !t.IsRunning && !t.IsPaused && t.StartTime == nil {
			select {
			case done <- struct{}{}:
			default:
			}
		}
	})
	defer unsubscribe()

	st := app.State().Timer
	ui.Info("Starting %s timer: %s", st.Mode, timeutil.FormatClock(st.Remaining))
	ui.VerboseLog("type=%s category=%s", st.SessionType, st.CategoryID)
	m.Start()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	select {
	case <-interrupt:
		fmt.Fprintln(ui.Out)
		m.Finish()
	case <-done:
		fmt.Fprintln(ui.Out)
	}

	return timerReport(app.State())
}

// timerReport summarizes the run that just ended.
func timerReport(st models.AppState) error {
	if n := len(st.Sessions); n > 0 {
		last := st.Sessions[n-1]
		if timeutil.SameDay(last.EndTime, time.Now()) {
			label := "Session"
			if last.Completed {
				label = "Completed session"
			}
			ui.Success("%s recorded: %s (%s)", label, timeutil.FormatDuration(last.Duration), last.Category())
			if st.User == nil {
				ui.Warning("Session not saved; sign in with 'fokus user signin <email>' to persist sessions")
			}
			return nil
		}
	}
	ui.Info("No session recorded (runs under a minute are discarded)")
	return nil
}
