package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"fokus/internal/analytics"
	"fokus/internal/models"
	"fokus/internal/output"
	"fokus/internal/timeutil"
)

var calendarMonthFlag string

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show a monthly focus heat map",
	RunE: func(cmd *cobra.Command, args []string) error {
		return calendarRun()
	},
}

func init() {
	calendarCmd.Flags().StringVar(&calendarMonthFlag, "month", "", "Month to show (YYYY-MM, default current)")
	rootCmd.AddCommand(calendarCmd)
}

func calendarRun() error {
	app, _, err := getApp()
	if err != nil {
		return err
	}
	st := app.State()

	first := timeutil.StartOfDay(time.Now())
	first = time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, first.Location())
	if calendarMonthFlag != "" {
		parsed, err := time.ParseInLocation("2006-01", calendarMonthFlag, time.Local)
		if err != nil {
			return fmt.Errorf("invalid month %q (use YYYY-MM)", calendarMonthFlag)
		}
		first = parsed
	}

	totals := make(map[string]int)
	for _, sess := range st.Sessions {
		if sess.Kind != models.KindFocus {
			continue
		}
		if sess.StartTime.Year() == first.Year() && sess.StartTime.Month() == first.Month() {
			totals[timeutil.DayKey(sess.StartTime)] += sess.Duration
		}
	}

	fmt.Fprintf(ui.Out, "%s\n\n", first.Format("January 2006"))
	fmt.Fprintln(ui.Out, "Mo Tu We Th Fr Sa Su")

	// Leading blanks up to the first day's weekday, Monday first.
	offset := int(first.Weekday()) - 1
	if offset < 0 {
		offset = 6
	}
	var row []string
	for i := 0; i < offset; i++ {
		row = append(row, "  ")
	}

	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		level := analytics.Intensity(totals[timeutil.DayKey(d)])
		row = append(row, fmt.Sprintf("%s ", output.IntensityGlyph(level)))
		if len(row) == 7 {
			fmt.Fprintln(ui.Out, strings.Join(row, " "))
			row = nil
		}
	}
	if len(row) > 0 {
		fmt.Fprintln(ui.Out, strings.Join(row, " "))
	}

	fmt.Fprintln(ui.Out)
	ui.VerboseLog("intensity: 0h none, <2h light, <4h medium, <6h strong, >=6h full")
	return nil
}
