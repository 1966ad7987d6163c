package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"fokus/internal/export"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sessions, goals, streak, and settings",
	Long:  "Write a portable snapshot of your data as JSON or YAML.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportRun()
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore state from a previously exported snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return importRun(args[0])
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Output format: json, yaml")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "Write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

func exportRun() error {
	app, _, err := getApp()
	if err != nil {
		return err
	}

	var w io.Writer = ui.Out
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	snap := export.FromState(app.State(), time.Now())
	switch exportFormat {
	case "json":
		err = snap.WriteJSON(w)
	case "yaml":
		err = snap.WriteYAML(w)
	default:
		return fmt.Errorf("unknown format: %s (use: json, yaml)", exportFormat)
	}
	if err != nil {
		return err
	}

	if exportOut != "" {
		ui.Success("Exported %d sessions to %s", len(snap.Sessions), exportOut)
	}
	return nil
}

func importRun(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open snapshot: %w", err)
	}
	defer func() { _ = f.Close() }()

	snap, err := export.ReadJSON(f)
	if err != nil {
		return err
	}

	app, svc, err := getApp()
	if err != nil {
		return err
	}
	app.Apply(snap.Patch())

	if err := svc.SaveProfile(context.Background()); err != nil {
		ui.Warning("Imported locally; profile not persisted: %v", err)
	}
	ui.Success("Restored %d sessions, goals, streak, and settings", len(snap.Sessions))
	return nil
}
