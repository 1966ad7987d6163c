package cmd

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fokus/internal/api"
	"fokus/internal/timer"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API and WebSocket state stream",
	Long: `Start an HTTP server exposing timer intents, stats, and a WebSocket
stream of state snapshots for UI clients. By default it listens on
port 8080. Use --port to change it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveRun()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "port to listen on")
	viper.SetDefault("port", 8080)
	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
}

func serveRun() error {
	app, svc, err := getApp()
	if err != nil {
		return err
	}

	logger := slog.Default()
	machine := timer.New(app, svc, logger)
	defer machine.Close()

	server := api.NewServer(app, machine, svc, logger)
	defer server.Close()

	addr := fmt.Sprintf(":%d", viper.GetInt("port"))
	ui.Info("Serving API at http://localhost%s (ws at /ws)", addr)
	return http.ListenAndServe(addr, server.Router())
}
