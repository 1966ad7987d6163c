package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fokus/internal/auth"
	"fokus/internal/output"
	"fokus/internal/state"
	"fokus/internal/store"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui        *output.UI
	dataStore store.Store
	appState  *state.Store

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "fokus",
	Short: "Focus timer with session logging, goals, and streaks",
	Long: `fokus is a countdown/focus timer coupled to session logging,
goal tracking, streaks, and derived analytics. Sessions are recorded
locally in SQLite; stats and the calendar heat map are computed from
the session log on demand.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return statsRun()
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/fokus/config.yaml)")
}

func initConfig() {
	// If --config is explicitly set, use that file
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot find home directory: %v\n", err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "fokus")
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("FOKUS")
	viper.AutomaticEnv()

	// Defaults via viper.SetDefault()
	home, _ := os.UserHomeDir()
	defaultConfigDir := filepath.Join(home, ".config", "fokus")

	viper.SetDefault("db_path", filepath.Join(defaultConfigDir, "fokus.db"))
	viper.SetDefault("user.email", "")
	viper.SetDefault("user.display_name", "")
	viper.SetDefault("timer.work_minutes", 25)
	viper.SetDefault("timer.break_minutes", 5)
	viper.SetDefault("goals.daily_minutes", 240)
	viper.SetDefault("goals.weekly_minutes", 1200)

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose

	// Store and app state are initialized lazily so config/version
	// commands run without a db.
}

// getStore returns the shared store, initializing it on first call.
func getStore() (store.Store, error) {
	if dataStore != nil {
		return dataStore, nil
	}

	dbPath := viper.GetString("db_path")
	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := s.Migrate(context.Background()); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	dataStore = s
	return dataStore, nil
}

// getApp returns the app state store plus the auth service wired to it,
// signing in the configured user so sessions and profile are loaded.
// Commands that work without identity still get a usable state.
func getApp() (*state.Store, *auth.Service, error) {
	s, err := getStore()
	if err != nil {
		return nil, nil, err
	}

	if appState == nil {
		appState = state.New()
		// Config-file defaults apply until a profile overrides them.
		appState.Apply(state.Patch{
			Settings: &state.SettingsPatch{
				WorkDuration:  state.Ptr(viper.GetInt("timer.work_minutes")),
				BreakDuration: state.Ptr(viper.GetInt("timer.break_minutes")),
			},
			Goals: &state.GoalsPatch{
				Daily:  state.Ptr(viper.GetInt("goals.daily_minutes")),
				Weekly: state.Ptr(viper.GetInt("goals.weekly_minutes")),
			},
			Timer: &state.TimerPatch{
				Duration:  state.Ptr(viper.GetInt("timer.work_minutes") * 60),
				Remaining: state.Ptr(viper.GetInt("timer.work_minutes") * 60),
			},
		})
	}
	svc := auth.New(s, appState, nil)

	if email := viper.GetString("user.email"); email != "" && appState.State().User == nil {
		if _, err := svc.SignIn(context.Background(), email, viper.GetString("user.display_name")); err != nil {
			return nil, nil, fmt.Errorf("sign in %s: %w", email, err)
		}
	}
	return appState, svc, nil
}
