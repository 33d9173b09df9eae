// Package cli implements the docchat command line on top of the driving ports.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Options carries the global flags into the bootstrap function.
type Options struct {
	// ConfigPath points at a config.toml outside the home directory.
	ConfigPath string

	// SettingsOnly asks for the settings service alone, so a broken
	// provider configuration can still be repaired.
	SettingsOnly bool
}

// Services holds the driving ports the commands call.
type Services struct {
	Chat     driving.ChatService
	Search   driving.SearchService
	Ingest   driving.IngestService
	Compare  driving.CompareService
	Settings driving.SettingsService

	// AppSettings is the configuration the services were built from.
	AppSettings *domain.AppSettings

	// Supports reports whether a file type can be ingested.
	Supports func(path string) bool
}

// BootstrapFunc builds the services once flags are parsed. The returned
// cleanup func is called after the command finishes.
type BootstrapFunc func(ctx context.Context, opts Options) (*Services, func(), error)

var (
	chatService     driving.ChatService
	searchService   driving.SearchService
	ingestService   driving.IngestService
	compareService  driving.CompareService
	settingsService driving.SettingsService
	appSettings     *domain.AppSettings
	supportsFile    func(path string) bool

	bootstrap BootstrapFunc
	cleanup   func()

	verboseFlag bool
	configFlag  string
)

// Command annotations controlling what setup wires.
const (
	skipBootstrap = "skip-bootstrap"
	settingsOnly  = "settings-only"
)

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with your documents",
	Long: `docchat indexes a folder of documents and answers questions about them
using retrieval-augmented generation. Conversations keep a bounded window of
recent turns so follow-up questions work.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to config.toml")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap registers the function that wires services before a command runs.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetServices installs already-built services.
func SetServices(s *Services) {
	if s == nil {
		return
	}
	chatService = s.Chat
	searchService = s.Search
	ingestService = s.Ingest
	compareService = s.Compare
	settingsService = s.Settings
	appSettings = s.AppSettings
	supportsFile = s.Supports
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verboseFlag)

	if _, ok := cmd.Annotations[skipBootstrap]; ok || bootstrap == nil {
		return nil
	}

	opts := Options{ConfigPath: configFlag}
	_, opts.SettingsOnly = cmd.Annotations[settingsOnly]

	svcs, done, err := bootstrap(commandContext(cmd), opts)
	if err != nil {
		return err
	}
	SetServices(svcs)
	cleanup = done
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// settingsOrDefaults returns the loaded settings, falling back to defaults.
func settingsOrDefaults() domain.AppSettings {
	if appSettings != nil {
		return *appSettings
	}
	return domain.DefaultAppSettings()
}

func notConfigured(name string) error {
	return errors.New(name + " service not configured")
}
