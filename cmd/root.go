package cmd

import (
	"fmt"
	"os"

	"github.com/Spencer17x/vue-next-zh/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	settingsFile string
	settings     *Settings
	logger       = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "sitecfg",
	Short: "sitecfg - load, check and preview the documentation site config",
	Long: `sitecfg reads the documentation site configuration (YAML, JSON or the
VuePress config module), reports every problem in it at once, and
writes normalised copies, a sitemap or a browsable preview of the
navigation for the site generator to consume.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := LoadSettings(settingsFile, cmd.Flags())
		if err != nil {
			return err
		}
		l, err := logging.New(cmd.ErrOrStderr(), s.LogLevel, s.LogFormat)
		if err != nil {
			return err
		}
		settings, logger = s, l
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "", "settings file (default is ./"+DefaultSettingsFile+" when present)")
	rootCmd.PersistentFlags().StringP("config", "c", DefaultConfigPath, "site config file (.yaml, .json or .js)")
	rootCmd.PersistentFlags().String("docs-dir", "docs", "directory holding the markdown pages")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "console", "log format: console or json")
}

// configPath prefers the positional argument over the config setting.
func configPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return settings.Config
}
