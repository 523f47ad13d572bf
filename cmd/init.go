package cmd

import (
	"os"
	"path/filepath"

	"github.com/Spencer17x/vue-next-zh/config"
	"github.com/Spencer17x/vue-next-zh/site"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [config]",
	Short: "Write the project's site config to a file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath(args)
		force, _ := cmd.Flags().GetBool("force")

		format := config.FormatFromPath(path)
		if format == config.JS {
			return errors.Errorf("%s: init writes YAML or JSON only", path)
		}
		if _, err := os.Stat(path); err == nil && !force {
			return errors.Errorf("%s already exists, use --force to overwrite", path)
		}

		out, err := config.Marshal(site.Config(), format)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
			return errors.WithStack(err)
		}
		if err := os.WriteFile(path, out, 0644); err != nil {
			return errors.WithStack(err)
		}

		logger.Info().Str("config", path).Str("format", format.String()).Msg("Config written")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "overwrite an existing file")
}
