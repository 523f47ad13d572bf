package cmd

import (
	"github.com/Spencer17x/vue-next-zh/config"
	"github.com/Spencer17x/vue-next-zh/pages"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [config]",
	Short: "Print the config normalised to canonical keys",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatName, _ := cmd.Flags().GetString("format")
		fill, _ := cmd.Flags().GetBool("fill-labels")

		format, err := config.ParseFormat(formatName)
		if err != nil {
			return err
		}

		cfg, err := config.LoadFile(configPath(args))
		if err != nil {
			return err
		}
		if fill {
			if cfg, err = pages.FillLabels(cfg, settings.DocsDir, logger); err != nil {
				return err
			}
		}

		out, err := config.Marshal(cfg, format)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return errors.WithStack(err)
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().StringP("format", "f", "yaml", "output format: yaml or json")
	dumpCmd.Flags().Bool("fill-labels", false, "take missing link labels from page titles under --docs-dir")
}
