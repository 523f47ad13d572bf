package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/Spencer17x/vue-next-zh/config"
	"github.com/Spencer17x/vue-next-zh/pages"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [config]",
	Short: "Report every problem in the site config",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath(args)
		checkPages, _ := cmd.Flags().GetBool("pages")
		asJSON, _ := cmd.Flags().GetBool("json")

		cfg, err := config.LoadFile(path)
		if err != nil {
			return err
		}

		errs := config.Validate(cfg)
		if checkPages {
			errs = append(errs, pages.ValidatePages(cfg, settings.DocsDir)...)
		}

		out := cmd.OutOrStdout()
		if asJSON {
			if errs == nil {
				errs = config.ValidationErrors{}
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(errs); err != nil {
				return errors.WithStack(err)
			}
		} else {
			for _, e := range errs {
				fmt.Fprintf(out, "%s [%s]\n", e.Error(), e.Code)
			}
		}

		if len(errs) > 0 {
			logger.Error().Str("config", path).Int("problems", len(errs)).Msg("Config is not valid")
			return errors.Errorf("%s: %d validation error(s)", path, len(errs))
		}
		logger.Info().Str("config", path).Msg("Config is valid")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("pages", false, "also check that every internal link has a markdown page under --docs-dir")
	validateCmd.Flags().Bool("json", false, "print problems as JSON")
}
