package cmd

import (
	"fmt"
	"time"

	"github.com/Spencer17x/vue-next-zh/config"
	"github.com/Spencer17x/vue-next-zh/utils"
	"github.com/spf13/cobra"
)

var sitemapCmd = &cobra.Command{
	Use:   "sitemap [config]",
	Short: "Generate sitemap.xml for every page the config links to",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		write, _ := cmd.Flags().GetBool("write")

		cfg, err := config.LoadFile(configPath(args))
		if err != nil {
			return err
		}

		if write {
			if err := utils.GenerateSitemaps(settings.Out, settings.Origin, cfg, time.Now()); err != nil {
				return err
			}
			logger.Info().Str("out", settings.Out).Msg("Sitemap written")
			return nil
		}

		content, err := utils.GenerateSitemapContent(settings.Origin, cfg, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), content)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sitemapCmd)
	sitemapCmd.Flags().String("origin", "", "absolute site origin, e.g. https://example.com")
	sitemapCmd.Flags().String("out", "public", "output directory used with --write")
	sitemapCmd.Flags().Bool("write", false, "write sitemap.xml into --out instead of printing it")
}
