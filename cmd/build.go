package cmd

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"

	"github.com/Spencer17x/vue-next-zh/config"
	"github.com/Spencer17x/vue-next-zh/handlers"
	"github.com/Spencer17x/vue-next-zh/pages"
	"github.com/Spencer17x/vue-next-zh/watch"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build [config]",
	Short: "Check the config and write its normalised artifacts",
	Long: `build refuses to continue while the config has any problem. Once it is
clean it writes index.html (outline), config.yaml, config.json,
validate.json and, when --origin is set, sitemap.xml into --out.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath(args)
		checkPages, _ := cmd.Flags().GetBool("pages")

		cfg, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		errs := config.Validate(cfg)
		if checkPages {
			errs = append(errs, pages.ValidatePages(cfg, settings.DocsDir)...)
		}
		if len(errs) > 0 {
			for _, e := range errs {
				logger.Error().Str("field", e.Field).Str("group", e.Group).Str("code", e.Code).Msg(e.Message)
			}
			return errors.Errorf("%s: build blocked by %d validation error(s)", path, len(errs))
		}

		router, err := handlers.SetupRouter(watch.NewSnapshot(cfg), handlers.Options{
			Origin: settings.Origin,
			Logger: logger,
		})
		if err != nil {
			return err
		}

		if err := os.MkdirAll(settings.Out, os.ModePerm); err != nil {
			return errors.WithStack(err)
		}

		server := httptest.NewServer(router)
		defer server.Close()

		for _, route := range handlers.Routes {
			if route == "/sitemap.xml" && settings.Origin == "" {
				logger.Warn().Msg("No --origin set, skipping sitemap.xml")
				continue
			}
			if err := generateStaticPage(server, route, settings.Out); err != nil {
				return errors.Wrapf(err, "generating %s", route)
			}
		}

		logger.Info().Str("out", settings.Out).Msg("Build artifacts written")
		return nil
	},
}

func outputName(route string) string {
	switch route {
	case "/":
		return "index.html"
	case "/validate":
		return "validate.json"
	}
	return strings.TrimPrefix(route, "/")
}

func generateStaticPage(server *httptest.Server, route, outDir string) error {
	resp, err := http.Get(server.URL + route)
	if err != nil {
		return errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WithStack(err)
	}

	filePath := filepath.Join(outDir, outputName(route))
	if err := os.WriteFile(filePath, body, 0644); err != nil {
		return errors.WithStack(err)
	}

	logger.Debug().Str("file", filePath).Msg("Generated")
	return nil
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringP("out", "o", "public", "output directory")
	buildCmd.Flags().String("origin", "", "absolute site origin for sitemap.xml")
	buildCmd.Flags().Bool("pages", false, "also require a markdown page under --docs-dir for every internal link")
}
