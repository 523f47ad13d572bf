package handlers

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/Spencer17x/vue-next-zh/config"
	"github.com/Spencer17x/vue-next-zh/pages"
	"github.com/Spencer17x/vue-next-zh/utils"
	"github.com/Spencer17x/vue-next-zh/watch"
	"github.com/gobuffalo/plush"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

//go:embed templates
var templates embed.FS

// Options tunes the preview server. Origin defaults to the request host;
// an empty DocsDir skips the missing page check.
type Options struct {
	Origin  string
	DocsDir string
	Logger  zerolog.Logger
}

// Routes lists the static preview routes, in the order build writes them.
var Routes = []string{"/", "/config.yaml", "/config.json", "/validate", "/sitemap.xml"}

// SetupRouter serves an inspection view of whatever config snap holds.
// Each request reads a single snapshot, so a reload mid-request is not
// observed.
func SetupRouter(snap *watch.Snapshot, opts Options) (*mux.Router, error) {
	layout, err := parseTemplate("templates/layouts/base.plush.html")
	if err != nil {
		return nil, err
	}
	outline, err := parseTemplate("templates/outline.plush.html")
	if err != nil {
		return nil, err
	}
	notFound, err := parseTemplate("templates/404.plush.html")
	if err != nil {
		return nil, err
	}

	s := &server{snap: snap, opts: opts, layout: layout, outline: outline, notFound: notFound}

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(s.Custom404Handler)
	router.Use(s.logRequests)

	router.HandleFunc("/", s.OutlineHandler).Methods("GET")
	router.HandleFunc("/config.{format:yaml|json}", s.ConfigHandler).Methods("GET")
	router.HandleFunc("/validate", s.ValidateHandler).Methods("GET")
	router.HandleFunc("/sitemap.xml", s.SitemapHandler).Methods("GET")

	return router, nil
}

type server struct {
	snap     *watch.Snapshot
	opts     Options
	layout   *plush.Template
	outline  *plush.Template
	notFound *plush.Template
}

func parseTemplate(name string) (*plush.Template, error) {
	content, err := templates.ReadFile(name)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	t, err := plush.Parse(string(content))
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", name)
	}
	return t, nil
}

func (s *server) problems(cfg *config.SiteConfig) config.ValidationErrors {
	errs := config.Validate(cfg)
	if s.opts.DocsDir != "" && cfg != nil {
		errs = append(errs, pages.ValidatePages(cfg, s.opts.DocsDir)...)
	}
	return errs
}

func (s *server) OutlineHandler(w http.ResponseWriter, r *http.Request) {
	cfg := s.snap.Current()
	if cfg == nil {
		http.Error(w, "No config loaded", http.StatusServiceUnavailable)
		return
	}
	problems := s.problems(cfg)

	ctx := plush.NewContext()
	ctx.Set("title", cfg.Title)
	ctx.Set("description", cfg.Description)
	ctx.Set("basePath", cfg.BasePath)
	ctx.Set("version", int(s.snap.Version()))
	ctx.Set("nav", cfg.Theme.Nav)
	ctx.Set("rows", Flatten(cfg))
	ctx.Set("problems", []config.ValidationError(problems))
	ctx.Set("problemCount", len(problems))

	content, err := s.outline.Exec(ctx)
	if err != nil {
		http.Error(w, fmt.Sprintf("Error rendering outline: %v", err), http.StatusInternalServerError)
		return
	}
	s.render(w, http.StatusOK, cfg.Title, content, ctx)
}

func (s *server) render(w http.ResponseWriter, status int, title, content string, ctx *plush.Context) {
	ctx.Set("pageTitle", title)
	ctx.Set("yield", template.HTML(content))
	page, err := s.layout.Exec(ctx)
	if err != nil {
		http.Error(w, fmt.Sprintf("Error executing base layout: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(page))
}

func (s *server) ConfigHandler(w http.ResponseWriter, r *http.Request) {
	cfg := s.snap.Current()
	if cfg == nil {
		http.Error(w, "No config loaded", http.StatusServiceUnavailable)
		return
	}

	format, err := config.ParseFormat(mux.Vars(r)["format"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	out, err := config.Marshal(cfg, format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if format == config.JSON {
		w.Header().Set("Content-Type", "application/json")
	} else {
		w.Header().Set("Content-Type", "application/yaml")
	}
	_, _ = w.Write(out)
}

type validateResponse struct {
	Valid   bool                    `json:"valid"`
	Version uint64                  `json:"version"`
	Errors  config.ValidationErrors `json:"errors"`
}

func (s *server) ValidateHandler(w http.ResponseWriter, r *http.Request) {
	errs := s.problems(s.snap.Current())
	if errs == nil {
		errs = config.ValidationErrors{}
	}

	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(validateResponse{Valid: len(errs) == 0, Version: s.snap.Version(), Errors: errs}); err != nil {
		s.opts.Logger.Error().Err(err).Msg("Error writing validation response")
	}
}

func (s *server) SitemapHandler(w http.ResponseWriter, r *http.Request) {
	cfg := s.snap.Current()
	if cfg == nil {
		http.Error(w, "No config loaded", http.StatusServiceUnavailable)
		return
	}

	origin := s.opts.Origin
	if origin == "" {
		origin = "http://" + r.Host
	}
	sitemap, err := utils.GenerateSitemapContent(origin, cfg, time.Time{})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	_, _ = w.Write([]byte(sitemap))
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.opts.Logger.Debug().Str("method", r.Method).Str("path", r.URL.Path).Dur("took", time.Since(start)).Msg("Served preview request")
	})
}
