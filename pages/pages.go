// Package pages maps sidebar and nav links onto the markdown sources under
// a docs directory, following VuePress file conventions.
package pages

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Spencer17x/vue-next-zh/config"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

// Candidates lists the source files a root-relative link may be built
// from, most specific first. Query and fragment are ignored.
func Candidates(link string) []string {
	u, err := url.Parse(link)
	if err != nil || u.Scheme != "" {
		return nil
	}
	p := u.Path
	if p == "" {
		p = "/"
	}
	dir := strings.HasSuffix(p, "/")
	p = path.Clean("/" + p)

	switch {
	case dir || p == "/":
		return []string{path.Join(p, "README.md"), path.Join(p, "index.md")}
	case strings.HasSuffix(p, ".html"):
		return []string{strings.TrimSuffix(p, ".html") + ".md"}
	case strings.HasSuffix(p, ".md"):
		return []string{p}
	}
	return []string{p + ".md", path.Join(p, "README.md"), path.Join(p, "index.md")}
}

// Resolve returns the first existing source file for link under docsDir.
func Resolve(docsDir, link string) (string, bool) {
	for _, c := range Candidates(link) {
		file := filepath.Join(docsDir, filepath.FromSlash(strings.TrimPrefix(c, "/")))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			return file, true
		}
	}
	return "", false
}

type frontmatter struct {
	Title string `yaml:"title"`
}

// Title reads the page title: frontmatter title first, then the first
// level one heading. An untitled page yields "".
func Title(file string) (string, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return "", errors.WithStack(err)
	}

	fm, body, err := splitFrontmatter(content)
	if err != nil {
		return "", errors.Wrapf(err, "parsing frontmatter of %s", file)
	}
	if fm.Title != "" {
		return fm.Title, nil
	}
	return firstHeading(body), nil
}

func splitFrontmatter(content []byte) (frontmatter, []byte, error) {
	var fm frontmatter
	content = bytes.TrimPrefix(content, []byte("\ufeff"))
	normalized := bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return fm, content, nil
	}

	rest := normalized[len("---\n"):]
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return fm, content, nil
	}
	if err := yaml.Unmarshal(rest[:end], &fm); err != nil {
		return fm, nil, err
	}
	body := rest[end+len("\n---"):]
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = nil
	}
	return fm, body, nil
}

func firstHeading(md []byte) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := markdown.Parse(md, p)

	var title strings.Builder
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		h, ok := node.(*ast.Heading)
		if !ok || !entering || h.Level != 1 {
			return ast.GoToNext
		}
		ast.WalkFunc(h, func(n ast.Node, entering bool) ast.WalkStatus {
			if !entering {
				return ast.GoToNext
			}
			switch leaf := n.(type) {
			case *ast.Text:
				title.Write(leaf.Literal)
			case *ast.Code:
				title.Write(leaf.Literal)
			}
			return ast.GoToNext
		})
		return ast.Terminate
	})
	return strings.TrimSpace(title.String())
}

// ValidatePages reports every internal link whose source page is missing.
func ValidatePages(cfg *config.SiteConfig, docsDir string) config.ValidationErrors {
	var errs config.ValidationErrors
	for _, ref := range config.Links(cfg) {
		if config.IsExternal(ref.Link) {
			continue
		}
		if _, ok := Resolve(docsDir, ref.Link); ok {
			continue
		}
		errs = append(errs, config.ValidationError{
			Field:   ref.Field,
			Group:   strings.Join(ref.Group, " > "),
			Code:    config.CodeMissingPage,
			Message: fmt.Sprintf("no page for %s under %s (tried %s)", ref.Link, docsDir, strings.Join(Candidates(ref.Link), ", ")),
			Value:   ref.Link,
		})
	}
	return errs
}

// FillLabels returns a copy of cfg where link pairs without a label take
// the title of the page they point to. cfg itself is left untouched.
func FillLabels(cfg *config.SiteConfig, docsDir string, logger zerolog.Logger) (*config.SiteConfig, error) {
	out := cfg.Clone()
	if out == nil {
		return nil, nil
	}
	seen := make(map[*config.SidebarGroup]bool)
	for i := range out.Theme.Sidebar {
		if err := fillGroup(&out.Theme.Sidebar[i], docsDir, logger, seen); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func fillGroup(g *config.SidebarGroup, docsDir string, logger zerolog.Logger, seen map[*config.SidebarGroup]bool) error {
	if seen[g] {
		return nil
	}
	seen[g] = true

	for _, child := range g.Children {
		switch {
		case child.Group != nil:
			if err := fillGroup(child.Group, docsDir, logger, seen); err != nil {
				return err
			}
		case child.Link != nil && child.Link.Label == "" && !config.IsExternal(child.Link.Path):
			file, ok := Resolve(docsDir, child.Link.Path)
			if !ok {
				logger.Debug().Str("link", child.Link.Path).Msg("No page found, leaving label empty")
				continue
			}
			title, err := Title(file)
			if err != nil {
				return err
			}
			child.Link.Label = title
			logger.Debug().Str("link", child.Link.Path).Str("file", file).Str("label", title).Msg("Filled label from page title")
		}
	}
	return nil
}
