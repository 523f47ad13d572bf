package config

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

// Validate reports every semantic problem in cfg, in document order. It
// never fails itself; an empty result means cfg is fit for a build.
func Validate(cfg *SiteConfig) ValidationErrors {
	v := &validator{seen: make(map[*SidebarGroup]bool)}
	if cfg == nil {
		v.add("", nil, CodeRequired, "config is missing", "")
		return v.errs
	}

	if strings.TrimSpace(cfg.Title) == "" {
		v.add("title", nil, CodeRequired, "title is required", "")
	}
	switch {
	case cfg.BasePath == "":
		v.add("basePath", nil, CodeRequired, "basePath is required", "")
	case !strings.HasPrefix(cfg.BasePath, "/") || !strings.HasSuffix(cfg.BasePath, "/"):
		v.add("basePath", nil, CodeBasePath, "basePath must start and end with /", cfg.BasePath)
	default:
		v.link("basePath", nil, cfg.BasePath)
	}

	if len(cfg.Theme.Nav) == 0 {
		v.add("theme.nav", nil, CodeRequired, "at least one nav entry is required", "")
	}
	for i, item := range cfg.Theme.Nav {
		field := fmt.Sprintf("theme.nav[%d]", i)
		if strings.TrimSpace(item.Text) == "" {
			v.add(field+".text", nil, CodeRequired, "nav text is required", "")
		}
		v.link(field+".link", nil, item.Link)
	}

	top := newPathSet()
	for i := range cfg.Theme.Sidebar {
		g := &cfg.Theme.Sidebar[i]
		field := fmt.Sprintf("theme.sidebar[%d]", i)
		top.check(v, field+".path", nil, g.Path, i)
		v.group(field, nil, g)
	}
	return v.errs
}

type validator struct {
	errs ValidationErrors
	seen map[*SidebarGroup]bool
}

func (v *validator) add(field string, trail []string, code, msg, value string) {
	v.errs = append(v.errs, ValidationError{
		Field:   field,
		Group:   strings.Join(trail, " > "),
		Code:    code,
		Message: msg,
		Value:   value,
	})
}

func (v *validator) group(field string, trail []string, g *SidebarGroup) {
	if v.seen[g] {
		v.add(field, trail, CodeSharedNode, fmt.Sprintf("group %q appears more than once in the sidebar tree", g.Title), g.Title)
		return
	}
	v.seen[g] = true

	trail = append(trail[:len(trail):len(trail)], g.Title)
	if strings.TrimSpace(g.Title) == "" {
		v.add(field+".title", trail[:len(trail)-1], CodeRequired, "group title is required", "")
	}
	if g.Path != "" {
		v.link(field+".path", trail, g.Path)
	}
	if g.Depth < 0 {
		v.add(field+".depth", trail, CodeNegativeDepth, fmt.Sprintf("depth must be >= 0, got %d", g.Depth), fmt.Sprint(g.Depth))
	}

	paths := newPathSet()
	for i, child := range g.Children {
		childField := fmt.Sprintf("%s.children[%d]", field, i)
		switch {
		case child.Kind == LinkItem && child.Link != nil:
			v.link(childField, trail, child.Link.Path)
			paths.check(v, childField, trail, child.Link.Path, i)
		case child.Kind == GroupItem && child.Group != nil:
			paths.check(v, childField+".path", trail, child.Group.Path, i)
			v.group(childField, trail, child.Group)
		default:
			v.add(childField, trail, CodeEmptyItem, "sidebar entry holds neither a link nor a group", "")
		}
	}
}

// link checks that s is a root-relative path or an absolute URL.
func (v *validator) link(field string, trail []string, s string) {
	if s == "" {
		v.add(field, trail, CodeEmptyLink, "link is empty", "")
		return
	}
	if reason := linkProblem(s); reason != "" {
		v.add(field, trail, CodeInvalidLink, fmt.Sprintf("%q %s", s, reason), s)
	}
}

func linkProblem(s string) string {
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return "contains whitespace"
	}
	u, err := url.Parse(s)
	if err != nil {
		return "is not a valid URL: " + err.Error()
	}
	if u.Scheme != "" {
		if u.Host == "" && u.Opaque == "" {
			return "is an absolute URL without a host"
		}
		return ""
	}
	if !strings.HasPrefix(s, "/") {
		return "must be root-relative (start with /) or an absolute URL"
	}
	if strings.HasPrefix(s, "//") {
		return "is protocol-relative; use an absolute URL"
	}
	return ""
}

// IsExternal reports whether link points outside the site.
func IsExternal(link string) bool {
	u, err := url.Parse(link)
	return err == nil && u.Scheme != ""
}

type pathSet map[string]int

func newPathSet() pathSet { return make(pathSet) }

func (p pathSet) check(v *validator, field string, trail []string, path string, idx int) {
	if path == "" {
		return
	}
	if first, ok := p[path]; ok {
		v.add(field, trail, CodeDuplicatePath, fmt.Sprintf("duplicate path %s (first used by entry %d)", path, first), path)
		return
	}
	p[path] = idx
}
