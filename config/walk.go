package config

import "fmt"

// LinkRef is one place in the config that carries a link.
type LinkRef struct {
	Field string
	Group []string
	Label string
	Link  string
	Kind  string // "nav", "group" or "link"
}

// Links lists every non-empty link in document order: the nav bar first,
// then the sidebar depth first.
func Links(cfg *SiteConfig) []LinkRef {
	if cfg == nil {
		return nil
	}
	var refs []LinkRef
	for i, item := range cfg.Theme.Nav {
		if item.Link == "" {
			continue
		}
		refs = append(refs, LinkRef{Field: fmt.Sprintf("theme.nav[%d].link", i), Label: item.Text, Link: item.Link, Kind: "nav"})
	}
	seen := make(map[*SidebarGroup]bool)
	for i := range cfg.Theme.Sidebar {
		refs = walkGroup(refs, seen, fmt.Sprintf("theme.sidebar[%d]", i), nil, &cfg.Theme.Sidebar[i])
	}
	return refs
}

func walkGroup(refs []LinkRef, seen map[*SidebarGroup]bool, field string, trail []string, g *SidebarGroup) []LinkRef {
	if seen[g] {
		return refs
	}
	seen[g] = true

	trail = append(trail[:len(trail):len(trail)], g.Title)
	if g.Path != "" {
		refs = append(refs, LinkRef{Field: field + ".path", Group: trail, Label: g.Title, Link: g.Path, Kind: "group"})
	}
	for i, child := range g.Children {
		childField := fmt.Sprintf("%s.children[%d]", field, i)
		switch {
		case child.Link != nil:
			if child.Link.Path != "" {
				refs = append(refs, LinkRef{Field: childField, Group: trail, Label: child.Link.Label, Link: child.Link.Path, Kind: "link"})
			}
		case child.Group != nil:
			refs = walkGroup(refs, seen, childField, trail, child.Group)
		}
	}
	return refs
}
