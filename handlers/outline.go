package handlers

import "github.com/Spencer17x/vue-next-zh/config"

// Row is one line of the rendered sidebar outline.
type Row struct {
	Level       int
	Indent      float64
	Kind        string
	Label       string
	Link        string
	Collapsible bool
	Depth       int
}

// Flatten turns the sidebar tree into display rows, parents before their
// children.
func Flatten(cfg *config.SiteConfig) []Row {
	if cfg == nil {
		return nil
	}
	var rows []Row
	seen := make(map[*config.SidebarGroup]bool)
	for i := range cfg.Theme.Sidebar {
		rows = flattenGroup(rows, seen, &cfg.Theme.Sidebar[i], 0)
	}
	return rows
}

func flattenGroup(rows []Row, seen map[*config.SidebarGroup]bool, g *config.SidebarGroup, level int) []Row {
	if seen[g] {
		return rows
	}
	seen[g] = true

	rows = append(rows, newRow(level, "group", g.Title, g.Path, g))
	for _, child := range g.Children {
		switch {
		case child.Group != nil:
			rows = flattenGroup(rows, seen, child.Group, level+1)
		case child.Link != nil:
			label := child.Link.Label
			if label == "" {
				label = child.Link.Path
			}
			rows = append(rows, newRow(level+1, "link", label, child.Link.Path, nil))
		}
	}
	return rows
}

func newRow(level int, kind, label, link string, g *config.SidebarGroup) Row {
	r := Row{Level: level, Indent: float64(level) * 1.5, Kind: kind, Label: label, Link: link}
	if g != nil {
		r.Collapsible = g.Collapsible
		r.Depth = g.Depth
	}
	return r
}
