package config

// config/yaml.go

import (
	"fmt"

	"github.com/pkg/errors"
)

type SiteConfig struct {
	Title       string      `yaml:"title" json:"title"`
	Description string      `yaml:"description,omitempty" json:"description,omitempty"`
	BasePath    string      `yaml:"basePath" json:"basePath"`
	Theme       ThemeConfig `yaml:"theme" json:"theme"`
}

type ThemeConfig struct {
	Nav     []NavItem      `yaml:"nav" json:"nav"`
	Sidebar []SidebarGroup `yaml:"sidebar" json:"sidebar"`
}

type NavItem struct {
	Text string `yaml:"text" json:"text"`
	Link string `yaml:"link" json:"link"`
}

// SidebarGroup is a titled cluster of sidebar entries. Children keep the
// order they were declared in.
type SidebarGroup struct {
	Title       string        `yaml:"title" json:"title"`
	Path        string        `yaml:"path,omitempty" json:"path,omitempty"`
	Collapsible bool          `yaml:"collapsible" json:"collapsible"`
	Depth       int           `yaml:"depth" json:"depth"`
	Children    []SidebarItem `yaml:"children,omitempty" json:"children,omitempty"`
}

// LinkPair is a leaf entry. An empty Label means the generator takes the
// label from the page itself.
type LinkPair struct {
	Path  string
	Label string
}

type ItemKind int

const (
	LinkItem ItemKind = iota + 1
	GroupItem
)

func (k ItemKind) String() string {
	switch k {
	case LinkItem:
		return "link"
	case GroupItem:
		return "group"
	}
	return fmt.Sprintf("ItemKind(%d)", int(k))
}

// SidebarItem holds exactly one of Link or Group, selected by Kind.
type SidebarItem struct {
	Kind  ItemKind
	Link  *LinkPair
	Group *SidebarGroup
}

const (
	DefaultCollapsible = true
	DefaultDepth       = 1
)

func Pair(path, label string) SidebarItem {
	return SidebarItem{Kind: LinkItem, Link: &LinkPair{Path: path, Label: label}}
}

func Group(g SidebarGroup) SidebarItem {
	return SidebarItem{Kind: GroupItem, Group: &g}
}

// Path returns the link of a leaf or the landing path of a group.
func (i SidebarItem) Path() string {
	switch i.Kind {
	case LinkItem:
		if i.Link != nil {
			return i.Link.Path
		}
	case GroupItem:
		if i.Group != nil {
			return i.Group.Path
		}
	}
	return ""
}

// UnmarshalYAML leaves absent and empty lists nil, so a value survives a
// Marshal and Load round trip unchanged.
func (t *ThemeConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw struct {
		Nav     []NavItem      `yaml:"nav"`
		Sidebar []SidebarGroup `yaml:"sidebar"`
	}
	if err := unmarshal(&raw); err != nil {
		return err
	}
	*t = ThemeConfig{}
	if len(raw.Nav) > 0 {
		t.Nav = raw.Nav
	}
	if len(raw.Sidebar) > 0 {
		t.Sidebar = raw.Sidebar
	}
	return nil
}

type rawSite struct {
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	BasePath    *string      `yaml:"basePath"`
	Base        *string      `yaml:"base"`
	Theme       *ThemeConfig `yaml:"theme"`
	ThemeConfig *ThemeConfig `yaml:"themeConfig"`
}

func (c *SiteConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw rawSite
	if err := unmarshal(&raw); err != nil {
		return err
	}

	c.Title = raw.Title
	c.Description = raw.Description
	switch {
	case raw.BasePath != nil:
		c.BasePath = *raw.BasePath
	case raw.Base != nil:
		c.BasePath = *raw.Base
	}
	switch {
	case raw.Theme != nil:
		c.Theme = *raw.Theme
	case raw.ThemeConfig != nil:
		c.Theme = *raw.ThemeConfig
	}
	return nil
}

type rawGroup struct {
	Title        string        `yaml:"title"`
	Path         string        `yaml:"path"`
	Collapsible  *bool         `yaml:"collapsible"`
	Collapsable  *bool         `yaml:"collapsable"`
	Depth        *int          `yaml:"depth"`
	SidebarDepth *int          `yaml:"sidebarDepth"`
	Children     []SidebarItem `yaml:"children"`
}

func (g *SidebarGroup) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw rawGroup
	if err := unmarshal(&raw); err != nil {
		return err
	}

	g.Title = raw.Title
	g.Path = raw.Path
	for n, child := range raw.Children {
		// yaml.v2 skips UnmarshalYAML for null nodes.
		if child.Kind == 0 {
			return errors.Errorf("sidebar child %d of %q is null", n, raw.Title)
		}
	}
	if len(raw.Children) > 0 {
		g.Children = raw.Children
	}

	g.Collapsible = DefaultCollapsible
	switch {
	case raw.Collapsible != nil:
		g.Collapsible = *raw.Collapsible
	case raw.Collapsable != nil:
		g.Collapsible = *raw.Collapsable
	}

	g.Depth = DefaultDepth
	switch {
	case raw.Depth != nil:
		g.Depth = *raw.Depth
	case raw.SidebarDepth != nil:
		g.Depth = *raw.SidebarDepth
	}
	return nil
}

func (i *SidebarItem) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var scalar interface{}
	if err := unmarshal(&scalar); err != nil {
		return err
	}
	switch v := scalar.(type) {
	case string:
		*i = Pair(v, "")
		return nil
	case []interface{}, map[interface{}]interface{}:
	default:
		return errors.Errorf("sidebar child must be a path, a [path, label] pair or a group, got %v", v)
	}

	var pair []string
	if err := unmarshal(&pair); err == nil {
		if len(pair) != 2 {
			return errors.Errorf("link pair must have exactly 2 elements, got %d: %q", len(pair), pair)
		}
		*i = Pair(pair[0], pair[1])
		return nil
	}

	var group SidebarGroup
	if err := unmarshal(&group); err != nil {
		return errors.Wrap(err, "sidebar child is neither a path, a [path, label] pair nor a group")
	}
	*i = SidebarItem{Kind: GroupItem, Group: &group}
	return nil
}

func (i SidebarItem) MarshalYAML() (interface{}, error) {
	return i.shape()
}

func (i SidebarItem) shape() (interface{}, error) {
	switch {
	case i.Kind == LinkItem && i.Link != nil:
		if i.Link.Label == "" {
			return i.Link.Path, nil
		}
		return []string{i.Link.Path, i.Link.Label}, nil
	case i.Kind == GroupItem && i.Group != nil:
		return i.Group, nil
	}
	return nil, errors.Errorf("sidebar item of kind %s has no value", i.Kind)
}

// Clone returns a deep copy that shares no memory with c. The sidebar must
// be a tree; Validate reports values where it is not.
func (c *SiteConfig) Clone() *SiteConfig {
	if c == nil {
		return nil
	}
	out := *c
	if c.Theme.Nav != nil {
		out.Theme.Nav = append([]NavItem(nil), c.Theme.Nav...)
	}
	if c.Theme.Sidebar != nil {
		out.Theme.Sidebar = make([]SidebarGroup, len(c.Theme.Sidebar))
		for i := range c.Theme.Sidebar {
			out.Theme.Sidebar[i] = c.Theme.Sidebar[i].clone()
		}
	}
	return &out
}

func (g SidebarGroup) clone() SidebarGroup {
	out := g
	if g.Children == nil {
		return out
	}
	out.Children = make([]SidebarItem, len(g.Children))
	for i, child := range g.Children {
		switch {
		case child.Link != nil:
			l := *child.Link
			out.Children[i] = SidebarItem{Kind: child.Kind, Link: &l}
		case child.Group != nil:
			sub := child.Group.clone()
			out.Children[i] = SidebarItem{Kind: child.Kind, Group: &sub}
		default:
			out.Children[i] = child
		}
	}
	return out
}
