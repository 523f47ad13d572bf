package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalSite = `{title: "T", basePath: "/b/", theme: {nav: [{text: "X", link: "/x"}], sidebar: [{title: "G", collapsible: false, depth: 1, children: [["/a", "A"]]}]}}`

func expectedHandbook() *SiteConfig {
	return &SiteConfig{
		Title:       "Handbook",
		Description: "Internal engineering handbook",
		BasePath:    "/handbook/",
		Theme: ThemeConfig{
			Nav: []NavItem{
				{Text: "Home", Link: "/"},
				{Text: "Source", Link: "https://example.com/handbook"},
			},
			Sidebar: []SidebarGroup{{
				Title: "Guide",
				Depth: 1,
				Children: []SidebarItem{
					Pair("/intro/", "Introduction"),
					Pair("/setup/", ""),
					Group(SidebarGroup{
						Title: "Operations",
						Path:  "/operations/",
						Depth: 2,
						Children: []SidebarItem{
							Pair("/operations/deploy/", "Deploying"),
							Pair("/operations/rollback/", "Rolling back"),
						},
					}),
					Pair("/faq/", "FAQ"),
				},
			}},
		},
	}
}

func TestLoad_MinimalExample(t *testing.T) {
	cfg, err := Load([]byte(minimalSite), YAML)
	require.NoError(t, err)

	assert.Empty(t, Validate(cfg))
	require.Len(t, cfg.Theme.Sidebar, 1)
	require.Len(t, cfg.Theme.Sidebar[0].Children, 1)
	assert.Equal(t, Pair("/a", "A"), cfg.Theme.Sidebar[0].Children[0])
	assert.Equal(t, "/b/", cfg.BasePath)
	assert.False(t, cfg.Theme.Sidebar[0].Collapsible)
}

func TestLoad_AllFormatsAgree(t *testing.T) {
	for _, name := range []string{"site.yaml", "site.json", "config.js", "config.ts"} {
		t.Run(name, func(t *testing.T) {
			cfg, err := LoadFile(filepath.Join("testdata", name))
			require.NoError(t, err)
			assert.Equal(t, expectedHandbook(), cfg)
			assert.Empty(t, Validate(cfg))
		})
	}
}

func TestLoad_DefaultsAndAliases(t *testing.T) {
	src := `
title: T
base: /docs/
themeConfig:
  nav:
    - {text: Home, link: /}
  sidebar:
    - title: Plain
      children: [/a/]
    - title: Legacy
      collapsable: false
      sidebarDepth: 0
    - title: Both
      collapsible: true
      collapsable: false
      depth: 3
      sidebarDepth: 2
`
	cfg, err := Load([]byte(src), YAML)
	require.NoError(t, err)

	assert.Equal(t, "/docs/", cfg.BasePath)
	require.Len(t, cfg.Theme.Nav, 1)
	require.Len(t, cfg.Theme.Sidebar, 3)

	plain := cfg.Theme.Sidebar[0]
	assert.Equal(t, DefaultCollapsible, plain.Collapsible)
	assert.Equal(t, DefaultDepth, plain.Depth)

	legacy := cfg.Theme.Sidebar[1]
	assert.False(t, legacy.Collapsible)
	assert.Equal(t, 0, legacy.Depth)
	assert.Nil(t, legacy.Children)

	both := cfg.Theme.Sidebar[2]
	assert.True(t, both.Collapsible)
	assert.Equal(t, 3, both.Depth)
}

func TestLoad_CanonicalKeysWin(t *testing.T) {
	cfg, err := Load([]byte("title: T\nbasePath: /new/\nbase: /old/\n"), YAML)
	require.NoError(t, err)
	assert.Equal(t, "/new/", cfg.BasePath)
}

func TestLoad_StructuralErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format Format
		substr string
	}{
		{name: "empty", input: "", format: YAML, substr: "empty config"},
		{name: "sequence", input: "- a\n- b\n", format: YAML, substr: "got a sequence"},
		{name: "scalar", input: "just text", format: YAML, substr: "got a string"},
		{name: "syntax", input: "title: [unclosed", format: YAML, substr: "malformed input"},
		{name: "json array", input: `[1, 2]`, format: JSON, substr: "got a sequence"},
		{name: "json syntax", input: `{"title": }`, format: JSON, substr: "malformed JSON"},
		{name: "json null", input: `null`, format: JSON, substr: "empty config"},
		{
			name:   "pair arity",
			input:  "title: T\ntheme:\n  sidebar:\n    - title: G\n      children:\n        - [/a/, A, extra]\n",
			format: YAML,
			substr: "exactly 2 elements",
		},
		{
			name:   "depth type",
			input:  "title: T\ntheme:\n  sidebar:\n    - title: G\n      depth: two\n",
			format: YAML,
			substr: "expected shape",
		},
		{
			name:   "number child",
			input:  "title: T\ntheme:\n  sidebar:\n    - title: G\n      children: [5]\n",
			format: YAML,
			substr: "got 5",
		},
		{
			name:   "boolean child",
			input:  "title: T\ntheme:\n  sidebar:\n    - title: G\n      children: [true]\n",
			format: YAML,
			substr: "got true",
		},
		{
			name:   "null child",
			input:  "title: T\ntheme:\n  sidebar:\n    - title: G\n      children: [/a/, ~]\n",
			format: YAML,
			substr: "sidebar child 1 of \"G\" is null",
		},
		{
			name:   "json number child",
			input:  `{"title": "T", "theme": {"sidebar": [{"title": "G", "children": [1.5]}]}}`,
			format: JSON,
			substr: "got 1.5",
		},
		{name: "js template expression", input: "module.exports = {title: `${x}`};", format: JS, substr: "template literals"},
		{name: "js without export", input: "const x = {title: 'T'};", format: JS, substr: "no module.exports"},
		{name: "js exporting identifier", input: "const c = {}; module.exports = c;", format: JS, substr: "not an object literal"},
		{name: "js syntax", input: "module.exports = {title: ", format: JS, substr: "cannot read config module"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load([]byte(tt.input), tt.format)
			require.Error(t, err)
			assert.Nil(t, cfg)

			var se *StructuralError
			require.True(t, errors.As(err, &se), "want *StructuralError, got %T", err)
			assert.Contains(t, err.Error(), tt.substr)
		})
	}
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join("testdata", "missing.yaml"))
	require.Error(t, err)
	var se *StructuralError
	assert.False(t, errors.As(err, &se), "a missing file is not a structural error")

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("- not\n- a mapping\n"), 0o644))
	_, err = LoadFile(bad)
	require.True(t, errors.As(err, &se))
	assert.Equal(t, bad, se.Source)
	assert.Contains(t, err.Error(), bad)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, YAML, FormatFromPath("site.yml"))
	assert.Equal(t, YAML, FormatFromPath("site"))
	assert.Equal(t, JSON, FormatFromPath("site.JSON"))
	assert.Equal(t, JS, FormatFromPath("docs/.vuepress/config.js"))
	assert.Equal(t, JS, FormatFromPath("config.mjs"))
	assert.Equal(t, JS, FormatFromPath("config.ts"))

	f, err := ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, JSON, f)
	_, err = ParseFormat("toml")
	assert.Error(t, err)
}

func TestMarshal_RoundTrip(t *testing.T) {
	for _, format := range []Format{YAML, JSON} {
		t.Run(format.String(), func(t *testing.T) {
			want := expectedHandbook()
			out, err := Marshal(want, format)
			require.NoError(t, err)

			got, err := Load(out, format)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			again, err := Marshal(got, format)
			require.NoError(t, err)
			assert.Equal(t, string(out), string(again))
		})
	}
}

func TestMarshal_RoundTripSparse(t *testing.T) {
	for _, src := range []string{
		"title: T\nbasePath: /b/\ntheme:\n  nav: [{text: X, link: /x}]\n",
		"title: T\nbasePath: /b/\n",
		"title: T\nbasePath: /b/\ntheme: {nav: [], sidebar: [{title: G}]}\n",
	} {
		want, err := Load([]byte(src), YAML)
		require.NoError(t, err)

		for _, format := range []Format{YAML, JSON} {
			out, err := Marshal(want, format)
			require.NoError(t, err)
			got, err := Load(out, format)
			require.NoError(t, err)
			assert.Equal(t, want, got, "%s via %s", src, format)
		}
	}

	cfg, err := Load([]byte("title: T\ntheme: {nav: [], sidebar: []}\n"), YAML)
	require.NoError(t, err)
	assert.Nil(t, cfg.Theme.Nav)
	assert.Nil(t, cfg.Theme.Sidebar)
}

func TestLoad_JSStrings(t *testing.T) {
	src := `module.exports = {
	title: 'It\'s "great"', // don't break on this
	description: 'say "hi"\nnow',
	base: '/b/', /* block { comment */
	themeConfig: {
		nav: [{ text: 'Home', link: '/' }], // 必要的
		sidebar: [
			{
				title: 'Composition API RFC',   // 必要的
				collapsable: false, // 可选的, 默认值是 true,
				sidebarDepth: 1,    // 可选的, 默认值是 1
				children: [['/summary/', '摘要']],
			},
		],
	},
};
`
	cfg, err := Load([]byte(src), JS)
	require.NoError(t, err)
	assert.Empty(t, Validate(cfg))

	assert.Equal(t, `It's "great"`, cfg.Title)
	assert.Equal(t, "say \"hi\"\nnow", cfg.Description)
	require.Len(t, cfg.Theme.Sidebar, 1)
	assert.False(t, cfg.Theme.Sidebar[0].Collapsible)
	assert.Equal(t, Pair("/summary/", "摘要"), cfg.Theme.Sidebar[0].Children[0])
}

func TestMarshal_KeepsLeafShapes(t *testing.T) {
	out, err := Marshal(expectedHandbook(), YAML)
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "- - /intro/\n")
	assert.Contains(t, text, "- /setup/\n")
	assert.Contains(t, text, "collapsible: false")
	assert.Contains(t, text, "basePath: /handbook/")

	_, err = Marshal(expectedHandbook(), JS)
	assert.Error(t, err)
}

func TestClone_IsIndependent(t *testing.T) {
	orig := expectedHandbook()
	cp := orig.Clone()
	require.Equal(t, orig, cp)

	cp.Theme.Nav[0].Text = "changed"
	cp.Theme.Sidebar[0].Children[0].Link.Label = "changed"
	cp.Theme.Sidebar[0].Children[2].Group.Children[0].Link.Path = "/changed/"

	assert.Equal(t, expectedHandbook(), orig)
	assert.Nil(t, (*SiteConfig)(nil).Clone())
}

func TestLinks_DocumentOrder(t *testing.T) {
	refs := Links(expectedHandbook())

	var links []string
	for _, r := range refs {
		links = append(links, r.Link)
	}
	assert.Equal(t, []string{
		"/",
		"https://example.com/handbook",
		"/intro/",
		"/setup/",
		"/operations/",
		"/operations/deploy/",
		"/operations/rollback/",
		"/faq/",
	}, links)

	assert.Equal(t, "theme.sidebar[0].children[2].children[1]", refs[6].Field)
	assert.Equal(t, []string{"Guide", "Operations"}, refs[6].Group)
	assert.Equal(t, "group", refs[4].Kind)
	assert.True(t, IsExternal(refs[1].Link))
	assert.False(t, IsExternal(refs[0].Link))
}

func TestLoadValid(t *testing.T) {
	cfg, err := LoadValid(filepath.Join("testdata", "site.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Handbook", cfg.Title)

	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte("title: T\nbasePath: /b\n"), 0o644))
	_, err = LoadValid(path)
	require.Error(t, err)

	var errs ValidationErrors
	require.True(t, errors.As(err, &errs))
	assert.Len(t, errs, 2)
}
