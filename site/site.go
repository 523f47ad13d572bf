// Package site holds the configuration of the Vue Composition API
// translation site as a Go value.
package site

import "github.com/Spencer17x/vue-next-zh/config"

// Config returns a fresh copy of the site configuration. It mirrors
// docs/.vuepress/config.yaml.
func Config() *config.SiteConfig {
	return &config.SiteConfig{
		Title:       "Vue Composition API",
		Description: "Just playing around",
		BasePath:    "/vue_next_zh/",
		Theme: config.ThemeConfig{
			Nav: []config.NavItem{
				{Text: "RFC", Link: "/"},
				{Text: "API Reference", Link: "https://composition-api.vuejs.org/api.html"},
			},
			Sidebar: []config.SidebarGroup{{
				Title: "Composition API RFC",
				Depth: 1,
				Children: []config.SidebarItem{
					config.Pair("/summary/", "摘要"),
					config.Pair("/basic-example/", "基本例子"),
					section("动机", "/motivation/",
						config.Pair("/logic-reuse-code-organization/", "逻辑重用和代码组织"),
						config.Pair("/better-type-inference/", "更好的类型推断"),
					),
					section("详细设计", "/detailed-design/",
						config.Pair("/api-introduction/", "API介绍"),
						config.Pair("/code-organization/", "代码组织"),
						config.Pair("/logic-extraction-and-reuse/", "逻辑提取和重用"),
						config.Pair("/usage-alongside-existing-api/", "现有API的用法"),
						config.Pair("/plugin-development/", "插件开发"),
					),
					section("缺点", "/drawbacks/",
						config.Pair("/overhead-of-introducing-refs/", "介绍引用的开销"),
						config.Pair("/ref-vs-reactive/", "Ref vs. Reactive"),
						config.Pair("/verbosity-of-the-return-statement/", "退货声明的详细程度"),
						config.Pair("/more-flexibility-requires-more-discipline/", "更大的灵活性需要更多的纪律"),
					),
					config.Pair("/adoption-strategy/", "采纳策略"),
					section("附录", "/appendix/",
						config.Pair("/type-issues-with-class-api/", "类API的类型问题"),
						config.Pair("/comparison-with-react-hooks/", "与React Hooks的比较"),
						config.Pair("/comparison-with-svelte/", "与Svelte的比较"),
					),
				},
			}},
		},
	}
}

// section is an always expanded sub-group showing two heading levels.
func section(title, path string, children ...config.SidebarItem) config.SidebarItem {
	return config.Group(config.SidebarGroup{
		Title:    title,
		Path:     path,
		Depth:    2,
		Children: children,
	})
}
