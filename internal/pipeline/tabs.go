package pipeline

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// flattenedAttr marks every panel of a flattened group. Containers may be
// shared by sibling groups, so they are never marked.
const flattenedAttr = "data-tabs-flattened"

// TabGroup is one detected tab widget in normalized form. Labels[i] names
// Panels[i]. Controls are the elements removed after flattening. Container
// encloses the widget and may enclose other groups too.
type TabGroup struct {
	Container *html.Node
	Controls  []*html.Node
	Labels    []string
	Panels    []*html.Node
	Bootstrap bool // panels need the "active show" classes
}

// TabMatcher detects one tab markup signature.
type TabMatcher struct {
	Name  string
	Match func(doc *goquery.Selection) []TabGroup
}

// DefaultTabMatchers returns the built-in signatures in evaluation order.
// New site generators are supported by adding a matcher here.
func DefaultTabMatchers() []TabMatcher {
	return []TabMatcher{
		{Name: "pymdownx", Match: matchPymdownx},
		{Name: "pymdownx-legacy", Match: matchPymdownxLegacy},
		{Name: "aria", Match: matchARIA},
		{Name: "aria-positional", Match: matchARIAPositional},
		{Name: "bootstrap", Match: matchBootstrap},
	}
}

// FlattenTabs makes every panel of every recognized tab group visible and
// puts a label before each panel. Markup no matcher recognizes is left
// untouched. It returns the number of groups flattened.
func FlattenTabs(doc *html.Node, matchers ...TabMatcher) int {
	if len(matchers) == 0 {
		matchers = DefaultTabMatchers()
	}
	root := goquery.NewDocumentFromNode(doc).Selection

	flattened := 0
	for _, m := range matchers {
		for _, g := range m.Match(root) {
			if !g.valid() {
				continue
			}
			if g.flattened() {
				continue
			}
			g.flatten()
			flattened++
		}
	}
	return flattened
}

func (g TabGroup) valid() bool {
	return g.Container != nil && len(g.Panels) > 0 && len(g.Labels) == len(g.Panels)
}

// flattened reports whether a panel of g was already flattened, by an
// earlier matcher or an earlier run.
func (g TabGroup) flattened() bool {
	for _, panel := range g.Panels {
		if _, ok := getAttr(panel, flattenedAttr); ok {
			return true
		}
	}
	return false
}

func (g TabGroup) flatten() {
	for i, panel := range g.Panels {
		unhide(panel)
		setAttr(panel, flattenedAttr, "")
		if g.Bootstrap {
			addClass(panel, "active", "show")
		}
		label := newTextElement("p", g.Labels[i], html.Attribute{Key: "class", Val: "tab-label"})
		if panel.Parent != nil {
			panel.Parent.InsertBefore(label, panel)
		}
	}
	for _, c := range g.Controls {
		detach(c)
	}
}

// unhide strips the hidden attribute, aria-hidden and hiding declarations
// from an inline style.
func unhide(n *html.Node) {
	removeAttr(n, "hidden")
	removeAttr(n, "aria-hidden")

	style, ok := getAttr(n, "style")
	if !ok {
		return
	}
	var kept []string
	for _, decl := range strings.Split(style, ";") {
		compact := strings.ToLower(strings.Join(strings.Fields(decl), ""))
		if compact == "" || strings.HasPrefix(compact, "display:none") || strings.HasPrefix(compact, "visibility:hidden") {
			continue
		}
		kept = append(kept, strings.TrimSpace(decl))
	}
	if len(kept) == 0 {
		removeAttr(n, "style")
		return
	}
	setAttr(n, "style", strings.Join(kept, "; "))
}

func labelText(s *goquery.Selection, i int) string {
	if t := strings.Join(strings.Fields(s.Text()), " "); t != "" {
		return t
	}
	return fmt.Sprintf("Tab %d", i+1)
}

// matchPymdownx: MkDocs Material tabs with a labels strip and a content box.
//
//	<div class="tabbed-set"><input><input>
//	  <div class="tabbed-labels"><label>A</label><label>B</label></div>
//	  <div class="tabbed-content"><div class="tabbed-block">…</div>…</div></div>
func matchPymdownx(doc *goquery.Selection) []TabGroup {
	var groups []TabGroup
	doc.Find("div.tabbed-set, div.tabbed-alternate").Each(func(_ int, set *goquery.Selection) {
		labelsBox := set.ChildrenFiltered("div.tabbed-labels").First()
		content := set.ChildrenFiltered("div.tabbed-content").First()
		if labelsBox.Length() == 0 || content.Length() == 0 {
			return
		}
		g := TabGroup{Container: set.Nodes[0]}
		labelsBox.ChildrenFiltered("label").Each(func(i int, l *goquery.Selection) {
			g.Labels = append(g.Labels, labelText(l, i))
		})
		g.Panels = content.ChildrenFiltered("div.tabbed-block").Nodes
		g.Controls = append(g.Controls, set.ChildrenFiltered("input").Nodes...)
		g.Controls = append(g.Controls, labelsBox.Nodes[0])
		groups = append(groups, g)
	})
	return groups
}

// matchPymdownxLegacy: older pymdownx output alternating input, label and
// content children.
func matchPymdownxLegacy(doc *goquery.Selection) []TabGroup {
	var groups []TabGroup
	doc.Find("div.tabbed-set").Each(func(_ int, set *goquery.Selection) {
		if set.ChildrenFiltered("div.tabbed-labels").Length() > 0 {
			return
		}
		labels := set.ChildrenFiltered("label")
		g := TabGroup{Container: set.Nodes[0]}
		labels.Each(func(i int, l *goquery.Selection) {
			g.Labels = append(g.Labels, labelText(l, i))
		})
		g.Panels = set.ChildrenFiltered("div.tabbed-content").Nodes
		g.Controls = append(g.Controls, set.ChildrenFiltered("input").Nodes...)
		g.Controls = append(g.Controls, labels.Nodes...)
		groups = append(groups, g)
	})
	return groups
}

// panelsByID indexes the elements matched by selector by their id.
func panelsByID(doc *goquery.Selection, selector string) map[string]*html.Node {
	byID := make(map[string]*html.Node)
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if id, ok := s.Attr("id"); ok && id != "" {
			byID[id] = s.Nodes[0]
		}
	})
	return byID
}

// matchARIA: role=tablist whose tabs name their panel with aria-controls.
func matchARIA(doc *goquery.Selection) []TabGroup {
	panels := panelsByID(doc, `[role="tabpanel"]`)
	var groups []TabGroup
	doc.Find(`[role="tablist"]`).Each(func(_ int, list *goquery.Selection) {
		tabs := list.Find(`[role="tab"]`)
		if tabs.Length() == 0 || list.Parent().Length() == 0 {
			return
		}
		g := TabGroup{Container: list.Parent().Nodes[0], Controls: list.Nodes}
		complete := true
		tabs.EachWithBreak(func(i int, tab *goquery.Selection) bool {
			panel, ok := panels[tab.AttrOr("aria-controls", "")]
			if !ok {
				complete = false
				return false
			}
			g.Labels = append(g.Labels, labelText(tab, i))
			g.Panels = append(g.Panels, panel)
			g.Bootstrap = g.Bootstrap || hasClass(panel, "tab-pane")
			return true
		})
		if complete {
			groups = append(groups, g)
		}
	})
	return groups
}

// matchARIAPositional: Docusaurus-style tablists without aria-controls,
// paired by position with the tabpanels of the next sibling element.
func matchARIAPositional(doc *goquery.Selection) []TabGroup {
	var groups []TabGroup
	doc.Find(`[role="tablist"]`).Each(func(_ int, list *goquery.Selection) {
		tabs := list.Find(`[role="tab"]`)
		if tabs.Length() == 0 || tabs.Filter("[aria-controls]").Length() > 0 {
			return
		}
		panels := list.Next().ChildrenFiltered(`[role="tabpanel"]`)
		if panels.Length() != tabs.Length() || list.Parent().Length() == 0 {
			return
		}
		g := TabGroup{Container: list.Parent().Nodes[0], Controls: list.Nodes, Panels: panels.Nodes}
		tabs.Each(func(i int, tab *goquery.Selection) {
			g.Labels = append(g.Labels, labelText(tab, i))
		})
		groups = append(groups, g)
	})
	return groups
}

// matchBootstrap: .nav-tabs or .nav-pills toggles targeting .tab-pane ids.
func matchBootstrap(doc *goquery.Selection) []TabGroup {
	panes := panelsByID(doc, ".tab-pane")
	var groups []TabGroup
	doc.Find(".nav-tabs, .nav-pills").Each(func(_ int, nav *goquery.Selection) {
		toggles := nav.Find(`[data-toggle="tab"], [data-bs-toggle="tab"], [data-toggle="pill"], [data-bs-toggle="pill"]`)
		if toggles.Length() == 0 || nav.Parent().Length() == 0 {
			return
		}
		g := TabGroup{Container: nav.Parent().Nodes[0], Controls: nav.Nodes, Bootstrap: true}
		complete := true
		toggles.EachWithBreak(func(i int, t *goquery.Selection) bool {
			target := t.AttrOr("data-bs-target", t.AttrOr("href", ""))
			pane, ok := panes[strings.TrimPrefix(target, "#")]
			if !strings.HasPrefix(target, "#") || !ok {
				complete = false
				return false
			}
			g.Labels = append(g.Labels, labelText(t, i))
			g.Panels = append(g.Panels, pane)
			return true
		})
		if complete {
			groups = append(groups, g)
		}
	})
	return groups
}

// ExpandDetails opens every closed <details> element and returns how many
// it opened.
func ExpandDetails(doc *html.Node) int {
	opened := 0
	walk(doc, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "details" {
			if _, ok := getAttr(n, "open"); !ok {
				setAttr(n, "open", "")
				opened++
			}
		}
		return true
	})
	return opened
}
