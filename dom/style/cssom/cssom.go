package cssom

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/cuishuai123/presenton/dom/style"
	"github.com/cuishuai123/presenton/dom/style/css"
	"github.com/cuishuai123/presenton/dom/styledtree"
	"github.com/cuishuai123/presenton/tree"
	"golang.org/x/net/html"
)

// CSSOM is the "CSS Object Model", similar to the DOM for HTML.
// Our CSSOM consists of a set of stylesheets, in the order they were
// added. Rule order matters for the cascade: later rules win among
// declarations of equal importance and specificity.
type CSSOM struct {
	rules  []compiledRule
	inline InlineParser
	serial int
}

type compiledRule struct {
	rule      Rule
	selectors cascadia.SelectorGroup
	order     int
}

// NewCSSOM creates an empty CSSOM. inline parses style attributes of
// elements; if it is nil, style attributes are ignored.
func NewCSSOM(inline InlineParser) *CSSOM {
	return &CSSOM{inline: inline}
}

// AddStylesFor adds a stylesheet to the CSSOM. Rules with selectors
// cascadia cannot handle (e.g. :hover) are skipped.
func (cssom *CSSOM) AddStylesFor(sheet StyleSheet) {
	if sheet == nil || sheet.Empty() {
		return
	}
	for _, r := range sheet.Rules() {
		cssom.serial++
		sels, err := cascadia.ParseGroup(r.Selector())
		if err != nil {
			tracer().Debugf("cssom: skipping rule %q: %v", r.Selector(), err)
			continue
		}
		cssom.rules = append(cssom.rules, compiledRule{rule: r, selectors: sels, order: cssom.serial})
	}
}

// RuleCount returns the number of usable rules.
func (cssom *CSSOM) RuleCount() int {
	return len(cssom.rules)
}

// ErrNoDocument is returned if Style is called without an HTML tree.
var ErrNoDocument = errors.New("cannot style empty document")

// Style creates a styled tree for an HTML parse tree. Only the document
// node and element nodes get styled nodes; text remains reachable through
// the HTML nodes. Every styled node carries its specified and its computed
// styles.
func (cssom *CSSOM) Style(dom *html.Node) (*tree.Node[*styledtree.StyNode], error) {
	if dom == nil {
		return nil, ErrNoDocument
	}
	root := styledtree.NewNodeForHTMLNode(dom)
	rootStyles := style.InitializeDefaultPropertyValues(nil)
	styledtree.Node(root).SetStyles(rootStyles)
	styledtree.Node(root).SetComputedStyles(rootStyles)
	var err error
	var build func(h *html.Node, parent *tree.Node[*styledtree.StyNode])
	build = func(h *html.Node, parent *tree.Node[*styledtree.StyNode]) {
		for ch := h.FirstChild; ch != nil; ch = ch.NextSibling {
			if ch.Type != html.ElementNode {
				continue
			}
			sn := styledtree.NewNodeForHTMLNode(ch)
			parent.AddChild(sn)
			styledtree.Node(sn).SetStyles(cssom.specifiedStyles(ch))
			if e := computeStyles(styledtree.Node(sn)); e != nil && err == nil {
				err = e
			}
			build(ch, sn)
		}
	}
	build(dom, root)
	return root, err
}

// --- Cascade ----------------------------------------------------------

type declaration struct {
	key       string
	value     style.Property
	important bool
	origin    int // 0 = user agent, 1 = author, 2 = inline
	spec      cascadia.Specificity
	order     int
}

func (d declaration) less(other declaration) bool {
	if d.important != other.important {
		return !d.important
	}
	if d.origin != other.origin {
		return d.origin < other.origin
	}
	if d.spec != other.spec {
		return d.spec.Less(other.spec)
	}
	return d.order < other.order
}

func (cssom *CSSOM) specifiedStyles(h *html.Node) *style.PropertyMap {
	var decls []declaration
	for i, kv := range style.UserAgentStyles(h) {
		decls = append(decls, declaration{key: kv.Key, value: kv.Value, order: i})
	}
	for _, cr := range cssom.rules {
		spec, ok := matchSpecificity(cr.selectors, h)
		if !ok {
			continue
		}
		for _, key := range cr.rule.Properties() {
			decls = append(decls, declaration{
				key:       key,
				value:     cr.rule.Value(key),
				important: cr.rule.IsImportant(key),
				origin:    1,
				spec:      spec,
				order:     cr.order,
			})
		}
	}
	if attr := attribute(h, "style"); attr != "" && cssom.inline != nil {
		if r, err := cssom.inline(attr); err != nil {
			tracer().Debugf("cssom: cannot parse inline style %q: %v", attr, err)
		} else {
			for _, key := range r.Properties() {
				decls = append(decls, declaration{
					key: key, value: r.Value(key), important: r.IsImportant(key), origin: 2,
				})
			}
		}
	}
	sort.SliceStable(decls, func(i, j int) bool { return decls[i].less(decls[j]) })
	pmap := style.NewPropertyMap()
	for _, d := range decls {
		key := strings.ToLower(strings.TrimSpace(d.key))
		if style.IsCompound(key) {
			kvs, err := style.SplitCompoundProperty(key, d.value)
			if err != nil {
				tracer().Debugf("cssom: %v", err)
				continue
			}
			for _, kv := range kvs {
				pmap.Add(kv.Key, kv.Value)
			}
			continue
		}
		pmap.Add(key, d.value)
	}
	return pmap
}

// matchSpecificity returns the highest specificity of all selectors of a
// group matching h.
func matchSpecificity(group cascadia.SelectorGroup, h *html.Node) (cascadia.Specificity, bool) {
	var best cascadia.Specificity
	matched := false
	for _, sel := range group {
		if sel.PseudoElement() != "" || !sel.Match(h) {
			continue
		}
		if s := sel.Specificity(); !matched || best.Less(s) {
			best = s
		}
		matched = true
	}
	return best, matched
}

func attribute(h *html.Node, key string) string {
	for _, a := range h.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// --- Computed values --------------------------------------------------

var fontSizeKeywords = map[string]float64{
	"xx-small": 9, "x-small": 10, "small": 13, "medium": 16,
	"large": 18, "x-large": 24, "xx-large": 32,
}

// lengthKeys hold lengths which are resolved to pixels if they are font
// relative. Percentages depend on layout and are left untouched.
var lengthKeys = []string{
	"margin-top", "margin-right", "margin-bottom", "margin-left",
	"padding-top", "padding-right", "padding-bottom", "padding-left",
	"top", "right", "bottom", "left", "width", "height",
	"border-top-left-radius", "border-top-right-radius",
	"border-bottom-right-radius", "border-bottom-left-radius",
}

// computeStyles derives the computed styles of a node from its specified
// styles and the computed styles of its parent, which must already exist.
func computeStyles(sn *styledtree.StyNode) error {
	computed := style.NewPropertyMap()
	for _, key := range style.ComputedKeys {
		p, err := css.GetProperty(sn, key)
		if err != nil {
			return fmt.Errorf("computing %s: %w", key, err)
		}
		computed.Add(key, p)
	}
	parentFont := 16.0
	if parent := sn.ParentNode(); parent != nil {
		if px, ok := parent.Computed("font-size").Px(); ok {
			parentFont = px
		}
	}
	fontSize := resolveFontSize(computed.GetPropertyValue("font-size"), parentFont)
	computed.Add("font-size", style.FormatPx(fontSize))
	ctx := css.Context{FontSize: css.Px(fontSize), RootFontSize: css.Px(16)}
	for _, key := range lengthKeys {
		p := computed.GetPropertyValue(key)
		if d, err := css.DimenOption(p); err == nil && d.IsRelative() {
			if _, isPercent := percentage(d); isPercent {
				continue
			}
			if du, ok := d.Resolve(ctx); ok {
				computed.Add(key, style.FormatPx(round2(css.ToPx(du))))
			}
		}
	}
	if lh := computed.GetPropertyValue("line-height"); lh.Keyword() != "normal" {
		pctx := ctx
		pctx.Reference = ctx.FontSize
		if d, err := css.DimenOption(lh); err == nil {
			if du, ok := d.Resolve(pctx); ok {
				computed.Add("line-height", style.FormatPx(round2(css.ToPx(du))))
			}
		}
	}
	color := computed.GetPropertyValue("color")
	for _, side := range style.FourDirs {
		wkey, ckey := "border-"+side+"-width", "border-"+side+"-color"
		switch computed.GetPropertyValue("border-" + side + "-style").Keyword() {
		case "none", "hidden":
			computed.Add(wkey, "0px")
		default:
			if d, err := css.DimenOption(computed.GetPropertyValue(wkey)); err == nil {
				if du, ok := d.Resolve(ctx); ok {
					computed.Add(wkey, style.FormatPx(round2(css.ToPx(du))))
				}
			}
		}
		if computed.GetPropertyValue(ckey).Keyword() == "currentcolor" {
			computed.Add(ckey, color)
		}
	}
	sn.SetComputedStyles(computed)
	return nil
}

func resolveFontSize(p style.Property, parent float64) float64 {
	if px, ok := fontSizeKeywords[p.Keyword()]; ok {
		return px
	}
	switch p.Keyword() {
	case "smaller":
		return parent / 1.2
	case "larger":
		return parent * 1.2
	}
	d, err := css.DimenOption(p)
	if err != nil {
		return parent
	}
	if du, ok := d.Resolve(css.Context{
		FontSize: css.Px(parent), RootFontSize: css.Px(16), Reference: css.Px(parent),
	}); ok {
		return round2(css.ToPx(du))
	}
	return parent
}

func percentage(d css.DimenT) (float64, bool) {
	var p float64
	switch m := d.Match(); m {
	case m.Percentage(&p):
		return p, true
	}
	return 0, false
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
