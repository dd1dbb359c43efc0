package style

import (
	"golang.org/x/net/html"
)

// ComputedKeys lists the properties a computed-style snapshot carries for
// each element. Browser snapshots and the static layout engine agree on
// this set.
var ComputedKeys = []string{
	"display", "visibility", "position", "opacity", "z-index", "filter",
	"background-color", "background-image",
	"border-top-width", "border-right-width", "border-bottom-width", "border-left-width",
	"border-top-color", "border-right-color", "border-bottom-color", "border-left-color",
	"border-top-style", "border-right-style", "border-bottom-style", "border-left-style",
	"border-top-left-radius", "border-top-right-radius",
	"border-bottom-right-radius", "border-bottom-left-radius",
	"box-shadow", "color",
	"font-family", "font-size", "font-weight", "font-style", "line-height",
	"margin-top", "margin-right", "margin-bottom", "margin-left",
	"padding-top", "padding-right", "padding-bottom", "padding-left",
	"top", "right", "bottom", "left", "width", "height",
	"text-align", "white-space", "object-fit", "box-sizing", "flex-direction",
}

var initialValues = map[string]string{
	"display":                    "inline",
	"visibility":                 "visible",
	"position":                   "static",
	"opacity":                    "1",
	"z-index":                    "auto",
	"filter":                     "none",
	"background-color":           "rgba(0, 0, 0, 0)",
	"background-image":           "none",
	"border-top-width":           "medium",
	"border-right-width":         "medium",
	"border-bottom-width":        "medium",
	"border-left-width":          "medium",
	"border-top-color":           "currentcolor",
	"border-right-color":         "currentcolor",
	"border-bottom-color":        "currentcolor",
	"border-left-color":          "currentcolor",
	"border-top-style":           "none",
	"border-right-style":         "none",
	"border-bottom-style":        "none",
	"border-left-style":          "none",
	"border-top-left-radius":     "0px",
	"border-top-right-radius":    "0px",
	"border-bottom-right-radius": "0px",
	"border-bottom-left-radius":  "0px",
	"box-shadow":                 "none",
	"color":                      "rgb(0, 0, 0)",
	"font-family":                "Times New Roman",
	"font-size":                  "16px",
	"font-weight":                "400",
	"font-style":                 "normal",
	"line-height":                "normal",
	"margin-top":                 "0px",
	"margin-right":               "0px",
	"margin-bottom":              "0px",
	"margin-left":                "0px",
	"padding-top":                "0px",
	"padding-right":              "0px",
	"padding-bottom":             "0px",
	"padding-left":               "0px",
	"top":                        "auto",
	"right":                      "auto",
	"bottom":                     "auto",
	"left":                       "auto",
	"width":                      "auto",
	"height":                     "auto",
	"text-align":                 "start",
	"white-space":                "normal",
	"object-fit":                 "fill",
	"box-sizing":                 "content-box",
	"flex-direction":             "row",
}

// InitialValue returns the CSS initial value for a property key, or
// NullStyle for keys we do not track.
func InitialValue(key string) Property {
	return Property(initialValues[key])
}

// GetUserAgentDefaultProperty returns the user-agent default property for a given key.
func GetUserAgentDefaultProperty(node *html.Node, key string) Property {
	switch key {
	case "display":
		return DisplayPropertyForHTMLNode(node)
	}
	if node != nil && node.Type == html.ElementNode {
		for _, kv := range uaRules[node.Data] {
			if kv.Key == key {
				return kv.Value
			}
		}
	}
	return InitialValue(key)
}

// UserAgentStyles returns the user-agent style declarations for an HTML
// element, including its display type.
func UserAgentStyles(node *html.Node) []KeyValue {
	kvs := []KeyValue{{"display", DisplayPropertyForHTMLNode(node)}}
	if node == nil || node.Type != html.ElementNode {
		return kvs
	}
	return append(kvs, uaRules[node.Data]...)
}

var headings = map[string][2]string{
	"h1": {"2em", "0.67em"},
	"h2": {"1.5em", "0.83em"},
	"h3": {"1.17em", "1em"},
	"h4": {"1em", "1.33em"},
	"h5": {"0.83em", "1.67em"},
	"h6": {"0.67em", "2.33em"},
}

var uaRules = func() map[string][]KeyValue {
	bold := KeyValue{"font-weight", "700"}
	italic := KeyValue{"font-style", "italic"}
	mono := KeyValue{"font-family", "monospace"}
	vmargin := func(m string) []KeyValue {
		return []KeyValue{{"margin-top", Property(m)}, {"margin-bottom", Property(m)}}
	}
	rules := map[string][]KeyValue{
		"body":   {{"margin-top", "8px"}, {"margin-right", "8px"}, {"margin-bottom", "8px"}, {"margin-left", "8px"}},
		"p":      vmargin("1em"),
		"ul":     append(vmargin("1em"), KeyValue{"padding-left", "40px"}),
		"ol":     append(vmargin("1em"), KeyValue{"padding-left", "40px"}),
		"b":      {bold},
		"strong": {bold},
		"th":     {bold, {"text-align", "center"}},
		"i":      {italic},
		"em":     {italic},
		"code":   {mono},
		"pre":    append(vmargin("1em"), mono, KeyValue{"white-space", "pre"}),
		"img":    {{"object-fit", "fill"}},
	}
	for h, v := range headings {
		rules[h] = append(vmargin(v[1]), bold, KeyValue{"font-size", Property(v[0])})
	}
	return rules
}()

// DisplayPropertyForHTMLNode returns the default `display` CSS property for an HTML node.
func DisplayPropertyForHTMLNode(node *html.Node) Property {
	if node == nil {
		return "none"
	}
	if node.Type == html.DocumentNode {
		return "block"
	}
	if node.Type != html.ElementNode {
		tracer().Debugf("cannot get display-property for non-element")
		return "none"
	}
	switch node.Data {
	case "head", "style", "script", "link", "meta", "title", "template":
		return "none"
	case "html", "aside", "body", "div", "h1", "h2", "h3",
		"h4", "h5", "h6", "p", "ol", "section", "ul", "header", "footer",
		"main", "nav", "article", "pre", "figure", "blockquote":
		return "block"
	case "li":
		return "list-item"
	case "table":
		return "table"
	case "tr":
		return "table-row"
	case "td", "th":
		return "table-cell"
	case "i", "b", "span", "strong", "em", "u", "s", "code", "a", "small", "sub", "sup":
		return "inline"
	case "img", "svg", "canvas", "button", "input":
		return "inline-block"
	}
	tracer().Infof("unknown HTML element %s/%d will be set to display: block",
		node.Data, node.Type)
	return "block"
}

// InitializeDefaultPropertyValues creates an internal data structure to
// hold all the default values for CSS properties.
// In real-world browsers these are the user-agent CSS values.
// The resulting map is meant to style the document root, so every
// property lookup cascading upwards terminates there.
func InitializeDefaultPropertyValues(additionalProps []KeyValue) *PropertyMap {
	pmap := NewPropertyMap()
	x := NewPropertyGroup(PGX) // special group for extension properties
	for _, kv := range additionalProps {
		x.Set(kv.Key, kv.Value)
	}
	pmap.m[PGX] = x
	for k, v := range initialValues {
		pmap.Add(k, Property(v))
	}
	pmap.Add("display", "block")
	return pmap
}
