package cssom

import "github.com/cuishuai123/presenton/dom/style"

// StyleSheet is a list of style rules, in source order. The static surface
// adds one stylesheet per <style> element of a document (see package
// douceuradapter).
type StyleSheet interface {
	AppendRules(StyleSheet) // append rules from another stylesheet
	Empty() bool            // does this stylesheet contain any rules?
	Rules() []Rule          // all the rules of a stylesheet
}

// Rule is a selector with its declarations.
type Rule interface {
	Selector() string            // the prelude / selectors of the rule
	Properties() []string        // property keys, e.g. "margin-top"
	Value(string) style.Property // property value for key, e.g. "15px"
	IsImportant(string) bool     // is property key marked as important?
}

// InlineParser parses the content of an HTML style attribute into a
// selector-less rule.
type InlineParser func(decl string) (Rule, error)
