package css

import (
	"strings"

	"github.com/cuishuai123/presenton/dom/style"
)

// DisplayMode is a type for CSS property "display". It carries an outer
// mode (how the box takes part in its parent's flow) and an inner mode
// (how the box lays out its children).
type DisplayMode uint16

// Flags for outer and inner display modes.
const (
	NoMode       DisplayMode = iota   // unset
	DisplayNone  DisplayMode = 0x0001 // outer display = none
	BlockMode    DisplayMode = 0x0002 // outer block
	InlineMode   DisplayMode = 0x0004 // outer inline
	FlowMode     DisplayMode = 0x0010 // inner flow (block and inline content)
	FlexMode     DisplayMode = 0x0020 // inner flex
	GridMode     DisplayMode = 0x0040 // inner grid, laid out as flow
	TableMode    DisplayMode = 0x0080 // table or table part
	TableRowMode DisplayMode = 0x0100 // table-row, children side by side
)

// Outer returns the outer mode.
func (disp DisplayMode) Outer() DisplayMode {
	return disp & 0x000f
}

// Inner returns the inner mode.
func (disp DisplayMode) Inner() DisplayMode {
	return disp & 0xfff0
}

// Contains checks if a display mode contains a given atomic mode.
// Returns false for d = NoMode.
func (disp DisplayMode) Contains(d DisplayMode) bool {
	return d != NoMode && (disp&d > 0)
}

// IsNone is true for display:none. Such elements generate no box.
func (disp DisplayMode) IsNone() bool {
	return disp.Contains(DisplayNone)
}

// IsInlineLevel is true if the box takes part in a line of its parent.
func (disp DisplayMode) IsInlineLevel() bool {
	return disp.Outer() == InlineMode
}

// IsRow is true if children are placed side by side: rows of flex containers
// and table rows. direction is the value of "flex-direction".
func (disp DisplayMode) IsRow(direction style.Property) bool {
	switch {
	case disp.Contains(TableRowMode):
		return true
	case disp.Contains(FlexMode):
		return !strings.HasPrefix(direction.Keyword(), "column")
	}
	return false
}

var modeNames = map[DisplayMode]string{
	DisplayNone:  "none",
	BlockMode:    "block",
	InlineMode:   "inline",
	FlowMode:     "flow",
	FlexMode:     "flex",
	GridMode:     "grid",
	TableMode:    "table",
	TableRowMode: "table-row",
}

func (disp DisplayMode) String() string {
	if disp == NoMode {
		return "unset"
	}
	var names []string
	for m := DisplayNone; m <= TableRowMode; m <<= 1 {
		if name, ok := modeNames[m]; ok && disp.Contains(m) {
			names = append(names, name)
		}
	}
	return strings.Join(names, " ")
}

// Display returns mode flags from a display property. Unknown values, and
// values like "contents" which would need a box tree rewrite, are laid out
// as blocks.
func Display(p style.Property) DisplayMode {
	switch p.Keyword() {
	case "":
		return NoMode
	case "none":
		return DisplayNone
	case "inline", "contents":
		return InlineMode | FlowMode
	case "inline-block":
		return InlineMode | FlowMode
	case "inline-flex":
		return InlineMode | FlexMode
	case "inline-grid":
		return InlineMode | GridMode
	case "inline-table":
		return InlineMode | TableMode
	case "flex":
		return BlockMode | FlexMode
	case "grid":
		return BlockMode | GridMode
	case "table", "table-row-group", "table-header-group", "table-footer-group", "table-cell":
		return BlockMode | TableMode
	case "table-row":
		return BlockMode | TableMode | TableRowMode
	}
	return BlockMode | FlowMode
}
