// Package palette assigns display colors to category labels. The assignment
// is a pure function of the label: same input, same color, across processes
// and restarts, with no lookup table or session state.
package palette

import "unicode/utf16"

// Entry is one selectable palette color.
type Entry struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// chartPalette colors chart fills. badgePalette colors category badges. The
// two share the same hash but differ in size and order, so the two picks for
// one category are independent selections, not matched pairs.
var chartPalette = []Entry{
	{Name: "teal", Hex: "#0D9488"},
	{Name: "indigo", Hex: "#4F46E5"},
	{Name: "amber", Hex: "#D97706"},
	{Name: "rose", Hex: "#E11D48"},
	{Name: "emerald", Hex: "#059669"},
	{Name: "sky", Hex: "#0284C7"},
	{Name: "violet", Hex: "#7C3AED"},
	{Name: "orange", Hex: "#EA580C"},
}

var badgePalette = []Entry{
	{Name: "cyan", Hex: "#CFFAFE"},
	{Name: "lime", Hex: "#ECFCCB"},
	{Name: "fuchsia", Hex: "#FAE8FF"},
	{Name: "yellow", Hex: "#FEF9C3"},
	{Name: "blue", Hex: "#DBEAFE"},
}

// neutral is returned for an empty category label.
var neutral = Entry{Name: "slate", Hex: "#64748B"}

// ColorOf returns the chart fill color for a category label.
func ColorOf(category string) Entry {
	if category == "" {
		return neutral
	}
	return chartPalette[index(category, len(chartPalette))]
}

// BadgeOf returns the badge color for a category label.
func BadgeOf(category string) Entry {
	if category == "" {
		return neutral
	}
	return badgePalette[index(category, len(badgePalette))]
}

// hash accumulates UTF-16 code units with 32-bit signed wrapping:
// h = (h << 5) - h + code, i.e. h*31 + code. The wrapping int32 type is what
// keeps assignments identical across runs; a different integer width would
// shuffle which categories share a color.
func hash(s string) int32 {
	var h int32
	for _, code := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(code)
	}
	return h
}

// index maps the hash to a palette slot. Widening before negation keeps
// abs well-defined for MinInt32.
func index(s string, size int) int {
	v := int64(hash(s))
	if v < 0 {
		v = -v
	}
	return int(v % int64(size))
}
