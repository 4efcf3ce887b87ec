package frame

import (
	"strconv"
	"strings"
	"time"
)

// timeLayouts are the formats FromRecords recognizes, most specific first
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

// bestParser picks the single parser every valid cell accepts. When no typed
// parser covers the column it degrades to identity (string kind).
func bestParser(raw []string, missing []bool) func(string) any {
	allInt, allFloat, allBool, allTime := true, true, true, true
	seen := false
	for i, cell := range raw {
		if missing[i] {
			continue
		}
		seen = true
		if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
			allInt = false
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			allFloat = false
		}
		if !isBoolToken(cell) {
			allBool = false
		}
		if _, ok := parseTime(cell); !ok {
			allTime = false
		}
	}
	if !seen {
		return func(string) any { return nil }
	}

	switch {
	case allInt:
		return func(cell string) any {
			n, _ := strconv.ParseInt(cell, 10, 64)
			return n
		}
	case allFloat:
		return func(cell string) any {
			v, _ := strconv.ParseFloat(cell, 64)
			return v
		}
	case allBool:
		return func(cell string) any {
			return parseBoolToken(cell)
		}
	case allTime:
		return func(cell string) any {
			t, _ := parseTime(cell)
			return t
		}
	default:
		return func(cell string) any { return cell }
	}
}

func isBoolToken(cell string) bool {
	switch strings.ToLower(cell) {
	case "true", "false", "yes", "no":
		return true
	}
	return false
}

func parseBoolToken(cell string) bool {
	switch strings.ToLower(cell) {
	case "true", "yes":
		return true
	}
	return false
}

func parseTime(cell string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
