package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatCount formats an integer with thousands separators, e.g. "12,345".
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatPercent formats a percentage with one decimal, e.g. "40.0%".
func FormatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64) + "%"
}

// FormatLabel formats a binary fraud label for display.
func FormatLabel(label *int) string {
	if label == nil {
		return "—"
	}
	if *label == 1 {
		return "Fraud"
	}
	return "Legitimate"
}

// FormatScore formats a numeric score cell with four decimals.
// Non-numeric cells are returned as written; blanks become "—".
func FormatScore(cell string) string {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return "—"
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return cell
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// FormatLoadedAt formats a load time relative to now:
// "just now", "5m ago", "15:04", "Jan 02 15:04".
func FormatLoadedAt(t, now time.Time) string {
	if t.IsZero() {
		return "—"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case t.Year() == now.Year() && t.YearDay() == now.YearDay():
		return t.Format("15:04")
	default:
		return t.Format("Jan 02 15:04")
	}
}

// RowRange formats the 1-based span of a page, e.g. "rows 21–23 of 23".
func RowRange(start, end, total int) string {
	if total == 0 || end <= start {
		return "no rows"
	}
	return fmt.Sprintf("rows %s–%s of %s", FormatCount(start+1), FormatCount(end), FormatCount(total))
}

// TruncateString truncates a string to maxLen and adds "..." if needed.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen < 3 {
		if maxLen < 0 {
			maxLen = 0
		}
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
