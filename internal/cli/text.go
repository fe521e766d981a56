package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/rcliao/faveday/internal/model"
)

func scoreText(score int) string {
	if score == 0 {
		return "  -  "
	}
	return strings.Repeat("★", score) + strings.Repeat("·", model.MaxScore-score)
}

// relDay renders d relative to today, e.g. "3 days ago".
func relDay(d time.Time) string {
	now := model.Day(today())
	if model.SameDay(d, now) {
		return "today"
	}
	return humanize.RelTime(d, now, "ago", "from now")
}

func oneLine(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && s[cut]&0xC0 == 0x80 {
		cut--
	}
	return s[:cut] + "…"
}

func printEntryLine(e model.Entry) {
	fmt.Printf("%s  %s  %-14s %s\n", model.FormatDate(e.Date), scoreText(e.Score), relDay(e.Date), oneLine(e.Notes, 80))
}

func pct(v float64) string {
	return humanize.FtoaWithDigits(v, 1) + "%"
}
