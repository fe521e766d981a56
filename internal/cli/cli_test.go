package cli

import (
	"testing"
	"time"

	"github.com/rcliao/faveday/internal/config"
	"github.com/rcliao/faveday/internal/model"
	"github.com/rcliao/faveday/internal/score"
	"github.com/rcliao/faveday/internal/widgets"
)

func TestParseImportJSON(t *testing.T) {
	entries, err := parseImport([]byte(`[
		{"date": "2024-01-01", "score": 4, "notes": "#coffee"},
		{"date": "2024-01-02", "score": 0, "notes": ""}
	]`))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Score != 4 || entries[0].Notes != "#coffee" {
		t.Errorf("unexpected first entry %+v", entries[0])
	}
	if !entries[1].Date.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date %v", entries[1].Date)
	}
}

func TestParseImportLines(t *testing.T) {
	entries, err := parseImport([]byte("2024-01-01,3,first line\\nsecond\n\n2024-01-02,5,\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Notes != "first line\nsecond" {
		t.Errorf("expected unescaped notes, got %q", entries[0].Notes)
	}

	if _, err := parseImport([]byte("2024-01-01,3,ok\nnonsense\n")); err == nil {
		t.Error("expected error for malformed line")
	}
}

func TestWidgetFuncs(t *testing.T) {
	cfg := config.Default()
	e := widgets.NewEngine([]model.Entry{
		{Date: time.Date(2024, 6, 29, 0, 0, 0, 0, time.UTC), Score: 4, Notes: "#hike"},
		{Date: time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), Score: 5, Notes: "#hike"},
	}, nil, score.NewCalculator(cfg.Scoring), cfg.Widgets())
	now := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	for _, name := range widgetNames() {
		args := widgetArgs{score: 5, days: 30, birth: "1990-08-15"}
		if widgetFuncs[name](e, now, args) == nil {
			t.Errorf("widget %s returned nothing", name)
		}
	}
}

func TestTodayIsCalendarDay(t *testing.T) {
	old := nowFlag
	t.Cleanup(func() { nowFlag = old })

	nowFlag = ""
	before := model.Day(time.Now())
	got := today()
	after := model.Day(time.Now())
	if got.Location() != time.UTC || got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
		t.Errorf("expected UTC midnight, got %v", got)
	}
	if !got.Equal(before) && !got.Equal(after) {
		t.Errorf("expected local calendar day %v, got %v", before, got)
	}

	nowFlag = "2024-06-30"
	if got := today(); !got.Equal(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected --now date, got %v", got)
	}
}
