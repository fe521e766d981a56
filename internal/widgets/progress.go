package widgets

import (
	"fmt"
	"time"

	"github.com/rcliao/faveday/internal/model"
)

// Progress is how far today is through a calendar span.
type Progress struct {
	Name       string    `json:"name"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	DaysPassed int       `json:"days_passed"`
	TotalDays  int       `json:"total_days"`
	Percent    float64   `json:"percent"`
}

func newProgress(name string, start, end, now time.Time) Progress {
	passed := model.DaysBetween(start, now)
	total := model.DaysBetween(start, end)
	if passed < 0 {
		passed = 0
	}
	if passed > total {
		passed = total
	}
	return Progress{
		Name:       name,
		Start:      start,
		End:        end,
		DaysPassed: passed,
		TotalDays:  total,
		Percent:    clamp(safeDiv(float64(passed), float64(total))*100, 0, 100),
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SeasonProgress reports progress through the current northern-hemisphere
// season, using fixed boundaries of Mar 20, Jun 21, Sep 22 and Dec 21.
func (e *Engine) SeasonProgress(now time.Time) Progress {
	today := model.Day(now)
	y := today.Year()
	spring, summer := date(y, time.March, 20), date(y, time.June, 21)
	autumn, winter := date(y, time.September, 22), date(y, time.December, 21)

	switch {
	case !today.Before(winter):
		return newProgress("Winter", winter, date(y+1, time.March, 20), today)
	case !today.Before(autumn):
		return newProgress("Autumn", autumn, winter, today)
	case !today.Before(summer):
		return newProgress("Summer", summer, autumn, today)
	case !today.Before(spring):
		return newProgress("Spring", spring, summer, today)
	}
	return newProgress("Winter", date(y-1, time.December, 21), spring, today)
}

// YearProgress reports progress through the calendar year.
func (e *Engine) YearProgress(now time.Time) Progress {
	y := now.Year()
	return newProgress(fmt.Sprint(y), date(y, time.January, 1), date(y+1, time.January, 1), model.Day(now))
}

// LifeProgress reports progress from the last birthday to the next. It
// returns nil for a zero birth date or one after now.
func (e *Engine) LifeProgress(birth, now time.Time) *Progress {
	if birth.IsZero() {
		return nil
	}
	birth = model.Day(birth)
	today := model.Day(now)
	if birth.After(today) {
		return nil
	}
	age := today.Year() - birth.Year()
	if birth.AddDate(age, 0, 0).After(today) {
		age--
	}
	p := newProgress(fmt.Sprintf("Age %d", age), birth.AddDate(age, 0, 0), birth.AddDate(age+1, 0, 0), today)
	return &p
}
