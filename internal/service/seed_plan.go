package service

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// seedPlanFile YAML-описание плана слотов
type seedPlanFile struct {
	From     string   `yaml:"from"` // YYYY-MM-DD, пусто = сегодня
	Days     int      `yaml:"days"`
	Weekdays []string `yaml:"weekdays"`
	Times    []string `yaml:"times"`
	Location string   `yaml:"location"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseSeedPlan разбирает YAML-план. Дни недели пишутся полностью
// или первыми тремя буквами, регистр не важен
func ParseSeedPlan(data []byte, now time.Time) (SeedPlan, error) {
	var raw seedPlanFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return SeedPlan{}, fmt.Errorf("parse seed plan: %w", err)
	}

	loc := time.UTC
	if raw.Location != "" {
		l, err := time.LoadLocation(raw.Location)
		if err != nil {
			return SeedPlan{}, fmt.Errorf("seed plan location: %w", err)
		}
		loc = l
	}

	from := now.In(loc)
	if raw.From != "" {
		t, err := time.ParseInLocation("2006-01-02", raw.From, loc)
		if err != nil {
			return SeedPlan{}, fmt.Errorf("seed plan from: %w", err)
		}
		from = t
	}

	plan := SeedPlan{
		From:     from,
		Days:     raw.Days,
		Times:    raw.Times,
		Location: loc,
	}

	for _, name := range raw.Weekdays {
		wd, ok := parseWeekday(name)
		if !ok {
			return SeedPlan{}, fmt.Errorf("seed plan: unknown weekday %q", name)
		}
		plan.Weekdays = append(plan.Weekdays, wd)
	}

	if err := plan.Validate(); err != nil {
		return SeedPlan{}, fmt.Errorf("invalid seed plan: %w", err)
	}
	return plan, nil
}

func parseWeekday(name string) (time.Weekday, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if wd, ok := weekdayNames[name]; ok {
		return wd, true
	}
	if len(name) == 3 {
		for full, wd := range weekdayNames {
			if strings.HasPrefix(full, name) {
				return wd, true
			}
		}
	}
	return 0, false
}
