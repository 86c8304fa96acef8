// Package calendar provides the holiday calendars used by the weekend and
// holiday audit criterion.
package calendar

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// DateLayout is the calendar-day format holidays are keyed by.
const DateLayout = "2006-01-02"

// ErrEmptyCalendar is returned when a holiday file lists no dates.
var ErrEmptyCalendar = errors.New("holiday calendar has no dates")

// defaultDates is the reference 2022 Ecuador public holiday list.
var defaultDates = []string{
	"2022-01-01", "2022-04-14", "2022-04-15", "2022-05-01",
	"2022-05-26", "2022-08-10", "2022-10-09", "2022-11-02",
	"2022-11-03", "2022-12-25", "2022-12-31",
}

// Holidays is an immutable set of holiday dates with a version label.
// A nil *Holidays contains no dates.
type Holidays struct {
	days    map[string]struct{}
	Version string
}

// New builds a holiday set from YYYY-MM-DD strings.
func New(version string, dates ...string) (*Holidays, error) {
	h := &Holidays{
		Version: version,
		days:    make(map[string]struct{}, len(dates)),
	}

	for _, d := range dates {
		parsed, err := time.Parse(DateLayout, d)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday date %q: %w", d, err)
		}
		h.days[parsed.Format(DateLayout)] = struct{}{}
	}

	return h, nil
}

// Default returns the built-in reference calendar.
func Default() *Holidays {
	h, err := New("2022-EC", defaultDates...)
	if err != nil {
		panic(err) // built-in dates are constant
	}
	return h
}

// LoadFile reads a holiday calendar from a YAML, JSON or TOML file of the form:
//
//	version: 2023-EC
//	holidays:
//	  - 2023-01-01
//	  - 2023-02-20
func LoadFile(path string) (*Holidays, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read holiday calendar: %w", err)
	}

	var dates []string
	for _, item := range cast.ToSlice(v.Get("holidays")) {
		// YAML decodes unquoted dates as timestamps
		if t, ok := item.(time.Time); ok {
			dates = append(dates, t.Format(DateLayout))
			continue
		}
		dates = append(dates, cast.ToString(item))
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyCalendar, path)
	}
	if err := validateDocument(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	version := v.GetString("version")
	if version == "" {
		version = path
	}

	return New(version, dates...)
}

// Contains reports whether t falls on a holiday.
func (h *Holidays) Contains(t time.Time) bool {
	if h == nil {
		return false
	}
	_, ok := h.days[t.Format(DateLayout)]
	return ok
}

// Dates returns the holidays in ascending order.
func (h *Holidays) Dates() []string {
	if h == nil {
		return nil
	}
	dates := make([]string, 0, len(h.days))
	for d := range h.days {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// Len returns the number of holidays in the set.
func (h *Holidays) Len() int {
	if h == nil {
		return 0
	}
	return len(h.days)
}

// Merge returns a new set holding the dates of both calendars.
func (h *Holidays) Merge(other *Holidays) *Holidays {
	merged := &Holidays{
		Version: h.label() + "+" + other.label(),
		days:    make(map[string]struct{}, h.Len()+other.Len()),
	}
	for _, d := range h.Dates() {
		merged.days[d] = struct{}{}
	}
	for _, d := range other.Dates() {
		merged.days[d] = struct{}{}
	}
	return merged
}

func (h *Holidays) label() string {
	if h == nil {
		return "none"
	}
	return h.Version
}
