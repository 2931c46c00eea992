package engine

import (
	"errors"
	"sort"
	"time"

	"github.com/tartampluch/go-birthday-server/internal/config"
)

// Age returns the conventional calendar age at the reference date.
// The person counts as one year older starting on the birthday itself:
// if today's (month, day) is strictly before the birth (month, day), the
// birthday has not happened yet this year and the raw year difference is
// decremented.
func Age(birthDate, today time.Time) int {
	age := today.Year() - birthDate.Year()
	if today.Month() < birthDate.Month() ||
		(today.Month() == birthDate.Month() && today.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// DaysUntilNextOccurrence returns the number of whole days between the
// reference date and the next occurrence of the birth date. The result is 0
// exactly when today is the birthday and never exceeds 366.
//
// Both dates are truncated to midnight before subtracting, so the result is
// independent of the time of day and of DST transitions.
func DaysUntilNextOccurrence(birthDate, today time.Time) int {
	next, _ := NextOccurrence(today, birthDate, true)

	todayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	nextStart := time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, time.UTC)

	return int(nextStart.Sub(todayStart).Hours() / 24)
}

// NextOccurrence determines the next birthday date relative to 'now' and the
// age turned on that date (0 when yearKnown is false).
//
// Leap-day policy: a Feb 29 birth date observes on March 1st in non-leap
// years. This falls out of time.Date normalization and is the documented,
// tested behavior.
func NextOccurrence(now time.Time, birthDate time.Time, yearKnown bool) (time.Time, int) {
	currentYear := now.Year()
	// Use the location of 'now' to keep the comparison on the local calendar.
	loc := now.Location()

	candidate := time.Date(currentYear, birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, loc)

	// Strictly before the start of today means the birthday already passed
	// this year. Today itself counts as the next occurrence.
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	if candidate.Before(todayStart) {
		candidate = time.Date(currentYear+1, birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, loc)
	}

	age := 0
	if yearKnown {
		age = candidate.Year() - birthDate.Year()
	}

	return candidate, age
}

// SortUpcoming orders items ascending by days until the next occurrence of
// their birth date relative to today. The countdown is computed once per item
// before sorting, so the comparator never reads a key that moved out from
// under it. The sort is stable: equal countdowns keep their original order.
func SortUpcoming[T any](items []T, today time.Time, birthDate func(T) time.Time) {
	type ranked struct {
		item T
		days int
	}

	keyed := make([]ranked, len(items))
	for i, it := range items {
		keyed[i] = ranked{item: it, days: DaysUntilNextOccurrence(birthDate(it), today)}
	}

	sort.SliceStable(keyed, func(i, j int) bool {
		return keyed[i].days < keyed[j].days
	})

	for i, r := range keyed {
		items[i] = r.item
	}
}

// ParseBirthDate handles the date formats accepted for birth dates: full
// calendar dates in several layouts and the vCard truncated forms without a
// year. Truncated dates are anchored to a leap year so Feb 29 stays
// representable; the second return value reports whether the year is real.
func ParseBirthDate(value string) (time.Time, bool, error) {
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}

	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return t, true, nil
		}
	}

	formatsWithoutYear := []string{config.DateFormatNoYearD, config.DateFormatNoYearB}
	for _, f := range formatsWithoutYear {
		if t, err := time.Parse(f, value); err == nil {
			safeDate := time.Date(config.DefaultLeapYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return safeDate, false, nil
		}
	}

	return time.Time{}, false, errors.New(config.ErrDateParse)
}
