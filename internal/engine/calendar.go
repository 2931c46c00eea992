package engine

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/pkg/errors"
	"github.com/tartampluch/go-birthday-server/internal/config"
)

// CalendarBuilder renders stored birthdays as an iCalendar feed.
type CalendarBuilder struct {
	Clock Clock

	// FormatSummary allows localized event summaries to be injected without
	// the engine depending on the i18n layer.
	FormatSummary func(name string, age int, yearKnown bool) string
}

// Build generates the ICS document for the given entries and returns it with
// the number of birthdays falling on the current day.
func (b *CalendarBuilder) Build(entries []BirthdayEntry, reminderTrigger string) ([]byte, int, error) {
	cal := ical.NewCalendar()

	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986: suggest a refresh interval to subscribing clients.
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	// Birthdays are defined by the local calendar date of the person, not an
	// absolute UTC timestamp. Local time drives the logic, UTC is only used
	// for ICS stamping.
	now := b.Clock.Now()
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	today := 0
	for _, entry := range entries {
		events, isToday := b.createEvents(entry, reminderTrigger, now)
		if isToday {
			today++
			slog.Info(config.MsgBdayToday,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyName, entry.Name,
				config.LogKeyDOB, entry.DateOfBirth.Format(config.DateFormatFullDash),
			)
		}

		for _, e := range events {
			e.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, e.Component)
		}
	}

	// Keep the feed a valid VCALENDAR even when no events exist.
	if len(cal.Children) == 0 {
		return []byte(config.StubVCalendar), 0, nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, 0, errors.Wrap(err, config.ErrICalEncode)
	}

	return buf.Bytes(), today, nil
}

// createEvents generates events for the previous, current and next year so
// calendar clients can scroll in both directions without an immediate
// re-sync. No event is created before the person is born.
func (b *CalendarBuilder) createEvents(entry BirthdayEntry, reminderTrigger string, now time.Time) ([]*ical.Event, bool) {
	currentYear := now.Year()
	targetYears := []int{currentYear - 1, currentYear, currentYear + 1}
	loc := now.Location()

	var events []*ical.Event
	isToday := false

	todayYear, todayMonth, todayDay := now.Date()
	uidBase := entry.UID
	if uidBase == "" {
		uidBase = DeterministicUID(entry.Name, entry.DateOfBirth)
	}

	for _, y := range targetYears {
		if entry.YearKnown && y < entry.DateOfBirth.Year() {
			continue
		}

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, uidBase, y, config.ICalDomain))

		age := 0
		if entry.YearKnown {
			age = y - entry.DateOfBirth.Year()
		}

		summary := fmt.Sprintf(config.FallbackSummary, entry.Name)
		if b.FormatSummary != nil {
			summary = b.FormatSummary(entry.Name, age, entry.YearKnown && age >= 0)
		}
		event.Props.SetText(config.PropSummary, summary)

		eventDate := time.Date(y, entry.DateOfBirth.Month(), entry.DateOfBirth.Day(), 0, 0, 0, 0, loc)

		if y == todayYear && eventDate.Month() == todayMonth && eventDate.Day() == todayDay {
			isToday = true
		}

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(eventDate)
		event.Props.Set(dtStartProp)

		if reminderTrigger != "" {
			addAlarm(event, reminderTrigger, summary)
		}

		events = append(events, event)
	}
	return events, isToday
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}

// DeterministicUID derives a stable identifier from a name and birth date so
// calendar events keep their UID across feed refreshes.
func DeterministicUID(name string, birthDate time.Time) string {
	input := fmt.Sprintf(config.FormatHashInput, name, birthDate.Format(time.RFC3339), config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", hash[:config.UIDHashLength])
}
