package engine

import "time"

// BirthdayEntry is the lightweight shape the engine works with. It decouples
// the date math and calendar generation from the persistence layer.
type BirthdayEntry struct {
	// UID is a unique identifier used for stable iCalendar event UIDs.
	UID string

	// Name is the display name of the person.
	Name string

	// DateOfBirth is the birth date. Only month and day matter for
	// recurrence, the year is used for age.
	DateOfBirth time.Time

	// YearKnown indicates whether the birth year is real or a leap-year
	// placeholder (vCard dates like --02-29).
	YearKnown bool

	// Email is the optional contact address carried along for imports.
	Email string
}
