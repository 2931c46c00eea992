package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAge verifies the conventional age calculation: a person counts as one
// year older starting on the birthday itself.
func TestAge(t *testing.T) {
	birth := time.Date(2000, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		today    time.Time
		expected int
	}{
		{
			name:     "Day before birthday",
			today:    time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC),
			expected: 23,
		},
		{
			name:     "On the birthday",
			today:    time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
			expected: 24,
		},
		{
			name:     "Day after birthday",
			today:    time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC),
			expected: 24,
		},
		{
			name:     "Earlier month",
			today:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: 23,
		},
		{
			name:     "Later month",
			today:    time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
			expected: 24,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Age(birth, tt.today))
		})
	}
}

// TestAge_Leapling verifies that a Feb 29 birth counts the year as turned on
// March 1st in non-leap years, consistent with the observed-date policy.
func TestAge_Leapling(t *testing.T) {
	birth := time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC)

	// 2025 is not a leap year: Feb 28 is still "before" (month 2, day 28 < 29).
	assert.Equal(t, 24, Age(birth, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)))
	// March 1st: month 3 > month 2, birthday considered passed.
	assert.Equal(t, 25, Age(birth, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	// 2024 is a leap year: Feb 29 itself counts.
	assert.Equal(t, 24, Age(birth, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)))
}

// TestDaysUntilNextOccurrence verifies the whole-day countdown to the next
// birthday, including the year-boundary wrap.
func TestDaysUntilNextOccurrence(t *testing.T) {
	birth := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		today    time.Time
		expected int
	}{
		{
			name:     "Day before",
			today:    time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC),
			expected: 1,
		},
		{
			name:     "Birthday itself",
			today:    time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
			expected: 0,
		},
		{
			name:     "Day after wraps to next year",
			today:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: 364,
		},
		{
			name:     "Time of day is irrelevant",
			today:    time.Date(2024, 12, 30, 23, 59, 59, 0, time.UTC),
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DaysUntilNextOccurrence(birth, tt.today))
		})
	}
}

// TestDaysUntilNextOccurrence_Range sweeps a full year and checks the result
// always stays within [0, 366].
func TestDaysUntilNextOccurrence_Range(t *testing.T) {
	birth := time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for d := 0; d < 730; d++ {
		today := start.AddDate(0, 0, d)
		days := DaysUntilNextOccurrence(birth, today)
		require.GreaterOrEqual(t, days, 0, "negative countdown at %s", today)
		require.LessOrEqual(t, days, 366, "countdown overflow at %s", today)
	}
}

// TestSortUpcoming verifies the ascending days-remaining order. The countdown
// keys must follow their items through the permutation: with countdowns
// [5, 0, 3] the result is [0, 3, 5], not an order driven by stale keys.
func TestSortUpcoming(t *testing.T) {
	today := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	type person struct {
		name  string
		birth time.Time
	}

	people := []person{
		{"InFive", time.Date(1990, 6, 20, 0, 0, 0, 0, time.UTC)},
		{"Today", time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"InThree", time.Date(1990, 6, 18, 0, 0, 0, 0, time.UTC)},
	}

	SortUpcoming(people, today, func(p person) time.Time { return p.birth })

	got := []string{people[0].name, people[1].name, people[2].name}
	assert.Equal(t, []string{"Today", "InThree", "InFive"}, got)
}

// TestSortUpcoming_StableTies verifies that records with the same countdown
// keep their insertion order.
func TestSortUpcoming_StableTies(t *testing.T) {
	today := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	type person struct {
		name  string
		birth time.Time
	}

	// Two distinct birth years sharing June 18: same days remaining.
	people := []person{
		{"TieFirst", time.Date(1990, 6, 18, 0, 0, 0, 0, time.UTC)},
		{"Today", time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"TieSecond", time.Date(1985, 6, 18, 0, 0, 0, 0, time.UTC)},
	}

	SortUpcoming(people, today, func(p person) time.Time { return p.birth })

	got := []string{people[0].name, people[1].name, people[2].name}
	assert.Equal(t, []string{"Today", "TieFirst", "TieSecond"}, got,
		"Equal countdowns must preserve insertion order")
}

// TestSortUpcoming_YearBoundary checks that a birthday that already passed
// this year sorts behind one still ahead, across the year wrap.
func TestSortUpcoming_YearBoundary(t *testing.T) {
	today := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	type person struct {
		name  string
		birth time.Time
	}

	people := []person{
		{"PassedInJanuary", time.Date(1990, 1, 10, 0, 0, 0, 0, time.UTC)},
		{"AheadInJuly", time.Date(1990, 7, 1, 0, 0, 0, 0, time.UTC)},
	}

	SortUpcoming(people, today, func(p person) time.Time { return p.birth })

	assert.Equal(t, "AheadInJuly", people[0].name)
	assert.Equal(t, "PassedInJanuary", people[1].name)
}

// TestNextOccurrence verifies the core temporal logic. It covers standard
// dates, boundaries (end of year), and leap year complexities.
func TestNextOccurrence(t *testing.T) {
	// Reference "Now": June 15th, 2025 (Non-Leap Year)
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		birthDate    time.Time
		yearKnown    bool
		expectedDate time.Time
		expectedAge  int
		desc         string
	}{
		{
			name:         "Birthday in the past (this year)",
			birthDate:    time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
			yearKnown:    true,
			expectedDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			expectedAge:  36,
			desc:         "Jan 1 is before June 15, so next occurrence is 2026",
		},
		{
			name:         "Birthday in the future (this year)",
			birthDate:    time.Date(1990, 12, 31, 0, 0, 0, 0, time.UTC),
			yearKnown:    true,
			expectedDate: time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
			expectedAge:  35,
			desc:         "Dec 31 is after June 15, so next occurrence is 2025",
		},
		{
			name:         "Birthday is Today",
			birthDate:    time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC),
			yearKnown:    true,
			expectedDate: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			expectedAge:  35,
			desc:         "If birthday is today, it counts as the next occurrence",
		},
		{
			name:         "Year Unknown",
			birthDate:    time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
			yearKnown:    false,
			expectedDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			expectedAge:  0,
			desc:         "Date is computed normally but age stays 0",
		},
		{
			name:         "Leapling - Non-Leap Year (Feb 29 -> Mar 1)",
			birthDate:    time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC),
			yearKnown:    true,
			expectedDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			expectedAge:  26,
			desc:         "Born Feb 29. Next occurrence relative to June 2025 is March 1st 2026 (Go normalizes non-leap Feb 29 to Mar 1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, age := NextOccurrence(now, tt.birthDate, tt.yearKnown)
			assert.Equal(t, tt.expectedDate, next, tt.desc)
			assert.Equal(t, tt.expectedAge, age, "Age calculation mismatch")
		})
	}
}

// TestNextOccurrence_LeapYearContext verifies behavior when the *current* year
// is a leap year: Feb 29 must be preserved, not normalized away.
func TestNextOccurrence_LeapYearContext(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	birthDate := time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC)

	next, _ := NextOccurrence(now, birthDate, true)

	expected := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, expected, next, "In a leap year, the birthday should be Feb 29, not Mar 1")
}

// TestParseBirthDate covers the accepted date layouts, including the vCard
// truncated forms without a year.
func TestParseBirthDate(t *testing.T) {
	tests := []struct {
		name          string
		value         string
		wantErr       bool
		wantYearKnown bool
		wantMonth     time.Month
		wantDay       int
	}{
		{"ISO8601 Standard", "1990-10-25", false, true, time.October, 25},
		{"Basic Format", "19901025", false, true, time.October, 25},
		{"RFC3339", "1990-10-25T00:00:00Z", false, true, time.October, 25},
		{"Truncated (Month-Day)", "--10-25", false, false, time.October, 25},
		{"Truncated Basic", "--1025", false, false, time.October, 25},
		{"Truncated Leap Day", "--02-29", false, false, time.February, 29},
		{"Garbage Data", "not-a-date", true, false, 0, 0},
		{"Empty Date", "", true, false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, yearKnown, err := ParseBirthDate(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantYearKnown, yearKnown)
			assert.Equal(t, tt.wantMonth, parsed.Month())
			assert.Equal(t, tt.wantDay, parsed.Day())
		})
	}
}
