package engine

import (
	"context"
	"io"
	"log/slog"

	"github.com/emersion/go-vcard"
	"github.com/pkg/errors"
	"github.com/tartampluch/go-birthday-server/internal/config"
)

// ImportStats summarizes a vCard parsing pass.
type ImportStats struct {
	Processed int
	WithBday  int
	Skipped   int
}

// ParseVCards decodes a vCard stream and extracts one BirthdayEntry per card
// carrying a parseable BDAY field. Malformed cards are skipped, not fatal, to
// maximize data recovery from real-world address books.
func ParseVCards(ctx context.Context, r io.Reader) ([]BirthdayEntry, ImportStats, error) {
	decoder := vcard.NewDecoder(r)

	var entries []BirthdayEntry
	var stats ImportStats

	for {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyError, err)
			stats.Skipped++
			continue
		}

		stats.Processed++
		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}

		birthDate, yearKnown, err := ParseBirthDate(bday.Value)
		if err != nil {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyValue, bday.Value)
			stats.Skipped++
			continue
		}
		stats.WithBday++

		// Name strategy: FN (formatted) > N (structured) > fallback.
		name := config.FallbackName
		if fn := card.Get(config.VCardFN); fn != nil {
			name = fn.Value
		} else if n := card.Get(config.VCardN); n != nil {
			name = n.Value
		}

		email := ""
		if e := card.Get(config.VCardEmail); e != nil {
			email = e.Value
		}

		entries = append(entries, BirthdayEntry{
			UID:         DeterministicUID(name, birthDate),
			Name:        name,
			DateOfBirth: birthDate,
			YearKnown:   yearKnown,
			Email:       email,
		})
	}

	return entries, stats, nil
}
