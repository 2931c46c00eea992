package server

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/tartampluch/go-birthday-server/internal/config"
	"github.com/tartampluch/go-birthday-server/internal/engine"
	"github.com/tartampluch/go-birthday-server/internal/gift"
	"github.com/tartampluch/go-birthday-server/internal/store"
)

// handleCalendar serves the stored birthdays as an ICS feed with conditional
// request support so subscribing calendar clients can poll cheaply.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	birthdays, err := s.store.List(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "could not list birthdays", slog.Any(config.LogKeyError, errors.WithStack(err)))
		http.Error(w, config.HTTPMsgInternalErr, http.StatusInternalServerError)
		return
	}

	entries := make([]engine.BirthdayEntry, 0, len(birthdays))
	for _, b := range birthdays {
		entries = append(entries, engine.BirthdayEntry{
			UID:         b.ID,
			Name:        b.Name,
			DateOfBirth: b.Date,
			YearKnown:   true,
			Email:       b.Email,
		})
	}

	data, _, err := s.calendar.Build(entries, "")
	if err != nil {
		slog.ErrorContext(ctx, config.ErrICalEncode, slog.Any(config.LogKeyError, errors.WithStack(err)))
		http.Error(w, config.HTTPMsgInternalErr, http.StatusInternalServerError)
		return
	}

	hash := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	slog.DebugContext(ctx, config.MsgCalendarBuilt,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, etag,
	)

	w.Header().Set(config.HeaderContentType, config.MimeTextCalendar)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, etag)
	w.Header().Set(config.HeaderLastModified, time.Now().UTC().Format(http.TimeFormat))

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}

// handleImport creates birthday records from a vCard source: either a .vcf
// multipart upload or a remote address book fetched over HTTP.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	reader, err := s.importSource(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	// Best effort close. Errors when closing a fully-read body are rarely
	// actionable here.
	defer func() { _ = reader.Close() }()

	entries, stats, err := engine.ParseVCards(ctx, reader)
	if err != nil {
		slog.ErrorContext(ctx, config.ErrVCardParse, slog.Any(config.LogKeyError, errors.WithStack(err)))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: config.HTTPMsgImportFailed})
		return
	}

	now := s.clock.Now()
	imported := 0

	for _, entry := range entries {
		age := 0
		if entry.YearKnown {
			age = engine.Age(entry.DateOfBirth, now)
		}

		suggestions := gift.TryGenerate(ctx, s.gifts, gift.Input{
			Name:          entry.Name,
			Age:           age,
			DaysRemaining: engine.DaysUntilNextOccurrence(entry.DateOfBirth, now),
		})

		birthday := store.Birthday{
			Name:            entry.Name,
			Date:            entry.DateOfBirth,
			Email:           entry.Email,
			GiftSuggestions: suggestions,
		}

		if err := s.store.Create(ctx, &birthday); err != nil {
			slog.ErrorContext(ctx, config.HTTPMsgImportFailed, slog.Any(config.LogKeyError, errors.WithStack(err)))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: config.HTTPMsgImportFailed})
			return
		}
		imported++
	}

	slog.InfoContext(ctx, config.MsgImportDone,
		config.LogKeyComponent, config.CompServer,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, stats.Processed),
			slog.Int(config.LogKeyFound, stats.WithBday),
			slog.Int(config.LogKeySkipped, stats.Skipped),
		),
	)

	writeJSON(w, http.StatusOK, importResponse{
		Imported: imported,
		Skipped:  stats.Skipped,
	})
}

// importSource resolves the vCard stream for an import request.
func (s *Server) importSource(r *http.Request) (io.ReadCloser, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get(config.HeaderContentType))

	if mediaType == config.MultipartMeta {
		file, _, err := r.FormFile(config.FormFieldVCF)
		if err != nil {
			return nil, errors.Wrap(err, config.ErrVCardParse)
		}
		return file, nil
	}

	var req importRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, config.MaxRequestBodySize)).Decode(&req); err != nil {
		return nil, errors.New(config.HTTPMsgBadPayload)
	}

	if req.URL == "" {
		return nil, errors.New(config.HTTPMsgBadPayload)
	}
	if s.fetcher == nil {
		return nil, errors.New(config.ErrFetcherMissing)
	}

	return s.fetcher.Fetch(r.Context(), req.URL, req.Username, req.Password)
}
