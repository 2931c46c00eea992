package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/tartampluch/go-birthday-server/internal/config"
	"github.com/tartampluch/go-birthday-server/internal/engine"
	"github.com/tartampluch/go-birthday-server/internal/gift"
	"github.com/tartampluch/go-birthday-server/internal/store"
)

type birthdayResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Date            string    `json:"date"`
	Relation        string    `json:"relation,omitempty"`
	Interests       []string  `json:"interests"`
	Email           string    `json:"email,omitempty"`
	Notified        bool      `json:"notified"`
	GiftSuggestions string    `json:"giftSuggestions,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type createBirthdayRequest struct {
	Name      string   `json:"name"`
	Date      string   `json:"date"`
	Relation  string   `json:"relation"`
	Interests []string `json:"interests"`
	Email     string   `json:"email"`
}

type sendEmailRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type importRequest struct {
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type importResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

func toResponse(b store.Birthday) birthdayResponse {
	interests := b.Interests
	if interests == nil {
		interests = []string{}
	}
	return birthdayResponse{
		ID:              b.ID,
		Name:            b.Name,
		Date:            b.Date.Format(config.DateFormatFullDash),
		Relation:        b.Relation,
		Interests:       interests,
		Email:           b.Email,
		Notified:        b.Notified,
		GiftSuggestions: b.GiftSuggestions,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set(config.HeaderContentType, config.MimeApplicationJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(config.HeaderContentType, config.MimeTextPlain)
	if _, err := io.WriteString(w, config.HTTPMsgRunning); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	birthdays, err := s.store.List(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "could not list birthdays", slog.Any(config.LogKeyError, errors.WithStack(err)))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: config.HTTPMsgInternalErr})
		return
	}

	if r.URL.Query().Get(config.QuerySort) == config.SortUpcoming {
		engine.SortUpcoming(birthdays, s.clock.Now(), func(b store.Birthday) time.Time {
			return b.Date
		})
	}

	res := make([]birthdayResponse, 0, len(birthdays))
	for _, b := range birthdays {
		res = append(res, toResponse(b))
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createBirthdayRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, config.MaxRequestBodySize)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: config.HTTPMsgBadPayload})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: config.HTTPMsgNameRequired})
		return
	}
	if req.Date == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: config.HTTPMsgDateRequired})
		return
	}

	birthDate, yearKnown, err := engine.ParseBirthDate(req.Date)
	if err != nil || !yearKnown {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: config.HTTPMsgDateInvalid})
		return
	}

	now := s.clock.Now()
	age := engine.Age(birthDate, now)
	daysRemaining := engine.DaysUntilNextOccurrence(birthDate, now)

	// Best-effort: a provider failure degrades to the fallback text, it never
	// aborts record creation.
	suggestions := gift.TryGenerate(ctx, s.gifts, gift.Input{
		Name:          req.Name,
		Age:           age,
		DaysRemaining: daysRemaining,
		Interests:     req.Interests,
	})

	birthday := store.Birthday{
		Name:            req.Name,
		Date:            birthDate,
		Relation:        req.Relation,
		Interests:       req.Interests,
		Email:           req.Email,
		GiftSuggestions: suggestions,
	}

	if err := s.store.Create(ctx, &birthday); err != nil {
		slog.ErrorContext(ctx, config.HTTPMsgAddFailed, slog.Any(config.LogKeyError, errors.WithStack(err)))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: config.HTTPMsgAddFailed})
		return
	}

	slog.InfoContext(ctx, config.MsgRecordCreated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyID, birthday.ID,
		config.LogKeyName, birthday.Name,
		config.LogKeyDays, daysRemaining,
	)

	writeJSON(w, http.StatusCreated, toResponse(birthday))
}

func (s *Server) handleSendEmail(w http.ResponseWriter, r *http.Request) {
	var req sendEmailRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, config.MaxRequestBodySize)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: config.HTTPMsgBadPayload})
		return
	}

	if req.Email == "" {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: config.HTTPMsgEmailRequired})
		return
	}

	if err := s.sender.SendGreeting(req.Email, req.Name); err != nil {
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: config.HTTPMsgEmailFailed})
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: config.HTTPMsgEmailSent})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue(config.PathParamID)

	if err := s.store.DeleteByID(ctx, id); err != nil {
		slog.ErrorContext(ctx, "could not delete birthday", slog.Any(config.LogKeyError, errors.WithStack(err)))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: config.HTTPMsgInternalErr})
		return
	}

	slog.InfoContext(ctx, config.MsgRecordDeleted,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyID, id,
	)

	writeJSON(w, http.StatusOK, messageResponse{Message: config.HTTPMsgDeleted})
}
