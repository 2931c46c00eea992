package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/cors"
	sloghttp "github.com/samber/slog-http"
	"github.com/tartampluch/go-birthday-server/internal/config"
	"github.com/tartampluch/go-birthday-server/internal/engine"
	"github.com/tartampluch/go-birthday-server/internal/gift"
	"github.com/tartampluch/go-birthday-server/internal/i18n"
	"github.com/tartampluch/go-birthday-server/internal/mail"
	"github.com/tartampluch/go-birthday-server/internal/store"
)

// Server exposes the birthday CRUD API over HTTP. The boundary clients
// (store, gift provider, mail sender, vCard fetcher) are injected once at
// construction and never mutated.
type Server struct {
	Address string

	store    store.Store
	gifts    gift.Provider
	sender   mail.Sender
	fetcher  engine.VCardFetcher
	clock    engine.Clock
	calendar *engine.CalendarBuilder

	handler http.Handler
}

// Options collects the collaborators of the server.
type Options struct {
	Address    string
	Store      store.Store
	Gifts      gift.Provider
	Sender     mail.Sender
	Fetcher    engine.VCardFetcher
	Clock      engine.Clock
	Translator *i18n.Translator
}

// New assembles the routing table and middleware chain.
func New(opts Options) *Server {
	clock := opts.Clock
	if clock == nil {
		clock = engine.RealClock{}
	}

	s := &Server{
		Address: opts.Address,
		store:   opts.Store,
		gifts:   opts.Gifts,
		sender:  opts.Sender,
		fetcher: opts.Fetcher,
		clock:   clock,
	}

	var formatSummary func(name string, age int, yearKnown bool) string
	if opts.Translator != nil {
		formatSummary = opts.Translator.FormatSummary
	}
	s.calendar = &engine.CalendarBuilder{
		Clock:         clock,
		FormatSummary: formatSummary,
	}

	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteRoot, s.handleRoot)
	mux.HandleFunc(config.RouteList, s.handleList)
	mux.HandleFunc(config.RouteCreate, s.handleCreate)
	mux.HandleFunc(config.RouteSendEmail, s.handleSendEmail)
	mux.HandleFunc(config.RouteDelete, s.handleDelete)
	mux.HandleFunc(config.RouteCalendar, s.handleCalendar)
	mux.HandleFunc(config.RouteImport, s.handleImport)

	logMiddleware := sloghttp.New(slog.Default())

	s.handler = cors.AllowAll().Handler(logMiddleware(recoverMiddleware(mux)))

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Start initializes the HTTP server and blocks until the context is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	if s.Address == "" {
		return errors.New(config.ErrAddressRequired)
	}

	srv := &http.Server{
		Addr:         s.Address,
		Handler:      s.handler,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, 1)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyAddress, s.Address,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// recoverMiddleware maps handler panics to a 500 response instead of killing
// the process.
func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error(config.MsgPanicRecover,
					config.LogKeyComponent, config.CompServer,
					config.LogKeyValue, fmt.Sprintf("%v", rec),
					config.LogKeyURL, r.URL.Path,
				)
				http.Error(w, config.HTTPMsgInternalErr, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
