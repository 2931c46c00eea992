package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/tartampluch/go-birthday-server/internal/config"
	"github.com/tartampluch/go-birthday-server/internal/engine"
	"github.com/tartampluch/go-birthday-server/internal/gift"
	"github.com/tartampluch/go-birthday-server/internal/i18n"
	"github.com/tartampluch/go-birthday-server/internal/mail"
	"github.com/tartampluch/go-birthday-server/internal/server"
	"github.com/tartampluch/go-birthday-server/internal/store"
)

// main delegates to runMain so deferred calls execute before the process
// terminates. os.Exit() does not run defers, so we must return an integer
// code first.
func main() {
	os.Exit(runMain())
}

// runMain manages the application lifecycle, argument parsing, and exit codes.
func runMain() int {
	showVersion := flag.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debugMode := flag.Bool(config.FlagDebug, false, config.FlagDescDebug)
	flag.Parse()

	if *showVersion {
		printVersion()
		return config.ExitCodeSuccess
	}

	logLevel := setupLogging(*debugMode)

	// Root context cancels on SIGINT (Ctrl+C) or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	if err := run(ctx, *debugMode, logLevel); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// run parses the environment, wires the boundary clients once and starts the
// HTTP server. A missing datastore DSN fails here, before anything listens.
func run(ctx context.Context, debugMode bool, logLevel *slog.LevelVar) error {
	conf, err := config.Parse()
	if err != nil {
		return err
	}

	// The -debug flag wins over the environment level.
	if !debugMode {
		logLevel.Set(slog.Level(conf.Logger.Level))
	}

	storeLevel := slog.LevelError
	if debugMode {
		storeLevel = slog.LevelInfo
	}

	birthdayStore, err := store.Open(conf.Storage.Database.DSN, storeLevel)
	if err != nil {
		return err
	}

	translator := i18n.New(conf.Language)

	// Gift suggestions are best-effort by contract: a provider that cannot
	// be constructed (missing key, unknown name) downgrades every suggestion
	// to the fallback text instead of blocking startup.
	var gifts gift.Provider
	completer, err := gift.NewCompleterFromConfig(ctx, conf.LLM.Provider)
	if err != nil {
		slog.Warn(config.MsgGiftFallback,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
	} else {
		gifts = gift.NewLLMProvider(completer)
	}

	sender := mail.NewSMTPSender(conf.SMTP, translator)

	srv := server.New(server.Options{
		Address:    conf.HTTP.Address,
		Store:      birthdayStore,
		Gifts:      gifts,
		Sender:     sender,
		Fetcher:    engine.NewHTTPFetcher(),
		Clock:      engine.RealClock{},
		Translator: translator,
	})

	return srv.Start(ctx)
}

// printVersion outputs the build information to stdout.
func printVersion() {
	fmt.Printf(config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger. The returned LevelVar can
// be adjusted once the environment has been parsed.
func setupLogging(debugMode bool) *slog.LevelVar {
	level := &slog.LevelVar{}
	if debugMode {
		level.Set(slog.LevelDebug)
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, opts))
	slog.SetDefault(logger)

	return level
}
