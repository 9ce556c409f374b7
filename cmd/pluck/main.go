package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"

	apppkg "github.com/kk-code-lab/pluck/internal/app"
	"github.com/kk-code-lab/pluck/internal/config"
	"github.com/kk-code-lab/pluck/internal/logging"
)

func main() {
	// UTF-8 fallback so non-ASCII paths draw correctly on minimal terminals.
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env: %v\n", err)
	}

	cfg, err := config.Load(config.RootFromArgs(os.Args[1:]), os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logger, closer := logging.New(cfg.LogLevel, cfg.LogFile)
	defer func() {
		_ = closer.Close()
	}()
	logger.Debug().Str("root", cfg.Root).Msg("starting")

	app, err := apppkg.NewApplication(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing application: %v\n", err)
		os.Exit(1)
	}

	app.Run()
	_ = app.Close()

	if outcome := app.State().LastOutcome; outcome != nil {
		logger.Info().Str("path", outcome.Path).Stringer("outcome", outcome.Outcome).Msg("done")
	}
}
