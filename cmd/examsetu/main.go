package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/examsetu/examsetu-client/internal/config"
	"github.com/examsetu/examsetu-client/internal/logger"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	var logOut io.Writer = os.Stderr
	if cfg.LogFile != "" {
		f, err := logger.OpenFile(cfg.LogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, logOut)

	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(2)
	}

	// SIGTERM ends the process; SIGINT is owned by the attempt guard while a
	// test runs.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	log.Debug().
		Str("api", cfg.APIBaseURL).
		Str("device", cfg.DeviceID).
		Str("command", os.Args[1]).
		Msg("Starting ExamSetu client")

	a, err := newApp(ctx, cfg, log, os.Stdin, os.Stdout)
	if err != nil {
		log.Error().Err(err).Msg("Startup failed")
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}

	code := a.run(ctx, os.Args[1], os.Args[2:])
	a.close()
	os.Exit(code)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: examsetu <command> [flags]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  login          log in to the portal")
	fmt.Fprintln(w, "  logout         end the session on this device")
	fmt.Fprintln(w, "  whoami         show the logged in user")
	fmt.Fprintln(w, "  start          configure and start a mock test")
	fmt.Fprintln(w, "  take           resume or take an existing attempt")
	fmt.Fprintln(w, "  results        list your results")
	fmt.Fprintln(w, "  responses      review the answers of an attempt")
	fmt.Fprintln(w, "  notifications  show notifications")
	fmt.Fprintln(w, "  profile        show your profile")
	fmt.Fprintln(w, "  photo          choose a profile photo")
	fmt.Fprintln(w, "  history        list submissions made on this device")
}
