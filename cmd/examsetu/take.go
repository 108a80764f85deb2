package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/examsetu/examsetu-client/internal/attempt"
	"github.com/examsetu/examsetu-client/internal/console"
	"github.com/examsetu/examsetu-client/internal/proctor"
	"github.com/examsetu/examsetu-client/internal/session"
)

// takeAttempt loads an attempt, shows the instructions and runs the test
// screen until the attempt is submitted.
func (a *app) takeAttempt(ctx context.Context, sess *session.Session, attemptID int64) error {
	log := a.log.With().Int64("attempt_id", attemptID).Logger()

	var pc *proctor.Client
	if a.cfg.ProctorWSURL != "" {
		c, err := proctor.Dial(ctx, a.cfg.ProctorWSURL, attemptID, sess.UserID, sess.Token, a.log)
		if err != nil {
			log.Warn().Err(err).Msg("Proctor unavailable, continuing without it")
		} else {
			pc = c
			defer pc.Close()
		}
	}

	opts := attempt.Options{
		AttemptID:      attemptID,
		UserID:         sess.UserID,
		CharacterLimit: a.cfg.CharacterLimit,
		DeviceID:       a.cfg.DeviceID,
		Drafts:         a.drafts,
		Recorder:       a.journal,
		Log:            a.log,
	}
	var reporter console.ExitReporter
	if pc != nil {
		opts.Listener = pc
		reporter = pc
	}
	ctl := attempt.New(a.api, opts)

	if err := ctl.Load(ctx); err != nil {
		return fmt.Errorf("load attempt: %w", err)
	}

	console.RenderInstructions(a.out, ctl.Meta())
	if err := a.prompt.Acknowledge("I have read and understood the instructions. Start the test?"); err != nil {
		if errors.Is(err, console.ErrAborted) {
			fmt.Fprintf(a.out, "Test not started. Resume later with: examsetu take -attempt %d\n", attemptID)
			return nil
		}
		return err
	}

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	runner := console.NewRunner(ctl, attempt.NewGuard(a.cfg.GuardWarning), a.out, reporter, a.log)
	runner.Clear = a.tty

	receipt, err := runner.Run(ctx, a.prompt.Lines(ctx), interrupts)
	if err != nil {
		return err
	}
	if pc != nil {
		pc.ReportSubmitted(runner.Trigger())
	}
	log.Info().Str("status", receipt.Status).Str("trigger", string(runner.Trigger())).Msg("Attempt finished")
	fmt.Fprintf(a.out, "See your results with: examsetu results\n")
	return nil
}
