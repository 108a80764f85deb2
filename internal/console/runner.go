package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/examsetu/examsetu-client/internal/attempt"
	"github.com/examsetu/examsetu-client/internal/model"
	"github.com/rs/zerolog"
)

// ExitReporter is told about every intercepted exit attempt.
type ExitReporter interface {
	ReportExit(count int)
}

const clearScreen = "\033[H\033[2J"

const submitQuestion = "Are you sure you want to submit the test? You won't be able to change your answers after submission. [y/N]"

// Countdown thresholds announced between redraws, in seconds.
var timeWarnings = map[int]string{
	300: "5 minutes remaining",
	60:  "1 minute remaining",
}

// Runner drives the test screen of one attempt.
type Runner struct {
	ctl      *attempt.Controller
	guard    *attempt.Guard
	out      io.Writer
	reporter ExitReporter
	log      zerolog.Logger

	// Tick is the countdown interval.
	Tick time.Duration
	// Clear redraws on a cleared screen.
	Clear bool

	confirming bool
	trigger    model.SubmitTrigger
}

// NewRunner creates a Runner. reporter may be nil.
func NewRunner(ctl *attempt.Controller, guard *attempt.Guard, out io.Writer, reporter ExitReporter, log zerolog.Logger) *Runner {
	return &Runner{
		ctl:      ctl,
		guard:    guard,
		out:      out,
		reporter: reporter,
		log:      log.With().Str("component", "runner").Logger(),
		Tick:     time.Second,
	}
}

// Run starts the countdown and processes input until the attempt is
// submitted. Interrupts are swallowed by the guard while the attempt runs.
func (r *Runner) Run(ctx context.Context, lines <-chan string, interrupts <-chan os.Signal) (*model.SubmitReceipt, error) {
	r.guard.Arm()
	defer r.guard.Disarm()

	timerCtx, stopTimer := context.WithCancel(ctx)
	defer stopTimer()

	ticks := make(chan attempt.TickResult, 1)
	go r.ctl.RunTimer(timerCtx, r.Tick, func(res attempt.TickResult) {
		if !res.AutoSubmitted {
			if _, ok := timeWarnings[res.Remaining]; !ok {
				return
			}
		}
		select {
		case ticks <- res:
		case <-timerCtx.Done():
		}
	})

	// Redraws once the exit warning has expired.
	redraw := make(chan struct{}, 1)
	var hideWarning *time.Timer
	defer func() {
		if hideWarning != nil {
			hideWarning.Stop()
		}
	}()

	r.render()
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case <-redraw:
			if _, visible := r.guard.Warning(); visible {
				continue
			}
			r.render()
			if r.confirming {
				fmt.Fprintln(r.out, submitQuestion)
			}

		case res := <-ticks:
			if !res.AutoSubmitted {
				fmt.Fprintln(r.out, yellow(timeWarnings[res.Remaining]))
				continue
			}
			if res.Err == nil {
				r.trigger = model.SubmitTriggerTimer
				fmt.Fprintln(r.out, "Time is up. Your test has been submitted.")
				RenderThankYou(r.out, res.Receipt)
				return res.Receipt, nil
			}
			if errors.Is(res.Err, attempt.ErrSubmitInFlight) || errors.Is(res.Err, attempt.ErrAlreadySubmitted) {
				continue
			}
			r.confirming = false
			r.render()
			fmt.Fprintf(r.out, "%s\n", red("Time is up but the submission failed: "+UserMessage(res.Err)))
			fmt.Fprintln(r.out, "Your answers are kept. Type s to try again.")

		case <-interrupts:
			if !r.guard.Intercept() {
				return nil, ErrAborted
			}
			if r.reporter != nil {
				r.reporter.ReportExit(r.guard.Intercepted())
			}
			r.log.Warn().Int("count", r.guard.Intercepted()).Msg("Exit attempt intercepted")
			r.render()
			if r.confirming {
				fmt.Fprintln(r.out, submitQuestion)
			}
			if hideWarning != nil {
				hideWarning.Stop()
			}
			hideWarning = time.AfterFunc(r.guard.Window(), func() {
				select {
				case redraw <- struct{}{}:
				default:
				}
			})

		case line, ok := <-lines:
			if !ok {
				lines = nil
				fmt.Fprintln(r.out, "Input closed. The test will be submitted when the time is up.")
				continue
			}
			if receipt := r.handle(ctx, line); receipt != nil {
				return receipt, nil
			}
		}
	}
}

// handle executes one input line and returns the receipt once submitted.
func (r *Runner) handle(ctx context.Context, line string) *model.SubmitReceipt {
	line = strings.TrimSpace(line)

	if r.confirming {
		r.confirming = false
		if !isYes(line) {
			r.render()
			fmt.Fprintln(r.out, "Submission cancelled.")
			return nil
		}
		return r.submit(ctx)
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	var err error
	switch strings.ToLower(cmd) {
	case "", "r":
	case "?", "h", "help":
		r.render()
		r.help()
		return nil
	case "p":
		err = r.ctl.Previous()
	case "n":
		err = r.ctl.SaveAndNext()
	case "m":
		err = r.ctl.MarkForReview(ctx)
	case "g":
		var n int
		if n, err = strconv.Atoi(arg); err != nil {
			err = fmt.Errorf("usage: g <question number>")
		} else {
			err = r.ctl.GoTo(n)
		}
	case "t":
		err = r.ctl.SetAnswerText(ctx, arg)
	case "s":
		if r.ctl.State() != attempt.StateInProgress {
			err = attempt.ErrNotInProgress
			break
		}
		r.confirming = true
		fmt.Fprintln(r.out, submitQuestion)
		return nil
	default:
		err = r.choose(ctx, cmd)
	}

	r.render()
	if err != nil {
		fmt.Fprintln(r.out, red(err.Error()))
	}
	return nil
}

// choose answers the current objective question by option position.
func (r *Runner) choose(ctx context.Context, cmd string) error {
	pos, err := strconv.Atoi(cmd)
	if err != nil {
		return fmt.Errorf("unknown command %q, type ? for help", cmd)
	}
	v := r.ctl.Snapshot()
	if v.Question.Type != model.QuestionTypeObjective {
		return attempt.ErrWrongQuestionType
	}
	if pos < 1 || pos > len(v.Question.Options) {
		return attempt.ErrUnknownOption
	}
	return r.ctl.SelectOption(ctx, v.Question.Options[pos-1].ID)
}

func (r *Runner) submit(ctx context.Context) *model.SubmitReceipt {
	receipt, err := r.ctl.Submit(ctx, model.SubmitTriggerManual)
	switch {
	case err == nil:
		r.trigger = model.SubmitTriggerManual
		RenderThankYou(r.out, receipt)
		return receipt
	case errors.Is(err, attempt.ErrSubmitInFlight):
		fmt.Fprintln(r.out, "Submission already in progress.")
	case errors.Is(err, attempt.ErrAlreadySubmitted):
		RenderThankYou(r.out, r.ctl.Receipt())
		return r.ctl.Receipt()
	default:
		r.render()
		fmt.Fprintln(r.out, red("Failed to submit test: "+UserMessage(err)))
		fmt.Fprintln(r.out, "Your answers are kept. Type s to try again.")
	}
	return nil
}

// Trigger reports what submitted the attempt once Run has returned a receipt.
func (r *Runner) Trigger() model.SubmitTrigger {
	return r.trigger
}

func (r *Runner) render() {
	if r.Clear {
		fmt.Fprint(r.out, clearScreen)
	}
	warning, _ := r.guard.Warning()
	RenderAttempt(r.out, r.ctl.Snapshot(), warning)
}

func (r *Runner) help() {
	fmt.Fprintln(r.out, "Commands:")
	fmt.Fprintln(r.out, "  1..n       choose an option of an objective question")
	fmt.Fprintln(r.out, "  t <text>   answer a subjective question")
	fmt.Fprintln(r.out, "  n          save and go to the next question")
	fmt.Fprintln(r.out, "  p          previous question")
	fmt.Fprintln(r.out, "  m          mark or unmark for review and go next")
	fmt.Fprintln(r.out, "  g <n>      go to question n")
	fmt.Fprintln(r.out, "  s          submit the test")
	fmt.Fprintln(r.out, "  r          redraw")
}
