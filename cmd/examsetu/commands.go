package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/examsetu/examsetu-client/internal/console"
	"github.com/examsetu/examsetu-client/internal/model"
	"github.com/examsetu/examsetu-client/internal/service"
)

var errUsage = errors.New("invalid arguments")

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%s: %w: %v", fs.Name(), errUsage, err)
	}
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := newFlagSet("login")
	email := fs.String("email", "", "portal email address")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if *email == "" {
		v, err := a.prompt.Line("Email: ")
		if err != nil {
			return err
		}
		*email = v
	}
	password, err := a.prompt.Password("Password: ")
	if err != nil {
		return err
	}

	sess, err := a.auth.Login(ctx, strings.TrimSpace(*email), password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s (%s). Session valid until %s.\n",
		sess.Name, sess.Role, sess.ExpiresAt.Local().Format("2006-01-02 15:04"))
	if !sess.IsStudent() {
		fmt.Fprintln(a.out, "Note: test taking is available to students only.")
	}
	return nil
}

func (a *app) logout(ctx context.Context, _ []string) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *app) whoami(ctx context.Context, _ []string) error {
	sess, err := a.auth.Resume(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s <%s> %s, user %d\n", sess.Name, sess.Email, sess.Role, sess.UserID)
	return nil
}

func (a *app) start(ctx context.Context, args []string) error {
	fs := newFlagSet("start")
	subject := fs.String("subject", "", "subject of the mock test")
	count := fs.Int("questions", 0, "number of questions (1-50)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	sess, err := a.auth.ResumeStudent(ctx)
	if err != nil {
		return err
	}

	if *subject == "" {
		fmt.Fprintf(a.out, "Subjects: %s\n", strings.Join(service.Subjects, ", "))
		if *subject, err = a.prompt.Line("Subject: "); err != nil {
			return err
		}
	}
	if *count == 0 {
		v, err := a.prompt.Line(fmt.Sprintf("Number of questions [%d]: ", service.DefaultQuestionCount))
		if err != nil {
			return err
		}
		if v != "" {
			if *count, err = strconv.Atoi(v); err != nil {
				return service.ErrInvalidQuestionCount
			}
		}
	}

	attemptID, err := a.mock.Start(ctx, sess.UserID, *subject, *count)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Mock test created (attempt %d).\n", attemptID)
	return a.takeAttempt(ctx, sess, attemptID)
}

func (a *app) take(ctx context.Context, args []string) error {
	fs := newFlagSet("take")
	attemptID := fs.Int64("attempt", 0, "attempt id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *attemptID <= 0 {
		return fmt.Errorf("take: %w: -attempt is required", errUsage)
	}

	sess, err := a.auth.ResumeStudent(ctx)
	if err != nil {
		return err
	}
	return a.takeAttempt(ctx, sess, *attemptID)
}

func (a *app) results(ctx context.Context, _ []string) error {
	sess, err := a.auth.ResumeStudent(ctx)
	if err != nil {
		return err
	}
	list, err := a.portal.Results(ctx, sess.UserID)
	if err != nil {
		return err
	}
	console.RenderResults(a.out, list)
	return nil
}

func (a *app) responses(ctx context.Context, args []string) error {
	fs := newFlagSet("responses")
	attemptID := fs.Int64("attempt", 0, "attempt id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *attemptID <= 0 {
		return fmt.Errorf("responses: %w: -attempt is required", errUsage)
	}

	sess, err := a.auth.ResumeStudent(ctx)
	if err != nil {
		return err
	}
	list, err := a.portal.Responses(ctx, *attemptID, sess.UserID)
	if err != nil {
		return err
	}
	console.RenderResponses(a.out, list)
	return nil
}

func (a *app) notifications(ctx context.Context, _ []string) error {
	sess, err := a.auth.ResumeStudent(ctx)
	if err != nil {
		return err
	}
	console.RenderNotifications(a.out, a.portal.Notifications(ctx, sess.UserID), time.Now())
	return nil
}

func (a *app) profile(ctx context.Context, _ []string) error {
	sess, err := a.auth.ResumeStudent(ctx)
	if err != nil {
		return err
	}
	console.RenderProfile(a.out, sess, a.portal.Profile(ctx, sess.UserID))
	return nil
}

func (a *app) photo(ctx context.Context, args []string) error {
	if _, err := a.auth.ResumeStudent(ctx); err != nil {
		return err
	}

	choice := ""
	if len(args) > 0 {
		choice = args[0]
	} else {
		for i, p := range model.ProfilePhotos {
			fmt.Fprintf(a.out, "  %d) %s\n", i+1, p)
		}
		v, err := a.prompt.Line("Choose a photo: ")
		if err != nil {
			return err
		}
		choice = v
	}
	if n, err := strconv.Atoi(choice); err == nil && n >= 1 && n <= len(model.ProfilePhotos) {
		choice = model.ProfilePhotos[n-1]
	}

	sess, err := a.auth.SetProfilePhoto(ctx, choice)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Profile photo set to %s.\n", sess.ProfilePhoto)
	return nil
}

func (a *app) history(ctx context.Context, args []string) error {
	fs := newFlagSet("history")
	limit := fs.Int("limit", 20, "number of entries")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	sess, err := a.auth.Resume(ctx)
	if err != nil {
		return err
	}
	entries, err := a.journal.History(ctx, sess.UserID, *limit)
	if err != nil {
		return err
	}
	console.RenderHistory(a.out, entries)
	return nil
}
