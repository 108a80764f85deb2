package console

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/examsetu/examsetu-client/internal/attempt"
	"github.com/examsetu/examsetu-client/internal/model"
	"github.com/examsetu/examsetu-client/internal/session"
	"github.com/fatih/color"
)

var (
	bold    = color.New(color.Bold).SprintFunc()
	faint   = color.New(color.Faint).SprintFunc()
	green   = color.New(color.FgGreen).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	red     = color.New(color.FgRed, color.Bold).SprintFunc()
	divider = strings.Repeat("-", 60)
)

// Expected result time shown after a submission.
const resultETA = "Within 1-2 minutes"

// RenderInstructions prints the instructions shown before the timer starts.
func RenderInstructions(w io.Writer, meta attempt.Meta) {
	fmt.Fprintln(w, bold("INSTRUCTIONS"))
	fmt.Fprintln(w, divider)
	fmt.Fprintf(w, "Subject            : %s\n", meta.Subject)
	fmt.Fprintf(w, "Number of questions: %d\n", meta.TotalQuestions)
	fmt.Fprintf(w, "Duration           : %s\n", FormatDuration(meta.DurationMin))
	fmt.Fprintf(w, "Negative marking   : No\n")
	fmt.Fprintln(w, divider)
	fmt.Fprintln(w, "1. The timer starts once you begin and cannot be paused.")
	fmt.Fprintln(w, "2. The test is submitted automatically when the time is up.")
	fmt.Fprintln(w, "3. Use Save & Next to store an answer and move on.")
	fmt.Fprintln(w, "4. Questions marked for review are still submitted if answered.")
	fmt.Fprintln(w, "5. Leaving the test is not possible while it is running.")
	fmt.Fprintln(w, divider)
}

// RenderAttempt prints the whole test screen.
func RenderAttempt(w io.Writer, v attempt.View, warning string) {
	clock := attempt.FormatClock(v.Remaining)
	if v.Remaining <= 60 {
		clock = red(clock)
	} else if v.Remaining <= 300 {
		clock = yellow(clock)
	}

	fmt.Fprintf(w, "%s  %s Mock Test%s%s\n", bold("ExamSetu"), v.Meta.Subject, strings.Repeat(" ", 8), clock)
	fmt.Fprintf(w, "Progress: %d%%   Attempted : %d/%d   Remaining : %d\n",
		v.Progress, v.AnsweredCount, v.Total, v.Total-v.AnsweredCount)
	if warning != "" {
		fmt.Fprintln(w, red("! "+warning))
	}
	fmt.Fprintln(w, divider)

	if v.Total == 0 {
		fmt.Fprintln(w, "No questions loaded.")
		return
	}

	q := v.Question
	header := fmt.Sprintf("Question %d of %d", v.Current, v.Total)
	if v.Statuses[v.Current-1] == attempt.StatusMarked {
		header += "  " + yellow("[Marked for review]")
	}
	fmt.Fprintln(w, bold(header))
	fmt.Fprintln(w, q.Text)
	fmt.Fprintln(w)

	switch q.Type {
	case model.QuestionTypeObjective:
		for i, o := range q.Options {
			mark := " "
			if v.Answer.SelectedOptionID != nil && *v.Answer.SelectedOptionID == o.ID {
				mark = green("*")
			}
			fmt.Fprintf(w, " %s(%d) %s\n", mark, i+1, o.Text)
		}
	default:
		text := ""
		if v.Answer.AnswerText != nil {
			text = *v.Answer.AnswerText
		}
		fmt.Fprintf(w, "Your answer (%d/%d characters):\n", len([]rune(text)), q.CharacterLimit)
		if text == "" {
			fmt.Fprintln(w, faint("  (empty)"))
		} else {
			fmt.Fprintf(w, "  %s\n", text)
		}
	}
	fmt.Fprintln(w, divider)

	renderPalette(w, v)
	fmt.Fprintln(w, divider)
	renderActions(w, v)
}

func renderPalette(w io.Writer, v attempt.View) {
	var b strings.Builder
	for i, st := range v.Statuses {
		n := i + 1
		cell := fmt.Sprintf("%2d%s", n, statusSymbol(st))
		if n == v.Current {
			cell = "[" + cell + "]"
		} else {
			cell = " " + cell + " "
		}
		b.WriteString(cell)
		if n%10 == 0 && n != len(v.Statuses) {
			b.WriteString("\n")
		}
	}
	fmt.Fprintln(w, b.String())
	fmt.Fprintf(w, "%s Answered  %s Marked for review  %s Not Attempted\n",
		statusSymbol(attempt.StatusAnswered), statusSymbol(attempt.StatusMarked), statusSymbol(attempt.StatusNotAttempted))
}

func statusSymbol(st attempt.QuestionStatus) string {
	switch st {
	case attempt.StatusAnswered:
		return green("+")
	case attempt.StatusMarked:
		return yellow("?")
	default:
		return faint(".")
	}
}

func renderActions(w io.Writer, v attempt.View) {
	var actions []string
	if v.Question.Type == model.QuestionTypeObjective {
		actions = append(actions, "[1-"+fmt.Sprint(len(v.Question.Options))+"] Choose")
	} else {
		actions = append(actions, "[t text] Answer")
	}
	if v.CanGoPrevious {
		actions = append(actions, "[p] Previous")
	}
	if v.CanSaveAndNext {
		actions = append(actions, "[n] "+v.SaveLabel)
	} else {
		actions = append(actions, faint("[n] "+v.SaveLabel))
	}
	actions = append(actions, "[m] Mark for review", "[g N] Go to", "[s] Submit", "[?] Help")
	fmt.Fprintln(w, strings.Join(actions, "  "))
}

// RenderThankYou prints the screen shown after a successful submission.
func RenderThankYou(w io.Writer, receipt *model.SubmitReceipt) {
	fmt.Fprintln(w, divider)
	fmt.Fprintln(w, green(bold("THANK YOU")))
	fmt.Fprintln(w, "Test has been submitted successfully")
	if receipt != nil && receipt.Message != "" {
		fmt.Fprintln(w, receipt.Message)
	}
	fmt.Fprintf(w, "Expected Result time : %s\n", bold(resultETA))
	fmt.Fprintln(w, divider)
}

// RenderResults prints the result summaries as a table.
func RenderResults(w io.Writer, results []model.ResultSummary) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results yet.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ATTEMPT\tSUBJECT\tTYPE\tDATE\tSCORE\tPERCENT\tTIME TAKEN\tSTATUS")
	for _, r := range results {
		attemptID := "-"
		if r.AttemptID != nil {
			attemptID = fmt.Sprint(*r.AttemptID)
		}
		status := "In Progress"
		if r.Published {
			status = "Published"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s/%s\t%s%%\t%s\t%s\n",
			attemptID,
			NormalizeSubject(r.Subject),
			TypeLabel(r.TestType),
			r.Date.Format("2006-01-02"),
			FormatMark(r.ObtainedMarks), FormatMark(r.TotalMarks),
			FormatMark(r.Percentage),
			FormatTimeTaken(r.TimeTakenSec, r.DurationMin),
			status,
		)
	}
	tw.Flush()
}

// RenderResponses prints the graded answers of an attempt.
func RenderResponses(w io.Writer, responses []model.QuestionResponse) {
	if len(responses) == 0 {
		fmt.Fprintln(w, "No responses recorded for this attempt.")
		return
	}
	for _, r := range responses {
		fmt.Fprintf(w, "%s %s\n", bold(fmt.Sprintf("Q%d.", r.OrderNo)), r.QuestionText)
		fmt.Fprintf(w, "  Your answer   : %s\n", orDefault(&r.StudentAnswer, "-"))
		fmt.Fprintf(w, "  Correct answer: %s\n", orDefault(&r.CorrectAnswer, "-"))
		fmt.Fprintf(w, "  Marks         : %s/%s\n", FormatOptionalMark(r.MarksObtained), FormatOptionalMark(r.Marks))
		if r.QuestionType != "MCQ" && r.SimilarityScore != nil {
			fmt.Fprintf(w, "  Similarity    : %s\n", FormatMark(*r.SimilarityScore))
		}
		fmt.Fprintln(w)
	}
}

// RenderNotifications prints notifications with their relative age.
func RenderNotifications(w io.Writer, list []model.Notification, now time.Time) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No notifications.")
		return
	}
	for _, n := range list {
		age := ""
		if n.CreatedAt != nil {
			age = faint(" (" + FormatNotificationTime(*n.CreatedAt, now) + ")")
		}
		fmt.Fprintf(w, "%s%s\n  %s\n", bold(n.Title), age, n.Message)
	}
}

// RenderProfile prints the session user and the optional profile fields.
func RenderProfile(w io.Writer, s *session.Session, p *model.StudentProfile) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Name\t%s\n", s.Name)
	fmt.Fprintf(tw, "Email\t%s\n", s.Email)
	fmt.Fprintf(tw, "Role\t%s\n", s.Role)
	fmt.Fprintf(tw, "Class\t%s\n", orDefault(p.ClassName, "-"))
	fmt.Fprintf(tw, "Section\t%s\n", orDefault(p.Section, "-"))
	fmt.Fprintf(tw, "Roll No\t%s\n", orDefault(p.RollNo, "-"))
	fmt.Fprintf(tw, "Admission Date\t%s\n", orDefault(p.AdmissionDate, "-"))
	fmt.Fprintf(tw, "Date of Birth\t%s\n", orDefault(p.DateOfBirth, "-"))
	fmt.Fprintf(tw, "Gender\t%s\n", orDefault(p.Gender, "-"))
	fmt.Fprintf(tw, "Guardian\t%s\n", orDefault(p.GuardianName, "-"))
	fmt.Fprintf(tw, "Profile Photo\t%s\n", orDefault(&s.ProfilePhoto, "-"))
	fmt.Fprintf(tw, "Session Expires\t%s\n", s.ExpiresAt.Local().Format("2006-01-02 15:04"))
	tw.Flush()
}

// RenderHistory prints the local submission journal.
func RenderHistory(w io.Writer, entries []model.SubmissionEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No submissions recorded on this device.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tATTEMPT\tTRIGGER\tSTATUS\tANSWERED\tERROR")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%d/%d\t%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			e.AttemptID, e.Trigger, e.Status,
			e.AnsweredCount, e.TotalQuestions, orDefault(&e.Error, "-"))
	}
	tw.Flush()
}
