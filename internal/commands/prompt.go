package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/balkashynov/shyft/internal/models"
	"github.com/balkashynov/shyft/internal/session"
)

// Commands understood at any attempt prompt
const (
	skipWord   = ":skip"
	cancelWord = ":cancel"
)

// errSessionAborted means the user left during the shared fields
var errSessionAborted = errors.New("session aborted")

// prompter reads answers one line at a time
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// ask prints label and returns the trimmed answer. io.EOF is returned only
// when nothing was typed before the input ended.
func (p *prompter) ask(label, current string) (string, error) {
	if current != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, current)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	line, err := p.in.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	if line == "" {
		return current, nil
	}
	return line, nil
}

// confirm asks a yes/no question; an empty answer picks def
func (p *prompter) confirm(question string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	answer, err := p.ask(fmt.Sprintf("%s (%s)", question, hint), "")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// attemptForm is one task's answers, keyed by validation field name
type attemptForm struct {
	values map[string]string
}

var attemptPrompts = []struct {
	field string
	label string
}{
	{"platform_id", "Platform ID"},
	{"permalink", "Permalink"},
	{"response_1_id", "Response 1 ID"},
	{"response_2_id", "Response 2 ID"},
	{"rank", "Rank (1-6)"},
	{"justification", "Justification"},
}

func (f attemptForm) input() session.AttemptInput {
	rank, _ := models.ParseRank(f.values["rank"])
	return session.AttemptInput{
		PlatformID:    f.values["platform_id"],
		Permalink:     f.values["permalink"],
		Response1ID:   f.values["response_1_id"],
		Response2ID:   f.values["response_2_id"],
		Rank:          rank,
		Justification: f.values["justification"],
	}
}

// runLineSession drives a begun controller from line prompts. It returns
// the finalized session, or errSessionAborted when the shared fields were
// abandoned.
func runLineSession(ctrl *session.Controller, p *prompter, prefill session.SharedInput) (*session.Finalized, error) {
	shared := prefill
	var err error
	for _, q := range []struct {
		label string
		value *string
	}{
		{"Model ID", &shared.ModelID},
		{"Project ID", &shared.ProjectID},
		{"Hourly rate", &shared.Rate},
	} {
		if *q.value, err = p.ask(q.label, *q.value); err != nil {
			if abortErr := ctrl.AbortSharedFields(); abortErr != nil {
				return nil, abortErr
			}
			return nil, errSessionAborted
		}
	}
	if err := ctrl.SubmitSharedFields(shared); err != nil {
		return nil, err
	}

	fmt.Fprintf(p.out, "\nShift started. Type %s to skip a task or %s to end the session.\n", skipWord, cancelWord)
	for i, r := range models.Ranks {
		fmt.Fprintf(p.out, "  %d. %s\n", i+1, r)
	}

	for {
		n, err := ctrl.StartAttempt()
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(p.out, "\nTask %d\n", n)

		res, outcome, err := runAttempt(ctrl, p)
		if err != nil || outcome == attemptEnded {
			return res, err
		}

		another, err := p.confirm("Attempt another task?", true)
		if err != nil || !another {
			return ctrl.Finish()
		}
	}
}

// attemptOutcome is how one attempt form ended
type attemptOutcome int

const (
	attemptSubmitted attemptOutcome = iota
	attemptSkipped
	attemptEnded // the session was finalized
)

// runAttempt collects and submits one attempt
func runAttempt(ctrl *session.Controller, p *prompter) (*session.Finalized, attemptOutcome, error) {
	form := attemptForm{values: map[string]string{}}
	pending := attemptPrompts

	for {
		for k := 0; k < len(pending); k++ {
			q := pending[k]
			answer, err := p.ask(q.label, form.values[q.field])
			if err != nil {
				res, ferr := finishOnEOF(ctrl)
				return res, attemptEnded, ferr
			}

			switch answer {
			case skipWord:
				if err := ctrl.Skip(); err != nil {
					return nil, attemptEnded, err
				}
				fmt.Fprintln(p.out, "Task skipped.")
				return nil, attemptSkipped, nil

			case cancelWord:
				ok, err := p.confirm("End the session? Nothing will be saved", false)
				if err != nil {
					ok = false
				}
				res, cerr := ctrl.Cancel(ok)
				if cerr != nil {
					return nil, attemptEnded, cerr
				}
				if res != nil {
					return res, attemptEnded, nil
				}
				// Declined: ask the same field again
				k--
				continue
			}
			form.values[q.field] = answer
		}

		_, err := ctrl.Submit(form.input())
		if err == nil {
			return nil, attemptSubmitted, nil
		}
		var verr *session.ValidationError
		if !errors.As(err, &verr) {
			return nil, attemptEnded, err
		}
		fmt.Fprintf(p.out, "%v\n", verr)
		pending = promptsFrom(verr.Field)
	}
}

// finishOnEOF drops the unsubmitted attempt and saves the rest, since
// input cannot resume after it ends
func finishOnEOF(ctrl *session.Controller) (*session.Finalized, error) {
	if err := ctrl.Skip(); err != nil {
		return nil, err
	}
	return ctrl.Finish()
}

// promptsFrom returns the prompts starting at field
func promptsFrom(field string) []struct {
	field string
	label string
} {
	for i, q := range attemptPrompts {
		if q.field == field {
			return attemptPrompts[i:]
		}
	}
	return attemptPrompts
}
