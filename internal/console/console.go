package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"methodquiz/internal/quiz"
)

const help = `Commands:
  <number>      choose a method, or a fix once fixes are shown
  r <text>      write your reasoning for the current step
  c             submit your method choice for feedback
  n             continue to the fixes, or go to the next study
  b             back to the previous study
  restart       start again from the first study
  q             quit`

// Console runs a quiz session over a line-oriented terminal.
type Console struct {
	m   *quiz.Machine
	in  *bufio.Scanner
	out io.Writer
}

func New(m *quiz.Machine, in io.Reader, out io.Writer) *Console {
	return &Console{m: m, in: bufio.NewScanner(in), out: out}
}

// Run reads commands until the input ends or the learner quits.
func (c *Console) Run(ctx context.Context) error {
	if c.m.Len() == 0 {
		c.printf("No studies loaded.\n")
		return nil
	}
	c.render()
	for {
		c.printf("> ")
		if !c.in.Scan() {
			c.printf("\n")
			return c.in.Err()
		}
		line := strings.TrimSpace(c.in.Text())
		if line == "" {
			continue
		}
		quit, err := c.handle(ctx, line)
		if err != nil {
			c.printf("! %s\n", describe(err))
		}
		if quit {
			return nil
		}
	}
}

func (c *Console) handle(ctx context.Context, line string) (bool, error) {
	cmd, arg, _ := strings.Cut(line, " ")
	switch strings.ToLower(cmd) {
	case "q", "quit", "exit":
		return true, nil
	case "h", "help", "?":
		c.printf("%s\n", help)
		return false, nil
	case "restart":
		c.m.Restart()
	case "b", "back":
		if err := c.m.Back(); err != nil {
			return false, err
		}
	case "r", "reason":
		var err error
		if c.m.Phase() == quiz.PhaseShowingFixes {
			err = c.m.SetFixReasoning(arg)
		} else {
			err = c.m.SetReasoning(arg)
		}
		if err != nil {
			return false, err
		}
		c.printf("Reasoning saved (%d characters).\n", len([]rune(strings.TrimSpace(arg))))
		return false, nil
	case "c", "confirm":
		if err := c.m.ConfirmMethod(); err != nil {
			return false, err
		}
	case "n", "next":
		if err := c.next(ctx); err != nil {
			return false, err
		}
	default:
		n, err := strconv.Atoi(cmd)
		if err != nil {
			return false, fmt.Errorf("unknown command %q, type h for help", cmd)
		}
		if c.m.Phase() == quiz.PhaseShowingFixes {
			err = c.m.SelectFix(n - 1)
		} else {
			err = c.m.SelectMethod(n - 1)
		}
		if err != nil {
			return false, err
		}
	}
	c.render()
	return false, nil
}

func (c *Console) next(ctx context.Context) error {
	if c.m.Phase() != quiz.PhaseShowingFixes {
		return c.m.Continue()
	}
	c.printf("...\n")
	out, err := c.m.Advance(ctx)
	if err != nil {
		return err
	}
	if out == quiz.OutcomeRestarted {
		c.printf("All studies done. Starting again.\n")
	}
	return nil
}

func (c *Console) render() {
	m := c.m
	if m.Phase() == quiz.PhaseReview {
		c.renderReview()
		return
	}
	st := m.Study()
	if st == nil {
		return
	}
	c.printf("\nStudy %d of %d: %s\n", m.Index()+1, m.Len(), st.Title)
	c.printf("%s\n", st.Description)
	c.printf("Independent variable: %s\nDependent variable: %s\n", st.IndependentVariable, st.DependentVariable)
	if st.CausalPathway != "" {
		c.printf("Causal pathway: %s\n", st.CausalPathway)
	}

	selected, hasMethod := m.SelectedMethod()
	c.printf("\nWhich method would you choose?\n")
	for d := range m.MethodOrder() {
		method, _ := m.MethodAt(d)
		c.printf("%s %d. %s\n", marker(hasMethod && d == selected), d+1, method.Text)
	}

	if fb, ok := m.Feedback(); ok && m.Phase() == quiz.PhaseAwaitingConfirmation {
		if fb.Correct {
			c.printf("\nCorrect. %s\n", fb.Explanation)
		} else {
			c.printf("\nNot quite. %s\nChoose another method.\n", fb.Explanation)
		}
	}

	if m.Phase() == quiz.PhaseShowingFixes {
		fix, hasFix := m.SelectedFix()
		c.printf("\nHow would you improve it?\n")
		for d := range m.FixOrder() {
			f, _ := m.FixAt(d)
			c.printf("%s %d. %s\n", marker(hasFix && d == fix), d+1, f.Text)
		}
		if hasFix && !m.IsCorrectFix(fix) {
			c.printf("That fix would not help. Try another.\n")
		}
	}
	c.printf("%s\n", c.hint())
}

func (c *Console) hint() string {
	m := c.m
	v := m.Variant()
	switch {
	case m.Phase() == quiz.PhaseShowingFixes && m.CanAdvance():
		if m.IsLast() && v.Submit {
			return "[n] submit"
		}
		if m.IsLast() {
			return "[n] restart"
		}
		return "[n] next"
	case m.Phase() == quiz.PhaseShowingFixes && v.FixReasoning:
		return fmt.Sprintf("Pick a fix and explain it with r <text> (at least %d characters).", v.MinReasoning)
	case m.Phase() == quiz.PhaseShowingFixes:
		return "Pick a fix."
	case m.CanContinue():
		return "[n] continue"
	case v.ConfirmMethod && m.Phase() == quiz.PhaseAnswering:
		return "Pick a method, then [c] to submit your choice."
	case v.MethodReasoning:
		return fmt.Sprintf("Pick a method and explain it with r <text> (at least %d characters).", v.MinReasoning)
	default:
		return "Pick a method."
	}
}

func (c *Console) renderReview() {
	r := c.m.Review()
	c.printf("\nSubmitted. Here is how others answered.\n")
	if r.FetchErr != nil {
		c.printf("(Other submissions are unavailable right now.)\n")
	}
	for i := 0; i < c.m.Len(); i++ {
		own, ok := r.Own(i)
		if !ok {
			continue
		}
		c.printf("\nStudy %d: %s\n", i+1, own.Question.Title)
		c.printf("  You: %s\n", own.Reasoning)
		peers := r.PeersFor(i)
		if len(peers) == 0 {
			c.printf("  No other answers yet.\n")
		}
		for _, p := range peers {
			c.printf("  %s: %s\n", p.Timestamp.Format("2006-01-02 15:04"), p.Response.Reasoning)
		}
	}
	c.printf("\n[restart] or [q]\n")
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func marker(on bool) string {
	if on {
		return "*"
	}
	return " "
}

func describe(err error) string {
	switch {
	case errors.Is(err, quiz.ErrSubmitFailed):
		return "Could not submit your answers. Nothing was lost; type n to try again. (" + err.Error() + ")"
	case errors.Is(err, quiz.ErrTransitionRefused):
		_, reason, _ := strings.Cut(err.Error(), ": ")
		return reason
	default:
		return err.Error()
	}
}
