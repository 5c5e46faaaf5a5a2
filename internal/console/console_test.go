package console

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"methodquiz/internal/model"
	"methodquiz/internal/quiz"
)

func studies() []model.Study {
	correctFirst := [model.FixCount]model.Fix{{Text: "blind the scorer", IsCorrect: true}, {Text: "add more noise"}}
	return []model.Study{
		{
			Title: "Sleep and recall",
			Methods: []model.Method{
				{Text: "Test in the morning", Explanation: "time of day confounds"},
				{Text: "Randomise sleep", IsCorrect: true, Explanation: "isolates sleep", Fixes: correctFirst},
			},
		},
		{
			Title: "Caffeine",
			Methods: []model.Method{
				{Text: "Counterbalance", IsCorrect: true, Fixes: correctFirst},
			},
		},
	}
}

func machine(t *testing.T, tag string, collab quiz.Collaborator) *quiz.Machine {
	t.Helper()
	v, err := quiz.NewCatalog(quiz.DefaultVariants()).Lookup(tag)
	if err != nil {
		t.Fatal(err)
	}
	m := quiz.NewMachine(quiz.NewStore(studies()), v, collab)
	m.SetShuffler(quiz.IdentityShuffler{})
	return m
}

func run(t *testing.T, m *quiz.Machine, script ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(script, "\n") + "\n")
	if err := New(m, in, &out).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func TestClassicSessionLoops(t *testing.T) {
	m := machine(t, "classic", nil)
	out := run(t, m,
		"1", "c", // wrong, confirmed
		"2", "c", "n", // corrected
		"2", "1", "n", // wrong fix then right fix
		"1", "c", "n", "1", "n",
	)

	for _, want := range []string{
		"Study 1 of 2: Sleep and recall",
		"Not quite. time of day confounds",
		"Correct. isolates sleep",
		"That fix would not help",
		"Study 2 of 2: Caffeine",
		"All studies done",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output is missing %q\n%s", want, out)
		}
	}
	if m.Index() != 0 || len(m.Responses()) != 0 {
		t.Errorf("session did not restart: index %d", m.Index())
	}
}

func TestReasoningIsRequired(t *testing.T) {
	m := machine(t, "reasoned", nil)
	out := run(t, m, "2", "r too short", "n", "r long enough now", "n", "q")

	if !strings.Contains(out, "reasoning needs at least 10 characters") {
		t.Errorf("short reasoning not reported\n%s", out)
	}
	if m.Phase() != quiz.PhaseShowingFixes {
		t.Errorf("phase = %s", m.Phase())
	}
}

func TestBackAndUnknownCommands(t *testing.T) {
	m := machine(t, "reasoned", nil)
	out := run(t, m, "b", "dance", "help", "2", "r because it isolates", "n", "1", "r scorer bias removed", "n", "b")

	if !strings.Contains(out, "cannot go back") {
		t.Errorf("refused back not reported\n%s", out)
	}
	if !strings.Contains(out, `unknown command "dance"`) || !strings.Contains(out, "Commands:") {
		t.Errorf("help output missing\n%s", out)
	}
	if m.Index() != 0 {
		t.Errorf("index = %d after back", m.Index())
	}
	if _, ok := m.SelectedMethod(); ok {
		t.Error("selection kept after back")
	}
}

type flakyCollaborator struct {
	failures int
	calls    int
}

func (f *flakyCollaborator) Submit(ctx context.Context, quizType string, responses []model.Response) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("status 500")
	}
	return nil
}

func (f *flakyCollaborator) FetchRecent(ctx context.Context, quizType string) ([]model.Submission, error) {
	return []model.Submission{{ID: "peer", Responses: []model.Response{{QuestionIndex: 0, Reasoning: "peer thought"}}}}, nil
}

func TestSubmissionRetryFromConsole(t *testing.T) {
	collab := &flakyCollaborator{failures: 1}
	m := machine(t, "peer-review", collab)
	out := run(t, m,
		"2", "r because it isolates", "n", "1", "r scorer bias removed", "n",
		"1", "r counterbalancing works", "n", "1", "r scorer bias removed",
		"n", "n",
	)

	if !strings.Contains(out, "Could not submit your answers. Nothing was lost") {
		t.Errorf("failure not reported\n%s", out)
	}
	if !strings.Contains(out, "Submitted.") || !strings.Contains(out, "peer thought") {
		t.Errorf("review not shown\n%s", out)
	}
	if collab.calls != 2 || m.Phase() != quiz.PhaseReview {
		t.Errorf("calls = %d phase = %s", collab.calls, m.Phase())
	}
}

func TestEmptyStore(t *testing.T) {
	v, _ := quiz.NewCatalog(quiz.DefaultVariants()).Lookup("classic")
	var out bytes.Buffer
	if err := New(quiz.NewMachine(quiz.NewStore(nil), v, nil), strings.NewReader(""), &out).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No studies loaded") {
		t.Errorf("output = %q", out.String())
	}
}
