package quiz

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"methodquiz/internal/model"
)

var (
	ErrTransitionRefused = errors.New("transition refused")
	ErrSubmitFailed      = errors.New("submission failed")
)

// Phase is the single state of a quiz session.
type Phase int

const (
	PhaseAnswering Phase = iota
	PhaseAwaitingConfirmation
	PhaseShowingFixes
	PhaseReview
)

func (p Phase) String() string {
	switch p {
	case PhaseAnswering:
		return "answering"
	case PhaseAwaitingConfirmation:
		return "awaiting-confirmation"
	case PhaseShowingFixes:
		return "showing-fixes"
	case PhaseReview:
		return "review"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Outcome says where Advance took the session.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeNext
	OutcomeRestarted
	OutcomeReview
)

// Feedback is shown once a method choice is confirmed.
type Feedback struct {
	Correct     bool
	Explanation string
}

const noSelection = -1

// Machine drives one learner through the studies. It is not safe for
// concurrent use; a single caller owns it.
type Machine struct {
	store    *Store
	variant  Variant
	shuffler Shuffler
	collab   Collaborator
	now      func() time.Time

	phase        Phase
	index        int
	methodOrder  Order
	fixOrder     Order
	method       int
	fix          int
	reasoning    string
	fixReasoning string
	responses    []model.Response
	review       *Review
}

// NewMachine starts a session on the first study. collab may be nil for
// variants that never submit.
func NewMachine(store *Store, variant Variant, collab Collaborator) *Machine {
	variant = variant.Normalize()
	m := &Machine{
		store:    store,
		variant:  variant,
		shuffler: NewShuffler(variant.Shuffle),
		collab:   collab,
		now:      time.Now,
	}
	m.reset()
	return m
}

// SetShuffler replaces the ordering strategy and reorders the current study.
func (m *Machine) SetShuffler(s Shuffler) {
	m.shuffler = s
	m.enterStudy(m.index)
}

// SetClock overrides the time source used to stamp responses
func (m *Machine) SetClock(now func() time.Time) {
	m.now = now
}

func (m *Machine) Variant() Variant { return m.variant }
func (m *Machine) Phase() Phase     { return m.phase }
func (m *Machine) Index() int       { return m.index }
func (m *Machine) Len() int         { return m.store.Len() }

// IsLast reports whether the current study is the final one.
func (m *Machine) IsLast() bool { return m.index >= m.store.Len()-1 }

// Study returns the current study, or nil when the store is empty.
func (m *Machine) Study() *model.Study { return m.store.At(m.index) }

func (m *Machine) MethodOrder() Order { return append(Order(nil), m.methodOrder...) }

// FixOrder is empty until the fix step is entered.
func (m *Machine) FixOrder() Order { return append(Order(nil), m.fixOrder...) }

// SelectedMethod returns the selected display position.
func (m *Machine) SelectedMethod() (int, bool) { return m.method, m.method != noSelection }

// SelectedFix returns the selected display position.
func (m *Machine) SelectedFix() (int, bool) { return m.fix, m.fix != noSelection }

func (m *Machine) Reasoning() string    { return m.reasoning }
func (m *Machine) FixReasoning() string { return m.fixReasoning }

// Responses returns a copy of the responses recorded so far.
func (m *Machine) Responses() []model.Response {
	return append([]model.Response(nil), m.responses...)
}

// Review is nil until the session is submitted.
func (m *Machine) Review() *Review { return m.review }

// MethodAt returns the method shown at a display position.
func (m *Machine) MethodAt(display int) (model.Method, bool) {
	c, ok := m.methodOrder.Canonical(display)
	if !ok {
		return model.Method{}, false
	}
	return m.Study().Method(c)
}

// FixAt returns the fix shown at a display position of the selected method.
func (m *Machine) FixAt(display int) (model.Fix, bool) {
	method, ok := m.MethodAt(m.method)
	if !ok {
		return model.Fix{}, false
	}
	c, ok := m.fixOrder.Canonical(display)
	if !ok {
		return model.Fix{}, false
	}
	return method.Fix(c)
}

// IsCorrectMethod reports whether the method shown at display is the correct one.
func (m *Machine) IsCorrectMethod(display int) bool {
	c, ok := m.methodOrder.Canonical(display)
	if !ok {
		return false
	}
	return MethodCorrect(m.Study(), c)
}

// IsCorrectFix resolves display through the fix order before checking the
// canonical flag of the selected method's fix.
func (m *Machine) IsCorrectFix(display int) bool {
	method, ok := m.MethodAt(m.method)
	if !ok {
		return false
	}
	c, ok := m.fixOrder.Canonical(display)
	if !ok {
		return false
	}
	return FixCorrect(&method, c)
}

// Feedback is available while awaiting confirmation and afterwards on the fix step.
func (m *Machine) Feedback() (Feedback, bool) {
	if m.phase != PhaseAwaitingConfirmation && m.phase != PhaseShowingFixes {
		return Feedback{}, false
	}
	method, ok := m.MethodAt(m.method)
	if !ok {
		return Feedback{}, false
	}
	return Feedback{Correct: method.IsCorrect, Explanation: method.Explanation}, true
}

// SelectMethod picks a method by display position. A wrong confirmed choice
// may be replaced, which returns the session to answering.
func (m *Machine) SelectMethod(display int) error {
	switch m.phase {
	case PhaseAnswering:
	case PhaseAwaitingConfirmation:
		if m.IsCorrectMethod(m.method) {
			return refuse("confirmed method is already correct")
		}
	default:
		return refuse("method selection is closed in %s", m.phase)
	}
	if _, ok := m.methodOrder.Canonical(display); !ok {
		return refuse("method %d out of range", display)
	}
	m.method = display
	m.phase = PhaseAnswering
	m.clearFixStep()
	return nil
}

func (m *Machine) SetReasoning(text string) error {
	if m.phase != PhaseAnswering && m.phase != PhaseAwaitingConfirmation {
		return refuse("reasoning is closed in %s", m.phase)
	}
	m.reasoning = text
	return nil
}

func (m *Machine) SetFixReasoning(text string) error {
	if m.phase != PhaseShowingFixes {
		return refuse("fix reasoning is closed in %s", m.phase)
	}
	m.fixReasoning = text
	return nil
}

// ConfirmMethod submits the method choice for feedback.
func (m *Machine) ConfirmMethod() error {
	if !m.variant.ConfirmMethod {
		return refuse("variant %s has no confirmation step", m.variant.Tag)
	}
	if m.phase != PhaseAnswering {
		return refuse("cannot confirm in %s", m.phase)
	}
	if m.method == noSelection {
		return refuse("no method selected")
	}
	m.phase = PhaseAwaitingConfirmation
	return nil
}

// CanContinue reports whether Continue would be accepted.
func (m *Machine) CanContinue() bool {
	return m.continueGuard() == nil
}

func (m *Machine) continueGuard() error {
	want := PhaseAnswering
	if m.variant.ConfirmMethod {
		want = PhaseAwaitingConfirmation
	}
	if m.phase != want {
		return refuse("cannot continue in %s", m.phase)
	}
	if m.method == noSelection {
		return refuse("no method selected")
	}
	if !m.IsCorrectMethod(m.method) {
		return refuse("selected method is not correct")
	}
	if m.variant.MethodReasoning && model.ReasoningLength(m.reasoning) < m.variant.MinReasoning {
		return refuse("reasoning needs at least %d characters", m.variant.MinReasoning)
	}
	return nil
}

// Continue moves from the method step to the fix step.
func (m *Machine) Continue() error {
	if err := m.continueGuard(); err != nil {
		return err
	}
	m.fixOrder = m.shuffler.Order(model.FixCount, m.index)
	m.fix = noSelection
	m.fixReasoning = ""
	m.phase = PhaseShowingFixes
	return nil
}

// SelectFix picks a fix by display position.
func (m *Machine) SelectFix(display int) error {
	if m.phase != PhaseShowingFixes {
		return refuse("fix selection is closed in %s", m.phase)
	}
	if _, ok := m.fixOrder.Canonical(display); !ok {
		return refuse("fix %d out of range", display)
	}
	m.fix = display
	return nil
}

// CanAdvance reports whether Advance would pass its guard.
func (m *Machine) CanAdvance() bool {
	return m.advanceGuard() == nil
}

func (m *Machine) advanceGuard() error {
	if m.phase != PhaseShowingFixes {
		return refuse("cannot advance in %s", m.phase)
	}
	if m.fix == noSelection {
		return refuse("no fix selected")
	}
	if !m.IsCorrectFix(m.fix) {
		return refuse("selected fix is not correct")
	}
	if m.variant.FixReasoning && model.ReasoningLength(m.fixReasoning) < m.variant.MinReasoning {
		return refuse("fix reasoning needs at least %d characters", m.variant.MinReasoning)
	}
	return nil
}

// Advance records the current response and moves on. After the last study
// the session either restarts or, for submitting variants, sends every
// response and opens the review. A failed submission leaves the session
// untouched so the same call can be retried.
func (m *Machine) Advance(ctx context.Context) (Outcome, error) {
	if err := m.advanceGuard(); err != nil {
		return OutcomeNone, err
	}
	resp := m.currentResponse()

	if !m.IsLast() {
		m.responses = append(m.responses, resp)
		m.enterStudy(m.index + 1)
		return OutcomeNext, nil
	}

	if !m.variant.Submit {
		m.reset()
		return OutcomeRestarted, nil
	}

	all := make([]model.Response, 0, len(m.responses)+1)
	all = append(all, m.responses...)
	all = append(all, resp)
	batch := latestPerQuestion(all)

	if err := m.submit(ctx, batch); err != nil {
		return OutcomeNone, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}
	m.responses = all

	review := &Review{Responses: batch}
	peers, err := m.fetch(ctx)
	if err != nil {
		review.FetchErr = err
	} else {
		review.Peers = peers
	}
	m.review = review
	m.phase = PhaseReview
	return OutcomeReview, nil
}

// latestPerQuestion keeps the last response recorded for each study, in
// study order. Earlier answers superseded by Back stay in the local log only.
func latestPerQuestion(responses []model.Response) []model.Response {
	latest := make(map[int]model.Response, len(responses))
	for _, r := range responses {
		latest[r.QuestionIndex] = r
	}
	out := make([]model.Response, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionIndex < out[j].QuestionIndex })
	return out
}

func (m *Machine) submit(ctx context.Context, batch []model.Response) error {
	if m.collab == nil {
		return errors.New("no submission collaborator configured")
	}
	ctx, cancel := context.WithTimeout(ctx, m.variant.SubmitTimeout)
	defer cancel()
	return m.collab.Submit(ctx, m.variant.Tag, batch)
}

func (m *Machine) fetch(ctx context.Context) ([]model.Submission, error) {
	ctx, cancel := context.WithTimeout(ctx, m.variant.SubmitTimeout)
	defer cancel()
	return m.collab.FetchRecent(ctx, m.variant.Tag)
}

func (m *Machine) currentResponse() model.Response {
	methodIdx, _ := m.methodOrder.Canonical(m.method)
	fixIdx, _ := m.fixOrder.Canonical(m.fix)
	resp := model.Response{
		QuestionIndex:       m.index,
		SelectedMethodIndex: methodIdx,
		SelectedFixIndex:    fixIdx,
		Reasoning:           m.reasoning,
		FixReasoning:        m.fixReasoning,
		IsCorrect:           m.IsCorrectMethod(m.method),
		AnsweredAt:          m.now(),
	}
	if st := m.Study(); st != nil {
		resp.Question = *st
	}
	return resp
}

// CanGoBack reports whether Back would be accepted.
func (m *Machine) CanGoBack() bool {
	return m.index > 0 && m.phase != PhaseReview
}

// Back returns to the previous study with nothing selected.
func (m *Machine) Back() error {
	if !m.CanGoBack() {
		return refuse("cannot go back from study %d in %s", m.index, m.phase)
	}
	m.enterStudy(m.index - 1)
	return nil
}

// Restart clears everything and returns to the first study.
func (m *Machine) Restart() {
	m.reset()
}

func (m *Machine) reset() {
	m.responses = nil
	m.review = nil
	m.enterStudy(0)
}

func (m *Machine) enterStudy(index int) {
	m.index = index
	m.phase = PhaseAnswering
	m.method = noSelection
	m.reasoning = ""
	m.clearFixStep()
	n := 0
	if st := m.Study(); st != nil {
		n = len(st.Methods)
	}
	m.methodOrder = m.shuffler.Order(n, index)
}

func (m *Machine) clearFixStep() {
	m.fixOrder = nil
	m.fix = noSelection
	m.fixReasoning = ""
}

func refuse(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrTransitionRefused, fmt.Sprintf(format, args...))
}
