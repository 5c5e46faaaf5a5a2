package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMethodDecodesConverterShape(t *testing.T) {
	raw := `{"Experimental Methods": "Randomise", "Correct": " y ",
		"correctness of methods selection": "isolates the variable",
		"fix1": "one", "fix1 correct": "N", "fix3": "three", "fix3 correct": "Y"}`

	var m Method
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if m.Text != "Randomise" || !m.IsCorrect || m.Explanation != "isolates the variable" {
		t.Errorf("method = %+v", m)
	}
	if m.Fixes[0].IsCorrect || !m.Fixes[2].IsCorrect || m.Fixes[3].Text != "" {
		t.Errorf("fixes = %+v", m.Fixes)
	}
	if m.CorrectFixes() != 1 {
		t.Errorf("CorrectFixes = %d", m.CorrectFixes())
	}

	out, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"Correct":"Y"`, `"fix3 correct":"Y"`, `"fix4 correct":"N"`} {
		if !strings.Contains(string(out), key) {
			t.Errorf("encoded method %s is missing %s", out, key)
		}
	}
}

func TestLookupsFailSoft(t *testing.T) {
	st := &Study{Methods: []Method{{Text: "only"}}}
	if _, ok := st.Method(1); ok {
		t.Error("Method(1) found a method")
	}
	if _, ok := st.Method(-1); ok {
		t.Error("Method(-1) found a method")
	}
	var nilStudy *Study
	if _, ok := nilStudy.Method(0); ok {
		t.Error("nil study returned a method")
	}
	m := st.Methods[0]
	if _, ok := m.Fix(FixCount); ok {
		t.Error("Fix past the last slot found a fix")
	}
}

func TestReasoningLength(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{" ten chars! ", 10},
		{"naïve", 5},
	}
	for _, tt := range tests {
		if got := ReasoningLength(tt.in); got != tt.want {
			t.Errorf("ReasoningLength(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestResponsesFor(t *testing.T) {
	subs := []Submission{
		{ID: "a", Responses: []Response{{QuestionIndex: 0}, {QuestionIndex: 2}}},
		{ID: "b", Responses: []Response{{QuestionIndex: 2, Reasoning: "because"}}},
	}
	got := ResponsesFor(subs, 2)
	if len(got) != 2 || got[0].SubmissionID != "a" || got[1].Response.Reasoning != "because" {
		t.Errorf("ResponsesFor = %+v", got)
	}
	if len(ResponsesFor(subs, 1)) != 0 {
		t.Error("found responses for an unanswered study")
	}
}
