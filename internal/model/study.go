package model

import (
	"encoding/json"
	"strings"
)

// FixCount is the number of candidate fixes every method carries.
const FixCount = 4

// Study is one scenario record. The JSON shape matches the data-preparation
// output, whose keys are the spreadsheet headers.
type Study struct {
	Title               string   `json:"Example" bson:"title"`
	Description         string   `json:"Study Description" bson:"description"`
	CausalPathway       string   `json:"Causal Pathway,omitempty" bson:"causalPathway,omitempty"`
	IndependentVariable string   `json:"Independent Variable" bson:"independentVariable"`
	DependentVariable   string   `json:"Dependent Variable" bson:"dependentVariable"`
	Methods             []Method `json:"subElements" bson:"methods"`
}

// Fix is a candidate modification to a method
type Fix struct {
	Text      string `json:"text" bson:"text"`
	IsCorrect bool   `json:"isCorrect" bson:"isCorrect"`
}

// Method is one candidate experimental-design step of a study
type Method struct {
	Text        string        `json:"-" bson:"text"`
	IsCorrect   bool          `json:"-" bson:"isCorrect"`
	Explanation string        `json:"-" bson:"explanation"`
	Fixes       [FixCount]Fix `json:"-" bson:"fixes"`
}

// rawMethod is the flat, header-keyed form of a method produced by the converter.
type rawMethod struct {
	Text        string `json:"Experimental Methods"`
	Correct     string `json:"Correct"`
	Explanation string `json:"correctness of methods selection,omitempty"`
	Fix1        string `json:"fix1"`
	Fix1Correct string `json:"fix1 correct"`
	Fix2        string `json:"fix2"`
	Fix2Correct string `json:"fix2 correct"`
	Fix3        string `json:"fix3"`
	Fix3Correct string `json:"fix3 correct"`
	Fix4        string `json:"fix4"`
	Fix4Correct string `json:"fix4 correct"`
}

// UnmarshalJSON decodes the flat converter shape into typed fixes.
func (m *Method) UnmarshalJSON(data []byte) error {
	var raw rawMethod
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Text = raw.Text
	m.IsCorrect = isYes(raw.Correct)
	m.Explanation = raw.Explanation
	m.Fixes = [FixCount]Fix{
		{Text: raw.Fix1, IsCorrect: isYes(raw.Fix1Correct)},
		{Text: raw.Fix2, IsCorrect: isYes(raw.Fix2Correct)},
		{Text: raw.Fix3, IsCorrect: isYes(raw.Fix3Correct)},
		{Text: raw.Fix4, IsCorrect: isYes(raw.Fix4Correct)},
	}
	return nil
}

// MarshalJSON encodes back to the flat converter shape so snapshots round-trip.
func (m Method) MarshalJSON() ([]byte, error) {
	return json.Marshal(rawMethod{
		Text:        m.Text,
		Correct:     yesNo(m.IsCorrect),
		Explanation: m.Explanation,
		Fix1:        m.Fixes[0].Text,
		Fix1Correct: yesNo(m.Fixes[0].IsCorrect),
		Fix2:        m.Fixes[1].Text,
		Fix2Correct: yesNo(m.Fixes[1].IsCorrect),
		Fix3:        m.Fixes[2].Text,
		Fix3Correct: yesNo(m.Fixes[2].IsCorrect),
		Fix4:        m.Fixes[3].Text,
		Fix4Correct: yesNo(m.Fixes[3].IsCorrect),
	})
}

// Method returns the method at a canonical index; ok is false when out of range.
func (s *Study) Method(i int) (Method, bool) {
	if s == nil || i < 0 || i >= len(s.Methods) {
		return Method{}, false
	}
	return s.Methods[i], true
}

// CorrectMethods counts methods flagged correct. Authoring expects exactly one.
func (s *Study) CorrectMethods() int {
	n := 0
	for _, m := range s.Methods {
		if m.IsCorrect {
			n++
		}
	}
	return n
}

// Fix returns the fix at a canonical index; ok is false when out of range.
func (m *Method) Fix(i int) (Fix, bool) {
	if m == nil || i < 0 || i >= FixCount {
		return Fix{}, false
	}
	return m.Fixes[i], true
}

// CorrectFixes counts fixes flagged correct. Authoring expects at least one.
func (m *Method) CorrectFixes() int {
	n := 0
	for _, f := range m.Fixes {
		if f.IsCorrect {
			n++
		}
	}
	return n
}

func isYes(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "Y")
}

func yesNo(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}
