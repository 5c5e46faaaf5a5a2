package model

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Response is recorded when a learner advances past a study. Indices are canonical.
type Response struct {
	QuestionIndex       int       `json:"questionIndex" bson:"questionIndex"`
	SelectedMethodIndex int       `json:"selectedMethodIndex" bson:"selectedMethodIndex"`
	SelectedFixIndex    int       `json:"selectedFixIndex" bson:"selectedFixIndex"`
	Reasoning           string    `json:"reasoning" bson:"reasoning"`
	FixReasoning        string    `json:"fixReasoning,omitempty" bson:"fixReasoning,omitempty"`
	IsCorrect           bool      `json:"isCorrect" bson:"isCorrect"`
	Question            Study     `json:"question" bson:"question"`
	AnsweredAt          time.Time `json:"answeredAt" bson:"answeredAt"`
}

// ReasoningLength counts runes of trimmed free text.
func ReasoningLength(text string) int {
	return utf8.RuneCountInString(strings.TrimSpace(text))
}

// HasReasoning reports whether any free-text reasoning was captured.
func (r *Response) HasReasoning() bool {
	return ReasoningLength(r.Reasoning) > 0 || ReasoningLength(r.FixReasoning) > 0
}
