package event

import (
	"time"

	"github.com/google/uuid"

	"methodquiz/internal/model"
)

type EventType string

const EventTypeSubmissionCreated EventType = "submission.created"

// SubmissionEvent announces a stored submission to downstream consumers
type SubmissionEvent struct {
	ID           string    `json:"id"`
	Type         EventType `json:"type"`
	Version      string    `json:"version"`
	Timestamp    time.Time `json:"timestamp"`
	SubmissionID string    `json:"submissionId"`
	QuizType     string    `json:"quizType"`
	LearnerID    string    `json:"learnerId,omitempty"`
	Responses    int       `json:"responses"`
	Correct      int       `json:"correct"`
}

// NewSubmissionEvent summarises sub. Response bodies stay in the store.
func NewSubmissionEvent(sub *model.Submission) *SubmissionEvent {
	correct := 0
	for _, r := range sub.Responses {
		if r.IsCorrect {
			correct++
		}
	}
	return &SubmissionEvent{
		ID:           uuid.New().String(),
		Type:         EventTypeSubmissionCreated,
		Version:      "1.0",
		Timestamp:    time.Now().UTC(),
		SubmissionID: sub.ID,
		QuizType:     sub.Type,
		LearnerID:    sub.LearnerID,
		Responses:    len(sub.Responses),
		Correct:      correct,
	}
}

// RoutingKey is the topic the event is published under, e.g. submission.created.peer-review
func (e *SubmissionEvent) RoutingKey() string {
	return string(e.Type) + "." + e.QuizType
}
