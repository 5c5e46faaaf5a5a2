package model

import "time"

// Submission is a persisted batch of a learner's responses
type Submission struct {
	ID        string     `json:"id" bson:"_id"`
	Type      string     `json:"type" bson:"type"`
	LearnerID string     `json:"learnerId,omitempty" bson:"learnerId,omitempty"`
	Responses []Response `json:"responses" bson:"responses"`
	Timestamp time.Time  `json:"timestamp" bson:"timestamp"`
}

// SubmitRequest is the body of POST /v1/submissions. ID is chosen by the
// client so a retried request stores the batch only once.
type SubmitRequest struct {
	ID        string     `json:"id,omitempty"`
	Type      string     `json:"type"`
	Responses []Response `json:"responses"`
}

// SubmitResponse is returned after a submission is stored
type SubmitResponse struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// RecentResponse is the body of GET /v1/submissions/recent
type RecentResponse struct {
	Submissions []Submission `json:"submissions"`
}

// PeerResponse is one peer's answer to a single study
type PeerResponse struct {
	SubmissionID string    `json:"submissionId"`
	Timestamp    time.Time `json:"timestamp"`
	Response     Response  `json:"response"`
}

// ResponsesFor collects every response in subs that answers the given study.
func ResponsesFor(subs []Submission, questionIndex int) []PeerResponse {
	var out []PeerResponse
	for _, s := range subs {
		for _, r := range s.Responses {
			if r.QuestionIndex != questionIndex {
				continue
			}
			out = append(out, PeerResponse{
				SubmissionID: s.ID,
				Timestamp:    s.Timestamp,
				Response:     r,
			})
		}
	}
	return out
}
