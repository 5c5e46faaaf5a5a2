package quiz

import (
	"context"

	"methodquiz/internal/model"
)

// Collaborator stores finished sessions and serves recent ones for review.
type Collaborator interface {
	Submit(ctx context.Context, quizType string, responses []model.Response) error
	FetchRecent(ctx context.Context, quizType string) ([]model.Submission, error)
}

// Review is what the learner sees after submitting.
type Review struct {
	Responses []model.Response
	Peers     []model.Submission
	// FetchErr is set when recent submissions could not be loaded; Peers is empty then.
	FetchErr error
}

// PeersFor returns the peers' answers to one study.
func (r *Review) PeersFor(questionIndex int) []model.PeerResponse {
	if r == nil {
		return nil
	}
	return model.ResponsesFor(r.Peers, questionIndex)
}

// Own returns the learner's submitted response to one study.
func (r *Review) Own(questionIndex int) (model.Response, bool) {
	if r == nil {
		return model.Response{}, false
	}
	for i := len(r.Responses) - 1; i >= 0; i-- {
		if r.Responses[i].QuestionIndex == questionIndex {
			return r.Responses[i], true
		}
	}
	return model.Response{}, false
}
