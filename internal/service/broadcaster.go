package service

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToFeed(quizType string, msgType string, payload interface{})
}

// MsgSubmissionCreated is sent to review feeds when a submission is stored
const MsgSubmissionCreated = "submission_created"
