package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"methodquiz/internal/cache"
	"methodquiz/internal/event"
	"methodquiz/internal/metrics"
	"methodquiz/internal/model"
	"methodquiz/internal/quiz"
	"methodquiz/internal/repository"
)

var ErrInvalidSubmission = errors.New("invalid submission")

// SubmissionService stores finished quiz sessions and serves recent ones
type SubmissionService struct {
	repo        repository.SubmissionRepo
	recentCache cache.RecentCache
	catalog     quiz.Catalog
	limit       int
	broadcaster Broadcaster
	publisher   event.Publisher
}

// NewSubmissionService creates a submission service. recentCache may be nil.
func NewSubmissionService(
	repo repository.SubmissionRepo,
	recentCache cache.RecentCache,
	catalog quiz.Catalog,
	limit int,
) *SubmissionService {
	return &SubmissionService{
		repo:        repo,
		recentCache: recentCache,
		catalog:     catalog,
		limit:       limit,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *SubmissionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetPublisher sets the publisher for submission events
func (s *SubmissionService) SetPublisher(p event.Publisher) {
	s.publisher = p
}

// Validate checks the quiz type, the optional client ID and every response index.
func (s *SubmissionService) Validate(req *model.SubmitRequest) error {
	if req.Type == "" {
		return fmt.Errorf("%w: type is required", ErrInvalidSubmission)
	}
	if _, err := s.catalog.Lookup(req.Type); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
	}
	if req.ID != "" {
		if _, err := uuid.Parse(req.ID); err != nil {
			return fmt.Errorf("%w: id must be a UUID", ErrInvalidSubmission)
		}
	}
	if len(req.Responses) == 0 {
		return fmt.Errorf("%w: responses are required", ErrInvalidSubmission)
	}
	for i, r := range req.Responses {
		if r.QuestionIndex < 0 {
			return fmt.Errorf("%w: response %d has negative questionIndex", ErrInvalidSubmission, i)
		}
	}
	return nil
}

// typeLabel bounds metric cardinality to the catalogue.
func (s *SubmissionService) typeLabel(quizType string) string {
	if _, err := s.catalog.Lookup(quizType); err != nil {
		return "unknown"
	}
	return quizType
}

// Submit validates and stores a batch of responses. The cache, feed and event
// bus are best effort; only the store decides success. Resending an ID that
// is already stored returns the stored submission without side effects.
func (s *SubmissionService) Submit(ctx context.Context, learnerID string, req *model.SubmitRequest) (*model.SubmitResponse, error) {
	if err := s.Validate(req); err != nil {
		metrics.SubmissionRejected(s.typeLabel(req.Type))
		return nil, err
	}

	id := req.ID
	if id == "" {
		id = uuid.New().String()
	}
	sub := &model.Submission{
		ID:        id,
		Type:      req.Type,
		LearnerID: learnerID,
		Responses: req.Responses,
		Timestamp: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		if errors.Is(err, repository.ErrDuplicateSubmission) {
			return s.replay(ctx, sub)
		}
		metrics.SubmissionFailed(sub.Type)
		return nil, fmt.Errorf("failed to store submission: %w", err)
	}

	if s.recentCache != nil {
		if err := s.recentCache.Invalidate(ctx, sub.Type); err != nil {
			log.Printf("[Submission] cache invalidate failed for %s: %v", sub.ID, err)
		}
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToFeed(sub.Type, MsgSubmissionCreated, sub)
	}
	if s.publisher != nil {
		if err := s.publisher.PublishSubmissionEvent(ctx, event.NewSubmissionEvent(sub)); err != nil {
			log.Printf("[Submission] event publish failed for %s: %v", sub.ID, err)
		}
	}

	correct := 0
	for _, r := range sub.Responses {
		if r.IsCorrect {
			correct++
		}
	}
	metrics.SubmissionAccepted(sub.Type)
	metrics.ResponsesRecorded(sub.Type, correct, len(sub.Responses))
	log.Printf("[Submission] stored %s (%s, %d responses)", sub.ID, sub.Type, len(sub.Responses))

	return &model.SubmitResponse{ID: sub.ID, Timestamp: sub.Timestamp}, nil
}

// replay answers a resent submission with what was stored the first time.
func (s *SubmissionService) replay(ctx context.Context, sub *model.Submission) (*model.SubmitResponse, error) {
	stored, err := s.repo.GetByID(ctx, sub.ID)
	if err != nil {
		metrics.SubmissionFailed(sub.Type)
		return nil, fmt.Errorf("failed to load submission %s: %w", sub.ID, err)
	}
	if stored == nil || stored.Type != sub.Type || stored.LearnerID != sub.LearnerID {
		metrics.SubmissionRejected(sub.Type)
		return nil, fmt.Errorf("%w: id %s is already in use", ErrInvalidSubmission, sub.ID)
	}
	log.Printf("[Submission] %s was already stored, not storing again", sub.ID)
	return &model.SubmitResponse{ID: stored.ID, Timestamp: stored.Timestamp}, nil
}

// Recent returns the newest submissions, at most the configured limit. An
// empty quizType lists every type.
func (s *SubmissionService) Recent(ctx context.Context, quizType string) ([]model.Submission, error) {
	if quizType != "" {
		if _, err := s.catalog.Lookup(quizType); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
		}
	}

	useCache := s.recentCache != nil && quizType != ""
	version := ""
	if useCache {
		subs, err := s.recentCache.Recent(ctx, quizType)
		if err != nil {
			log.Printf("[Submission] cache read failed for %s: %v", quizType, err)
		} else if subs != nil {
			metrics.RecentRead("cache")
			return subs, nil
		}
		if version, err = s.recentCache.Version(ctx, quizType); err != nil {
			log.Printf("[Submission] cache version read failed for %s: %v", quizType, err)
			useCache = false
		}
	}

	subs, err := s.repo.Recent(ctx, quizType, s.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	metrics.RecentRead("store")

	if useCache {
		err := s.recentCache.Prime(ctx, quizType, version, subs)
		if err != nil && !errors.Is(err, cache.ErrStalePrime) {
			log.Printf("[Submission] cache prime failed for %s: %v", quizType, err)
		}
	}
	return subs, nil
}

// Get returns one submission, or nil when it does not exist.
func (s *SubmissionService) Get(ctx context.Context, id string) (*model.Submission, error) {
	return s.repo.GetByID(ctx, id)
}
