package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"methodquiz/internal/cache"
	"methodquiz/internal/model"
	"methodquiz/internal/repository"
)

type memSubmissionRepo struct {
	mu      sync.Mutex
	subs    []model.Submission
	failing bool
	reads   int
}

func (r *memSubmissionRepo) Create(ctx context.Context, sub *model.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return errors.New("store unavailable")
	}
	for _, s := range r.subs {
		if s.ID == sub.ID {
			return fmt.Errorf("%w: %s", repository.ErrDuplicateSubmission, sub.ID)
		}
	}
	r.subs = append(r.subs, *sub)
	return nil
}

func (r *memSubmissionRepo) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.subs {
		if r.subs[i].ID == id {
			s := r.subs[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (r *memSubmissionRepo) Recent(ctx context.Context, quizType string, limit int) ([]model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	out := []model.Submission{}
	for _, s := range r.subs {
		if quizType == "" || s.Type == quizType {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memRecentCache struct {
	lists    map[string][]model.Submission
	versions map[string]int
	// beforePrime runs between the store read and Prime
	beforePrime func()
}

func newMemRecentCache() *memRecentCache {
	return &memRecentCache{lists: map[string][]model.Submission{}, versions: map[string]int{}}
}

func (c *memRecentCache) Invalidate(ctx context.Context, quizType string) error {
	c.versions[quizType]++
	delete(c.lists, quizType)
	return nil
}

func (c *memRecentCache) Recent(ctx context.Context, quizType string) ([]model.Submission, error) {
	return c.lists[quizType], nil
}

func (c *memRecentCache) Version(ctx context.Context, quizType string) (string, error) {
	return strconv.Itoa(c.versions[quizType]), nil
}

func (c *memRecentCache) Prime(ctx context.Context, quizType, version string, subs []model.Submission) error {
	if c.beforePrime != nil {
		c.beforePrime()
	}
	if version != strconv.Itoa(c.versions[quizType]) {
		return cache.ErrStalePrime
	}
	if len(subs) == 0 {
		delete(c.lists, quizType)
		return nil
	}
	c.lists[quizType] = append([]model.Submission(nil), subs...)
	return nil
}

type recordingBroadcaster struct {
	feeds    []string
	msgTypes []string
}

func (b *recordingBroadcaster) BroadcastToFeed(quizType, msgType string, payload interface{}) {
	b.feeds = append(b.feeds, quizType)
	b.msgTypes = append(b.msgTypes, msgType)
}

type memStudyRepo struct {
	studies []model.Study
	lists   int
}

func (r *memStudyRepo) ReplaceAll(ctx context.Context, studies []model.Study) error {
	r.studies = append([]model.Study(nil), studies...)
	return nil
}

func (r *memStudyRepo) List(ctx context.Context) ([]model.Study, error) {
	r.lists++
	return append([]model.Study(nil), r.studies...), nil
}

func (r *memStudyRepo) GetByIndex(ctx context.Context, index int) (*model.Study, error) {
	if index < 0 || index >= len(r.studies) {
		return nil, nil
	}
	s := r.studies[index]
	return &s, nil
}

type memStudyCache struct {
	studies []model.Study
}

func (c *memStudyCache) Set(ctx context.Context, studies []model.Study) error {
	c.studies = studies
	return nil
}

func (c *memStudyCache) Get(ctx context.Context) ([]model.Study, error) {
	return c.studies, nil
}

func (c *memStudyCache) Delete(ctx context.Context) error {
	c.studies = nil
	return nil
}
