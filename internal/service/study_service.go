package service

import (
	"context"
	"errors"
	"log"

	"methodquiz/internal/cache"
	"methodquiz/internal/model"
	"methodquiz/internal/quiz"
	"methodquiz/internal/repository"
)

var ErrStudyNotFound = errors.New("study not found")

// StudyService serves the published study set
type StudyService struct {
	repo       repository.StudyRepo
	studyCache cache.StudyCache
}

// NewStudyService creates a study service. studyCache may be nil.
func NewStudyService(repo repository.StudyRepo, studyCache cache.StudyCache) *StudyService {
	return &StudyService{
		repo:       repo,
		studyCache: studyCache,
	}
}

// Publish replaces the study set and returns authoring warnings.
func (s *StudyService) Publish(ctx context.Context, studies []model.Study) ([]string, error) {
	warnings := quiz.Audit(studies)
	for _, w := range warnings {
		log.Printf("[Study] warning: %s", w)
	}
	if err := s.repo.ReplaceAll(ctx, studies); err != nil {
		return warnings, err
	}
	if s.studyCache != nil {
		if err := s.studyCache.Delete(ctx); err != nil {
			log.Printf("[Study] cache invalidation failed: %v", err)
		}
	}
	log.Printf("[Study] published %d studies", len(studies))
	return warnings, nil
}

func (s *StudyService) List(ctx context.Context) ([]model.Study, error) {
	if s.studyCache != nil {
		studies, err := s.studyCache.Get(ctx)
		if err != nil {
			log.Printf("[Study] cache read failed: %v", err)
		} else if studies != nil {
			return studies, nil
		}
	}

	studies, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.studyCache != nil && len(studies) > 0 {
		if err := s.studyCache.Set(ctx, studies); err != nil {
			log.Printf("[Study] cache write failed: %v", err)
		}
	}
	return studies, nil
}

func (s *StudyService) Get(ctx context.Context, index int) (*model.Study, error) {
	if index < 0 {
		return nil, ErrStudyNotFound
	}
	study, err := s.repo.GetByIndex(ctx, index)
	if err != nil {
		return nil, err
	}
	if study == nil {
		return nil, ErrStudyNotFound
	}
	return study, nil
}
