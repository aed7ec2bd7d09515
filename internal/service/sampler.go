package service

import (
	"context"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"utbk-prep/internal/cache"
	"utbk-prep/internal/domain"
	"utbk-prep/internal/logger"

	"go.uber.org/zap"
)

// OverFetchFactor is how many times the required count the sampler requests
// from the repository, to give the shuffle room to vary between draws.
const OverFetchFactor = 3

// Sampler draws a randomized, non-repeating subset of questions for one
// subtest.
type Sampler interface {
	Sample(ctx context.Context, subtest domain.SubtestCode, count int) ([]*domain.Question, error)
}

// questionSampler implements Sampler over the question repository with an
// optional read-through pool cache.
type questionSampler struct {
	repo    domain.QuestionRepository
	cache   domain.Cache // may be nil; never authoritative
	poolTTL time.Duration
}

// NewQuestionSampler creates a new sampler. cache may be nil to disable
// pool caching (the default in tests).
func NewQuestionSampler(repo domain.QuestionRepository, poolCache domain.Cache, poolTTL time.Duration) Sampler {
	return &questionSampler{
		repo:    repo,
		cache:   poolCache,
		poolTTL: poolTTL,
	}
}

// Sample fetches an over-sized candidate pool, shuffles it (Fisher-Yates)
// and truncates to count. It fails with an insufficient-pool error when the
// repository holds fewer than count candidates; it never pads from other
// subtests.
func (s *questionSampler) Sample(ctx context.Context, subtest domain.SubtestCode, count int) ([]*domain.Question, error) {
	if count <= 0 {
		return nil, domain.NewInvalidInputError("sample count must be positive")
	}
	if _, ok := domain.SubtestByCode(subtest); !ok {
		return nil, domain.NewInvalidSubtestError(string(subtest))
	}

	pool, err := s.loadPool(ctx, subtest, count*OverFetchFactor)
	if err != nil {
		return nil, domain.NewInternalError("failed to load question pool", err)
	}
	if len(pool) < count {
		return nil, domain.NewInsufficientPoolError(subtest, count, len(pool))
	}

	shuffled := make([]*domain.Question, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled[:count], nil
}

// loadPool reads the candidate pool through the cache when one is wired.
// Any cache failure falls through to the repository.
func (s *questionSampler) loadPool(ctx context.Context, subtest domain.SubtestCode, limit int) ([]*domain.Question, error) {
	if s.cache == nil {
		return s.repo.GetQuestionsBySubtest(ctx, subtest, limit)
	}

	key := cache.GenerateCacheKey("assessment", "pool", string(subtest), strconv.Itoa(limit))
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var pool []*domain.Question
		if unmarshalErr := json.Unmarshal([]byte(cached), &pool); unmarshalErr == nil {
			return pool, nil
		}
		logger.Get().Warn("Discarding undecodable cached question pool",
			zap.String("subtest", string(subtest)),
			zap.String("cacheKey", key))
	} else if err != domain.ErrCacheMiss {
		logger.Get().Warn("Question pool cache read failed, falling back to repository",
			zap.Error(err),
			zap.String("subtest", string(subtest)))
	}

	pool, err := s.repo.GetQuestionsBySubtest(ctx, subtest, limit)
	if err != nil {
		return nil, err
	}

	if encoded, marshalErr := json.Marshal(pool); marshalErr == nil {
		if setErr := s.cache.Set(ctx, key, string(encoded), s.poolTTL); setErr != nil {
			logger.Get().Warn("Failed to cache question pool",
				zap.Error(setErr),
				zap.String("subtest", string(subtest)))
		}
	}
	return pool, nil
}
