package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/lms-api/pkg/errors"
)

type stubCacheRepo struct {
	store   map[string][]byte
	deleted []string
}

func (s *stubCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	if s.store == nil {
		return appErrors.ErrCacheMiss
	}
	payload, ok := s.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (s *stubCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if s.store == nil {
		s.store = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = payload
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	s.deleted = append(s.deleted, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range s.store {
		if strings.HasPrefix(key, prefix) {
			delete(s.store, key)
		}
	}
	return nil
}

func TestCacheServiceRoundTrip(t *testing.T) {
	repo := &stubCacheRepo{}
	svc := NewCacheService(repo, nil, time.Minute, zap.NewNop())

	svc.Set(context.Background(), "dashboard:learner:u1", map[string]int{"enrolledCourses": 3}, 0)

	var out map[string]int
	hit := svc.Get(context.Background(), "dashboard:learner:u1", &out)
	require.True(t, hit)
	assert.Equal(t, 3, out["enrolledCourses"])
}

func TestCacheServiceMissReturnsFalse(t *testing.T) {
	svc := NewCacheService(&stubCacheRepo{}, nil, time.Minute, zap.NewNop())

	var out map[string]int
	assert.False(t, svc.Get(context.Background(), "missing", &out))
}

func TestCacheServiceDisabledWithoutRepo(t *testing.T) {
	svc := NewCacheService(nil, nil, time.Minute, zap.NewNop())

	assert.False(t, svc.Enabled())
	var out map[string]int
	assert.False(t, svc.Get(context.Background(), "anything", &out))
	svc.Set(context.Background(), "anything", out, time.Minute)
	svc.Invalidate(context.Background(), "anything:*")
}

func TestCacheServiceInvalidatePatterns(t *testing.T) {
	repo := &stubCacheRepo{}
	svc := NewCacheService(repo, nil, time.Minute, zap.NewNop())
	svc.Set(context.Background(), "grades:u1:overview", 1, 0)
	svc.Set(context.Background(), "grades:u1:c1", 2, 0)
	svc.Set(context.Background(), "grades:u2:overview", 3, 0)

	svc.Invalidate(context.Background(), "grades:u1:*")

	assert.Equal(t, []string{"grades:u1:*"}, repo.deleted)
	assert.NotContains(t, repo.store, "grades:u1:overview")
	assert.NotContains(t, repo.store, "grades:u1:c1")
	assert.Contains(t, repo.store, "grades:u2:overview")
}
