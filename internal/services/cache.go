package services

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hoopiq/courtcast/internal/prediction"
)

// CacheService is a thin JSON cache over redis, used to short-circuit
// repeat predictions for the same matchup against the same artifact.
type CacheService struct {
	client *redis.Client
}

func NewCacheService(client *redis.Client) *CacheService {
	return &CacheService{
		client: client,
	}
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	if err := s.client.Set(ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return fmt.Errorf("key not found")
		}
		return fmt.Errorf("failed to get cache: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}

	return nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}

// PredictionCacheKey keys a single-matchup prediction by the resolved
// stats of both sides plus the artifact version. The stat values are
// hashed into the key because two requests can carry the same
// abbreviation with different explicit stats; keying on names alone
// would serve one request's probabilities to the other. The artifact
// version means a model reload naturally invalidates every cached
// result; "heuristic" stands in when no model is loaded.
func PredictionCacheKey(home, away prediction.TeamStats, modelVersion string) string {
	if modelVersion == "" {
		modelVersion = "heuristic"
	}
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%g|%g|%g|%g|%s|%g|%g|%g|%g",
		home.Abbreviation, home.WinPct, home.PPG, home.OppPPG, home.PointDiff,
		away.Abbreviation, away.WinPct, away.PPG, away.OppPPG, away.PointDiff)
	return fmt.Sprintf("prediction:%s:%s:%016x:%s", home.Abbreviation, away.Abbreviation, h.Sum64(), modelVersion)
}
