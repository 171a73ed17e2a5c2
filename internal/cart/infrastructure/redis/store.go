package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/example/storefront/internal/cart/domain"
	"github.com/example/storefront/pkg/apperror"
)

const keyPrefix = "cart:"

// Store keeps each user's cart as one serialized value, the server-side
// analogue of the single local-storage key the web client used.
type Store struct {
	log *slog.Logger
	rdb *redis.Client
}

func NewStore(log *slog.Logger, rdb *redis.Client) *Store {
	return &Store{log: log, rdb: rdb}
}

func (s *Store) Load(ctx context.Context, userID string) ([]domain.Line, error) {
	raw, err := s.rdb.Get(ctx, keyPrefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	var lines []domain.Line
	if err := json.Unmarshal(raw, &lines); err != nil {
		// A corrupt value is discarded, not surfaced.
		s.log.Warn("discarding malformed cart", "user_id", userID, "err", err)
		_ = s.rdb.Del(ctx, keyPrefix+userID).Err()
		return nil, nil
	}
	return lines, nil
}

func (s *Store) Save(ctx context.Context, userID string, lines []domain.Line) error {
	if len(lines) == 0 {
		if err := s.rdb.Del(ctx, keyPrefix+userID).Err(); err != nil {
			return apperror.Internal(err)
		}
		return nil
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return apperror.Internal(err)
	}
	if err := s.rdb.Set(ctx, keyPrefix+userID, raw, 0).Err(); err != nil {
		return apperror.Internal(err)
	}
	return nil
}
