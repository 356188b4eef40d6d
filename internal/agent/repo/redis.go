// Package repo provides trace-record persistence. Turn records are the
// observable artifact external evaluation harnesses consume to assert
// routing and escalation correctness.
package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	errx "github.com/deskpilot-poc/server/internal/core/error"
	logx "github.com/deskpilot-poc/server/pkg/logger"

	"github.com/deskpilot-poc/server/internal/agent/model"
)

// RedisTraceRepository stores turn records as a Redis list per conversation,
// refreshing the TTL on every append.
type RedisTraceRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisTraceRepository(rdb redis.Cmdable, ttl time.Duration) *RedisTraceRepository {
	return &RedisTraceRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisTraceRepository) traceKey(conversationID string) string {
	return fmt.Sprintf("conversation:%s:turns", conversationID)
}

func (r *RedisTraceRepository) AppendTurn(ctx context.Context, conversationID string, record *model.TurnRecord) error {
	b, err := json.Marshal(record)
	if err != nil {
		logx.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to marshal turn record")
		return fmt.Errorf("marshal turn record: %w", err)
	}
	key := r.traceKey(conversationID)

	if err := r.rdb.RPush(ctx, key, b).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to push turn record to redis")
		return errx.WrapRedis(err)
	}
	// extend TTL on touch
	if r.ttl > 0 {
		if ok, err := r.rdb.Expire(ctx, key, r.ttl).Result(); err != nil {
			logx.Error().Err(err).Str("key", key).Msg("failed to set expire")
			return errx.WrapRedis(err)
		} else if !ok {
			logx.Warn().Str("key", key).Dur("ttl", r.ttl).Msg("failed to set TTL on trace key")
		}
	}
	return nil
}

func (r *RedisTraceRepository) LoadTurns(ctx context.Context, conversationID string) ([]*model.TurnRecord, error) {
	key := r.traceKey(conversationID)

	rows, err := r.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return []*model.TurnRecord{}, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load turn records from redis")
		return nil, errx.WrapRedis(err)
	}

	records := make([]*model.TurnRecord, 0, len(rows))
	for i, s := range rows {
		var rec model.TurnRecord
		if err := json.Unmarshal([]byte(s), &rec); err != nil {
			logx.Error().Err(err).Str("conversation_id", conversationID).Int("index", i).Msg("failed to unmarshal turn record")
			return nil, fmt.Errorf("unmarshal turn record at index %d: %w", i, err)
		}
		records = append(records, &rec)
	}
	return records, nil
}

func (r *RedisTraceRepository) ClearTurns(ctx context.Context, conversationID string) error {
	if err := r.rdb.Del(ctx, r.traceKey(conversationID)).Err(); err != nil {
		return errx.WrapRedis(err)
	}
	return nil
}
