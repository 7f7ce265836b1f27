package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var errUnsupportedValue = errors.New("cache: unsupported value type")

// Remember 先查快取，未命中 (或快取故障) 時呼叫 load 並寫回。
// 快取錯誤只記錄不回傳，資料來源永遠是 load。
func Remember[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if raw, err := c.Get(ctx, key).Bytes(); err == nil {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		log.Ctx(ctx).Warn().Str("key", key).Msg("cache: discarding undecodable entry")
	} else if !errors.Is(err, redis.Nil) {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache: get failed")
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return v, nil
	}
	if err := c.Set(ctx, key, b, ttl).Err(); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache: set failed")
	}
	return v, nil
}

// Invalidate 刪除 key；失敗時只記錄，下一次讀取最多拿到 ttl 內的舊資料
func Invalidate(ctx context.Context, c Cache, key string) {
	if err := c.Del(ctx, key).Err(); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache: delete failed")
	}
}
