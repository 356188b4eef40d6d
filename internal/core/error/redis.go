package errx

import (
	"errors"

	"github.com/redis/go-redis/v9"
)

// WrapRedis maps Redis errors to the storage kind with a consistent message.
func WrapRedis(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, redis.Nil) {
		return New(KindStorage, err, RedisNotFoundMessage)
	}
	return New(KindStorage, err, RedisErrorMessage)
}
