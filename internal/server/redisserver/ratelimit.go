package redisserver

import (
	"time"

	"github.com/bluele/gcache"
	"golang.org/x/time/rate"
)

const (
	limiterCacheSize = 4096
	limiterTTL       = 10 * time.Minute
)

// rateLimiter keeps one token bucket per client address. Idle clients age
// out of the LRU so the table stays bounded.
type rateLimiter struct {
	cache gcache.Cache
}

func newRateLimiter(perSecond float64, burst int) *rateLimiter {
	if burst < 1 {
		burst = 1
	}
	ttl := limiterTTL
	return &rateLimiter{
		cache: gcache.New(limiterCacheSize).
			LRU().
			LoaderExpireFunc(func(key interface{}) (interface{}, *time.Duration, error) {
				return rate.NewLimiter(rate.Limit(perSecond), burst), &ttl, nil
			}).
			Build(),
	}
}

// allow reports whether client may run one more command now.
func (l *rateLimiter) allow(client string) bool {
	v, err := l.cache.Get(client)
	if err != nil {
		return true
	}
	return v.(*rate.Limiter).Allow()
}
