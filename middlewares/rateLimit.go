package middlewares

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
)

// Limiter decides whether one more request from key fits in the window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimiter counts requests per client in process memory.
type RateLimiter struct {
	limits     sync.Map
	limit      int
	window     time.Duration
	cleanupInt time.Duration
	stop       chan struct{}
	stopOnce   sync.Once
}

type clientData struct {
	requests int32
	timer    *time.Timer
}

func NewRateLimiter(limit int, window time.Duration, cleanupInt time.Duration) *RateLimiter {
	rl := &RateLimiter{
		limit:      limit,
		window:     window,
		cleanupInt: cleanupInt,
		stop:       make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

// Stop ends the cleanup loop.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupInt)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
		}
		rl.limits.Range(func(key, value interface{}) bool {
			data := value.(*clientData)
			if atomic.LoadInt32(&data.requests) == 0 {
				data.timer.Stop()
				rl.limits.Delete(key)
			}
			return true
		})
	}
}

func (rl *RateLimiter) Allow(_ context.Context, key string) (bool, error) {
	data, ok := rl.limits.Load(key)
	if !ok {
		fresh := &clientData{
			timer: time.AfterFunc(rl.window, func() {
				rl.resetRequests(key)
			}),
		}
		var loaded bool
		data, loaded = rl.limits.LoadOrStore(key, fresh)
		if loaded {
			fresh.timer.Stop()
		}
	}
	client := data.(*clientData)

	return atomic.AddInt32(&client.requests, 1) <= int32(rl.limit), nil
}

func (rl *RateLimiter) resetRequests(key string) {
	data, ok := rl.limits.Load(key)
	if !ok {
		return
	}
	client := data.(*clientData)
	atomic.StoreInt32(&client.requests, 0)
	client.timer.Reset(rl.window)
}

// RedisRateLimiter keeps fixed-window counters in Redis so that several
// server processes share one budget per client.
type RedisRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, limit: limit, window: window, prefix: "ratelimit:"}
}

func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := rl.prefix + key
	count, err := rl.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return true, err
	}
	if count == 1 {
		if err := rl.client.Expire(ctx, redisKey, rl.window).Err(); err != nil {
			return true, err
		}
	}
	return count <= int64(rl.limit), nil
}

// LoadTrustedProxies reads TRUSTED_PROXIES, a comma separated list of IPs
// or CIDRs whose X-Forwarded-For header is believed.
func LoadTrustedProxies() ([]*net.IPNet, error) {
	var nets []*net.IPNet
	for _, entry := range strings.Split(os.Getenv("TRUSTED_PROXIES"), ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", entry)
			}
			bits := 8 * net.IPv4len
			if ip.To4() == nil {
				bits = 8 * net.IPv6len
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, ipNet, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		nets = append(nets, ipNet)
	}
	return nets, nil
}

// Limit rejects clients over their budget with 429. Limiter failures are
// logged and the request is let through. X-Forwarded-For is only read when
// the peer is one of trustedProxies.
func Limit(limiter Limiter, trustedProxies []*net.IPNet) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := limiter.Allow(r.Context(), clientKey(r, trustedProxies))
			if err != nil {
				log.Printf("rate limiter error: %v", err)
			}
			if !allowed {
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientKey walks X-Forwarded-For from the right, skipping trusted hops,
// and falls back to the peer address.
func clientKey(r *http.Request, trustedProxies []*net.IPNet) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}
	if !trusted(net.ParseIP(peer), trustedProxies) {
		return peer
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		ip := net.ParseIP(strings.TrimSpace(hops[i]))
		if ip == nil {
			break
		}
		if !trusted(ip, trustedProxies) {
			return ip.String()
		}
	}
	return peer
}

func trusted(ip net.IP, nets []*net.IPNet) bool {
	if ip == nil {
		return false
	}
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
