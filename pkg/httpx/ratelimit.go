package httpx

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/aussiebroadwan/batterydash/pkg/slogx"
)

// RateLimit is a token bucket expressed as requests per window.
type RateLimit struct {
	Requests int
	Window   time.Duration
	Burst    int
}

var (
	// StrictLimit guards credential endpoints against brute forcing.
	StrictLimit = RateLimit{Requests: 5, Window: time.Minute, Burst: 5}

	// LenientLimit is for authenticated, read-only proxy routes.
	LenientLimit = RateLimit{Requests: 100, Window: time.Minute, Burst: 100}
)

func (l RateLimit) every() rate.Limit {
	if l.Requests <= 0 || l.Window <= 0 {
		return rate.Inf
	}
	return rate.Limit(float64(l.Requests) / l.Window.Seconds())
}

// KeyFunc groups requests into rate limit buckets. An empty key skips limiting.
type KeyFunc func(*http.Request) string

// SubjectKey returns the authenticated subject, or "" before AuthnMiddleware.
func SubjectKey(r *http.Request) string {
	sub, _ := r.Context().Value(CtxKeyUserID).(string)
	return sub
}

// JoinKeys concatenates the non-empty keys produced by fns.
func JoinKeys(sep string, fns ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(fns))
		for _, fn := range fns {
			if k := fn(r); k != "" {
				parts = append(parts, k)
			}
		}
		return strings.Join(parts, sep)
	}
}

const limiterSweepEvery = 5 * time.Minute

type limiterSet struct {
	limit rate.Limit
	burst int

	mu        sync.Mutex
	buckets   map[string]*rate.Limiter
	lastSweep time.Time
}

func newLimiterSet(l RateLimit) *limiterSet {
	return &limiterSet{
		limit:     l.every(),
		burst:     l.Burst,
		buckets:   make(map[string]*rate.Limiter),
		lastSweep: time.Now(),
	}
}

func (s *limiterSet) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if now.Sub(s.lastSweep) >= limiterSweepEvery {
		// A full bucket means the key has been idle long enough to forget.
		for k, lim := range s.buckets {
			if lim.TokensAt(now) >= float64(s.burst) {
				delete(s.buckets, k)
			}
		}
		s.lastSweep = now
	}

	lim, ok := s.buckets[key]
	if !ok {
		lim = rate.NewLimiter(s.limit, s.burst)
		s.buckets[key] = lim
	}
	return lim
}

// RateLimitMiddleware rejects requests over l with 429 and a Retry-After header.
func RateLimitMiddleware(l RateLimit, key KeyFunc) Middleware {
	set := newLimiterSet(l)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if k == "" {
				next.ServeHTTP(w, r)
				return
			}

			lim := set.get(k)
			res := lim.Reserve()
			if res.OK() && res.Delay() == 0 {
				next.ServeHTTP(w, r)
				return
			}
			delay := res.Delay()
			res.Cancel()

			retryAfter := max(int(delay.Round(time.Second).Seconds()), 1)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.Requests))
			w.Header().Set("X-RateLimit-Window", l.Window.String())

			slogx.FromContext(r.Context()).Warn("rate limit exceeded",
				"key", slogx.Mask(k),
				"path", r.URL.Path,
				"retry_after", retryAfter,
			)
			WriteMessage(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
		})
	}
}

// RateLimitByIP buckets requests by client address as resolved by ip.
// A nil ip uses ClientIP.
func RateLimitByIP(l RateLimit, ip KeyFunc) Middleware {
	if ip == nil {
		ip = ClientIP
	}
	return RateLimitMiddleware(l, ip)
}

// RateLimitByUser buckets requests by authenticated subject and address.
func RateLimitByUser(l RateLimit, ip KeyFunc) Middleware {
	if ip == nil {
		ip = ClientIP
	}
	return RateLimitMiddleware(l, JoinKeys(":", SubjectKey, ip))
}
