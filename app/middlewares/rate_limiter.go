package middlewares

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Rakhulsr/catalog-api/app/helpers"
	leakybucket "github.com/kevinms/leakybucket-go"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	MsgTooManyLogins   = "Too many login attempts, please try again later"
	MsgTooManyMessages = "Too many messages sent, please try again later"
)

var rateLimited = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "catalog_rate_limited_total",
	Help: "Requests rejected by a rate limiter.",
}, []string{"limiter"})

func init() {
	prometheus.MustRegister(rateLimited)
}

type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter decides per key. State is process local; several replicas each enforce their own budget.
type Limiter interface {
	Allow(key string) Decision
}

type RateLimitConfig struct {
	Name    string
	Limit   int
	Window  time.Duration
	Message string
	KeyFunc func(r *http.Request) string
}

type Option func(*RateLimitConfig)

func WithKeyFunc(fn func(r *http.Request) string) Option {
	return func(c *RateLimitConfig) { c.KeyFunc = fn }
}

func WithMessage(msg string) Option {
	return func(c *RateLimitConfig) { c.Message = msg }
}

func LoginRateLimit(opts ...Option) RateLimitConfig {
	return newConfig(RateLimitConfig{Name: "login", Limit: 10, Window: 15 * time.Minute, Message: MsgTooManyLogins}, opts)
}

func ContactRateLimit(opts ...Option) RateLimitConfig {
	return newConfig(RateLimitConfig{Name: "contact", Limit: 5, Window: time.Hour, Message: MsgTooManyMessages}, opts)
}

func newConfig(cfg RateLimitConfig, opts []Option) RateLimitConfig {
	cfg.KeyFunc = ClientIP
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// ClientIP is the remote address host. RealIP middleware runs first when the app sits behind a proxy.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// NewLimiter builds the limiter for strategy "window" (default) or "bucket".
func NewLimiter(strategy string, cfg RateLimitConfig) Limiter {
	if strategy == "bucket" {
		return NewLeakyBucketLimiter(cfg.Limit, cfg.Window)
	}
	return NewFixedWindowLimiter(cfg.Limit, cfg.Window)
}

func RateLimit(cfg RateLimitConfig, limiter Limiter, resp *helpers.Responder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := limiter.Allow(cfg.KeyFunc(r))

			h := w.Header()
			h.Set("RateLimit-Limit", strconv.Itoa(d.Limit))
			h.Set("RateLimit-Remaining", strconv.Itoa(d.Remaining))
			h.Set("RateLimit-Reset", strconv.Itoa(int(math.Ceil(d.RetryAfter.Seconds()))))

			if !d.Allowed {
				rateLimited.WithLabelValues(cfg.Name).Inc()
				h.Set("Retry-After", strconv.Itoa(int(math.Ceil(d.RetryAfter.Seconds()))))
				resp.Error(w, r, helpers.NewTooManyRequests(cfg.Message))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type window struct {
	count   int
	resetAt time.Time
}

// FixedWindowLimiter allows Limit hits per key per Window, counted from the key's first hit.
type FixedWindowLimiter struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	windows   map[string]*window
	now       func() time.Time
	lastSweep time.Time
}

func NewFixedWindowLimiter(limit int, w time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		limit:   limit,
		window:  w,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

func (l *FixedWindowLimiter) Allow(key string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	win, ok := l.windows[key]
	if !ok || !now.Before(win.resetAt) {
		win = &window{resetAt: now.Add(l.window)}
		l.windows[key] = win
	}

	d := Decision{Limit: l.limit, RetryAfter: win.resetAt.Sub(now)}
	if win.count >= l.limit {
		return d
	}
	win.count++
	d.Allowed = true
	d.Remaining = l.limit - win.count
	return d
}

// sweep drops expired windows at most once per window length.
func (l *FixedWindowLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	for k, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, k)
		}
	}
	l.lastSweep = now
}

// LeakyBucketLimiter drains Limit tokens per Window continuously instead of resetting.
type LeakyBucketLimiter struct {
	collector *leakybucket.Collector
	limit     int
}

func NewLeakyBucketLimiter(limit int, w time.Duration) *LeakyBucketLimiter {
	rate := float64(limit) / w.Seconds()
	return &LeakyBucketLimiter{
		collector: leakybucket.NewCollector(rate, int64(limit), true),
		limit:     limit,
	}
}

func (l *LeakyBucketLimiter) Allow(key string) Decision {
	added := l.collector.Add(key, 1)
	return Decision{
		Allowed:    added > 0,
		Limit:      l.limit,
		Remaining:  int(l.collector.Remaining(key)),
		RetryAfter: l.collector.TillEmpty(key),
	}
}
