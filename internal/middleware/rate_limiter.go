package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/fakhrymubarak/weather-widget/internal/config"
	"github.com/fakhrymubarak/weather-widget/internal/model"
)

// ParamKey is the query parameter used for per-param rate limiting.
const ParamKey = "city"

// visitor holds a rate limiter and the last time it was used.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limits is a per-minute rate with a burst.
type Limits struct {
	PerMinute float64
	Burst     int
}

func (l Limits) limiter() *rate.Limiter {
	return rate.NewLimiter(rate.Limit(l.PerMinute/60.0), l.Burst)
}

// RateLimiter enforces a global limit per client IP and a second limit per
// client IP and city.
type RateLimiter struct {
	global  Limits
	param   Limits
	maxIdle time.Duration

	muGlobal       sync.Mutex
	globalVisitors map[string]*visitor // key: ip
	muParam        sync.Mutex
	paramVisitors  map[string]map[string]*visitor // key: ip -> city -> visitor
}

func NewRateLimiter(global, param Limits, maxIdle time.Duration) *RateLimiter {
	return &RateLimiter{
		global:         global,
		param:          param,
		maxIdle:        maxIdle,
		globalVisitors: make(map[string]*visitor),
		paramVisitors:  make(map[string]map[string]*visitor),
	}
}

// NewRateLimiterFromConfig reads the limits from the rate_limiter config section.
func NewRateLimiterFromConfig() *RateLimiter {
	gr, gb := config.GetGlobalRateLimiterConfig()
	pr, pb := config.GetParamRateLimiterConfig()
	return NewRateLimiter(Limits{gr, gb}, Limits{pr, pb}, config.GetRateLimiterCleanupTimeout())
}

// getGlobalLimiter returns the rate limiter for the given IP address, creating one if it does not exist.
func (rl *RateLimiter) getGlobalLimiter(ip string) *rate.Limiter {
	rl.muGlobal.Lock()
	defer rl.muGlobal.Unlock()
	v, exists := rl.globalVisitors[ip]
	if !exists {
		v = &visitor{limiter: rl.global.limiter()}
		rl.globalVisitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// getParamLimiter returns the rate limiter for the given IP address and city, creating one if it does not exist.
func (rl *RateLimiter) getParamLimiter(ip, param string) *rate.Limiter {
	rl.muParam.Lock()
	defer rl.muParam.Unlock()
	if _, ok := rl.paramVisitors[ip]; !ok {
		rl.paramVisitors[ip] = make(map[string]*visitor)
	}
	v, exists := rl.paramVisitors[ip][param]
	if !exists {
		v = &visitor{limiter: rl.param.limiter()}
		rl.paramVisitors[ip][param] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// Cleanup removes visitors not seen for longer than maxIdle.
func (rl *RateLimiter) Cleanup() {
	rl.muGlobal.Lock()
	for ip, v := range rl.globalVisitors {
		if time.Since(v.lastSeen) > rl.maxIdle {
			delete(rl.globalVisitors, ip)
		}
	}
	rl.muGlobal.Unlock()

	rl.muParam.Lock()
	for ip, paramMap := range rl.paramVisitors {
		for param, v := range paramMap {
			if time.Since(v.lastSeen) > rl.maxIdle {
				delete(paramMap, param)
			}
		}
		if len(paramMap) == 0 {
			delete(rl.paramVisitors, ip)
		}
	}
	rl.muParam.Unlock()
}

// StartCleanup runs Cleanup every minute until ctx is done.
func (rl *RateLimiter) StartCleanup(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.Cleanup()
			}
		}
	}()
}

// visitorCount returns the number of tracked IPs. Used in tests.
func (rl *RateLimiter) visitorCount() (global, param int) {
	rl.muGlobal.Lock()
	global = len(rl.globalVisitors)
	rl.muGlobal.Unlock()
	rl.muParam.Lock()
	param = len(rl.paramVisitors)
	rl.muParam.Unlock()
	return
}

// getIP extracts the client's IP address from the HTTP request, considering X-Forwarded-For headers.
func getIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr // fallback
	}
	return ip
}

// getParam returns the normalized city of the request; city lookups differing only in case share a bucket.
// ok is false when the request names no city.
func getParam(r *http.Request) (param string, ok bool) {
	p := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(ParamKey)))
	return p, p != ""
}

func tooManyRequests(w http.ResponseWriter, errMsg, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(model.Response{
		Error:   &errMsg,
		Message: message,
	})
}

// Middleware returns an HTTP middleware that enforces global and per-city rate limiting.
// The per-city limit applies only to requests carrying ParamKey.
// If the rate limit is exceeded, it responds with a 429 status and a JSON error message.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := getIP(r)
		if !rl.getGlobalLimiter(ip).Allow() {
			tooManyRequests(w,
				fmt.Sprintf("Rate limit exceeded: max %g requests per minute per user/IP", rl.global.PerMinute),
				"Too Many Requests (global limit)")
			return
		}
		// requests without a city (coordinate lookups, /recent) only count against the global limit
		if param, ok := getParam(r); ok && !rl.getParamLimiter(ip, param).Allow() {
			tooManyRequests(w,
				fmt.Sprintf("Rate limit exceeded: max %g requests per minute per city per user/IP", rl.param.PerMinute),
				"Too Many Requests (per-city limit)")
			return
		}
		next.ServeHTTP(w, r)
	})
}
