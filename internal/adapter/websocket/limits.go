package websocket

import (
	"context"
	"sync"
	"sync/atomic"
)

// LimitReason describes why a connection was rejected.
type LimitReason string

const (
	LimitReasonGlobal LimitReason = "global_limit"
	LimitReasonPerIP  LimitReason = "per_ip_limit"
)

// ConnectionLimits caps concurrent connections per instance and per client IP.
// A nil *ConnectionLimits admits everything.
type ConnectionLimits struct {
	current atomic.Int64
	max     int64

	mu     sync.Mutex
	perIP  map[string]int
	maxPer int
}

func NewConnectionLimits(maxTotal, maxPerIP int) *ConnectionLimits {
	return &ConnectionLimits{
		max:    int64(maxTotal),
		perIP:  make(map[string]int),
		maxPer: maxPerIP,
	}
}

// Acquire takes one global slot and one slot for ip. Connections without a known
// IP only count against the global limit.
func (l *ConnectionLimits) Acquire(ip string) (bool, LimitReason) {
	if l == nil {
		return true, ""
	}

	for {
		current := l.current.Load()
		if current >= l.max {
			return false, LimitReasonGlobal
		}
		if l.current.CompareAndSwap(current, current+1) {
			break
		}
	}

	if ip == "" {
		return true, ""
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.perIP[ip] >= l.maxPer {
		l.current.Add(-1)
		return false, LimitReasonPerIP
	}
	l.perIP[ip]++
	return true, ""
}

// Release returns the slots taken by a successful Acquire.
func (l *ConnectionLimits) Release(ip string) {
	if l == nil {
		return
	}
	l.current.Add(-1)

	if ip == "" {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if count := l.perIP[ip]; count > 1 {
		l.perIP[ip] = count - 1
	} else {
		delete(l.perIP, ip)
	}
}

func (l *ConnectionLimits) Current() int64 {
	if l == nil {
		return 0
	}
	return l.current.Load()
}

func (l *ConnectionLimits) countFor(ip string) int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.perIP[ip]
}

type clientIPKey struct{}

// WithClientIP stores the client's IP on the upgrade request context so that
// connection limits can be applied per IP.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

func clientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}
