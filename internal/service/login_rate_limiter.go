package service

import (
	"context"
	"strings"
	"sync"
	"time"
)

// LoginRateLimiter limita intentos de login por clave (email + IP de origen).
type LoginRateLimiter interface {
	Allow(ctx context.Context, key string) bool
}

type clientIPKey struct{}

// WithClientIP adjunta la IP de origen de la request al contexto.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, strings.TrimSpace(ip))
}

func ClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

// loginAttemptKey cuenta intentos por par email/IP: un tercero no puede
// bloquear una cuenta conocida desde otra dirección.
func loginAttemptKey(ctx context.Context, email string) string {
	if ip := ClientIPFromContext(ctx); ip != "" {
		return email + "|" + ip
	}
	return email
}

type memoryLoginRateLimiter struct {
	mu        sync.Mutex
	window    time.Duration
	max       int
	hits      map[string][]time.Time
	lastSweep time.Time
	now       func() time.Time
}

// NewLoginRateLimiter crea un rate limiter en memoria de ventana deslizante.
func NewLoginRateLimiter(window time.Duration, max int) LoginRateLimiter {
	return newMemoryLoginRateLimiter(window, max, func() time.Time { return time.Now().UTC() })
}

func newMemoryLoginRateLimiter(window time.Duration, max int, now func() time.Time) *memoryLoginRateLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &memoryLoginRateLimiter{
		window:    window,
		max:       max,
		hits:      make(map[string][]time.Time),
		lastSweep: now(),
		now:       now,
	}
}

func (l *memoryLoginRateLimiter) Allow(_ context.Context, key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)
	// Una pasada completa por ventana mantiene el mapa acotado a las claves
	// activas en la última ventana.
	if now.Sub(l.lastSweep) >= l.window {
		l.sweep(cutoff)
		l.lastSweep = now
	}

	kept := pruneAttempts(l.hits[key], cutoff)
	if len(kept) >= l.max {
		l.hits[key] = kept
		return false
	}
	l.hits[key] = append(kept, now)
	return true
}

func (l *memoryLoginRateLimiter) sweep(cutoff time.Time) {
	for key, entries := range l.hits {
		kept := pruneAttempts(entries, cutoff)
		if len(kept) == 0 {
			delete(l.hits, key)
			continue
		}
		l.hits[key] = kept
	}
}

func (l *memoryLoginRateLimiter) trackedKeys() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.hits)
}

func pruneAttempts(entries []time.Time, cutoff time.Time) []time.Time {
	kept := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	return kept
}
