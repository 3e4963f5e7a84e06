package auth

import (
	"sync"
	"time"
)

// LoginLimiter locks out an IP+username pair after repeated failed logins
// within a sliding window.
type LoginLimiter struct {
	mu              sync.RWMutex
	attempts        map[string]*attemptRecord
	maxAttempts     int
	windowDuration  time.Duration
	lockoutDuration time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
	stopCleanup     chan struct{}
	stopOnce        sync.Once
}

type attemptRecord struct {
	count        int
	firstAttempt time.Time
	lockedUntil  time.Time
}

// LoginLimitConfig contains configuration for the login limiter.
type LoginLimitConfig struct {
	MaxAttempts     int           // failures before lockout (default: 5)
	WindowDuration  time.Duration // window for counting failures (default: 15m)
	LockoutDuration time.Duration // lockout length (default: 30m)
	CleanupInterval time.Duration // expired record sweep (default: 5m)
}

func DefaultLoginLimitConfig() LoginLimitConfig {
	return LoginLimitConfig{
		MaxAttempts:     5,
		WindowDuration:  15 * time.Minute,
		LockoutDuration: 30 * time.Minute,
		CleanupInterval: 5 * time.Minute,
	}
}

// NewLoginLimiter creates a limiter and starts its cleanup goroutine. Call
// Stop to release it.
func NewLoginLimiter(cfg LoginLimitConfig) *LoginLimiter {
	defaults := DefaultLoginLimitConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaults.MaxAttempts
	}
	if cfg.WindowDuration <= 0 {
		cfg.WindowDuration = defaults.WindowDuration
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = defaults.LockoutDuration
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = defaults.CleanupInterval
	}

	l := &LoginLimiter{
		attempts:        make(map[string]*attemptRecord),
		maxAttempts:     cfg.MaxAttempts,
		windowDuration:  cfg.WindowDuration,
		lockoutDuration: cfg.LockoutDuration,
		cleanupInterval: cfg.CleanupInterval,
		now:             time.Now,
		stopCleanup:     make(chan struct{}),
	}

	go l.cleanupLoop()

	return l
}

func (l *LoginLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopCleanup) })
}

func limiterKey(ip, username string) string {
	return ip + ":" + username
}

// Allow reports whether a login attempt may proceed, and if not, how long
// until the lockout ends.
func (l *LoginLimiter) Allow(ip, username string) (bool, time.Duration) {
	now := l.now()

	l.mu.RLock()
	record, exists := l.attempts[limiterKey(ip, username)]
	var snapshot attemptRecord
	if exists {
		snapshot = *record
	}
	l.mu.RUnlock()

	if !exists {
		return true, 0
	}
	if !snapshot.lockedUntil.IsZero() && now.Before(snapshot.lockedUntil) {
		return false, snapshot.lockedUntil.Sub(now)
	}
	return true, 0
}

// RecordFailure counts a failed attempt and reports whether the pair is
// now locked out.
func (l *LoginLimiter) RecordFailure(ip, username string) (bool, time.Duration) {
	k := limiterKey(ip, username)
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	record, exists := l.attempts[k]
	if !exists {
		record = &attemptRecord{firstAttempt: now}
		l.attempts[k] = record
	}

	if now.Sub(record.firstAttempt) > l.windowDuration ||
		(!record.lockedUntil.IsZero() && !now.Before(record.lockedUntil)) {
		record.count = 0
		record.firstAttempt = now
		record.lockedUntil = time.Time{}
	}

	record.count++

	if record.count >= l.maxAttempts {
		record.lockedUntil = now.Add(l.lockoutDuration)
		return true, l.lockoutDuration
	}
	return false, 0
}

// RecordSuccess clears the failure record after a successful login.
func (l *LoginLimiter) RecordSuccess(ip, username string) {
	l.mu.Lock()
	delete(l.attempts, limiterKey(ip, username))
	l.mu.Unlock()
}

func (l *LoginLimiter) cleanupLoop() {
	ticker := time.NewTicker(l.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stopCleanup:
			return
		}
	}
}

// cleanup removes records whose window and lockout have both expired.
func (l *LoginLimiter) cleanup() {
	now := l.now()
	expiry := l.windowDuration + l.lockoutDuration

	l.mu.Lock()
	defer l.mu.Unlock()

	for k, record := range l.attempts {
		windowExpired := now.Sub(record.firstAttempt) > expiry
		lockoutExpired := record.lockedUntil.IsZero() || now.After(record.lockedUntil)
		if windowExpired && lockoutExpired {
			delete(l.attempts, k)
		}
	}
}
