package retry

import (
	"sync"
	"time"
)

// Schedule is a stateful exponential backoff schedule over millisecond
// timestamps. It answers the question "is an attempt allowed at time now, and
// if not, when". Unlike Do, it never sleeps: the caller owns the waiting.
//
// The schedule tolerates clock skew. A sample earlier than the last recorded
// update resets the schedule and permits an immediate attempt.
type Schedule struct {
	mu         sync.Mutex
	cfg        Config
	delay      time.Duration // delay to apply on the next failure
	lastUpdate int64         // last timestamp observed, ms
	next       int64         // earliest eligible attempt, ms
}

// NewSchedule creates a schedule from cfg. Invalid fields fall back to the
// same defaults Do applies; MaxAttempts is ignored, the schedule never gives
// up on its own.
func NewSchedule(cfg Config) *Schedule {
	normalized, err := cfg.normalize()
	if err != nil {
		normalized, _ = DefaultConfig().normalize()
	}
	return &Schedule{
		cfg:   normalized,
		delay: normalized.InitialDelay,
	}
}

// Ready reports whether an attempt is allowed at time now.
func (s *Schedule) Ready(now int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now < s.lastUpdate {
		// Time went backwards, stay on the safe side and allow the attempt.
		s.resetLocked(now)
		return true
	}
	return now >= s.next
}

// NextEligible returns the earliest timestamp at which the next attempt may
// occur. A value in the past means "attempt now".
func (s *Schedule) NextEligible() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// OnSuccess clears all retry delays.
func (s *Schedule) OnSuccess(now int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked(now)
}

// OnFailure records a failed attempt at time now and returns the earliest
// timestamp at which the next attempt may occur. Repeated failures grow the
// delay by the configured multiplier up to MaxDelay.
func (s *Schedule) OnFailure(now int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now < s.lastUpdate {
		// Time skew: restart the backoff sequence from the new clock.
		s.resetLocked(now)
	}
	s.lastUpdate = now

	d := s.delay
	if s.cfg.AddJitter {
		d = jitter(d)
	}
	candidate := now + d.Milliseconds()
	if candidate > s.next {
		s.next = candidate
	}
	s.delay = nextDelay(s.delay, s.cfg.Multiplier, s.cfg.MaxDelay)
	return s.next
}

func (s *Schedule) resetLocked(now int64) {
	s.lastUpdate = now
	s.next = now
	s.delay = s.cfg.InitialDelay
}
