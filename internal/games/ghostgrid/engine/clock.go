package engine

import "time"

// TimerID identifies a scheduled job. Zero is never issued.
type TimerID uint64

type job struct {
	id    TimerID
	due   time.Duration
	every time.Duration // 0 for one-shot jobs
	fn    func()
}

// Scheduler runs callbacks against game time. Game time only moves when
// Advance is called, so a session that stops advancing it freezes every
// pending expiry, cooldown and AI tick.
type Scheduler struct {
	now  time.Duration
	next TimerID
	jobs []*job
}

// NewScheduler returns a scheduler at game time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the current game time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After schedules fn once, d from now.
func (s *Scheduler) After(d time.Duration, fn func()) TimerID {
	return s.add(max(d, 0), 0, fn)
}

// Every schedules fn repeatedly with period d. Non-positive periods are
// raised to one millisecond.
func (s *Scheduler) Every(d time.Duration, fn func()) TimerID {
	if d <= 0 {
		d = time.Millisecond
	}
	return s.add(d, d, fn)
}

func (s *Scheduler) add(d, every time.Duration, fn func()) TimerID {
	s.next++
	s.jobs = append(s.jobs, &job{id: s.next, due: s.now + d, every: every, fn: fn})
	return s.next
}

// Cancel removes a pending job. It reports whether the job existed.
func (s *Scheduler) Cancel(id TimerID) bool {
	for i, j := range s.jobs {
		if j.id == id {
			s.jobs = append(s.jobs[:i], s.jobs[i+1:]...)
			return true
		}
	}
	return false
}

// CancelAll drops every pending job.
func (s *Scheduler) CancelAll() {
	s.jobs = nil
}

// Pending reports whether id is still scheduled.
func (s *Scheduler) Pending(id TimerID) bool {
	for _, j := range s.jobs {
		if j.id == id {
			return true
		}
	}
	return false
}

// Remaining returns the time until id next fires, or 0 if it is not pending.
func (s *Scheduler) Remaining(id TimerID) time.Duration {
	for _, j := range s.jobs {
		if j.id == id {
			return j.due - s.now
		}
	}
	return 0
}

// Len returns the number of pending jobs.
func (s *Scheduler) Len() int {
	return len(s.jobs)
}

// Advance moves game time forward by d, firing due jobs in due-time order.
// Jobs due at the same instant fire in scheduling order. Callbacks may
// schedule or cancel jobs; anything that becomes due within the window
// fires during this call.
func (s *Scheduler) Advance(d time.Duration) {
	target := s.now + max(d, 0)
	for {
		j := s.earliest(target)
		if j == nil {
			break
		}
		s.now = j.due
		if j.every > 0 {
			j.due += j.every
		} else {
			s.Cancel(j.id)
		}
		j.fn()
	}
	s.now = target
}

func (s *Scheduler) earliest(limit time.Duration) *job {
	var best *job
	for _, j := range s.jobs {
		if j.due > limit {
			continue
		}
		if best == nil || j.due < best.due || (j.due == best.due && j.id < best.id) {
			best = j
		}
	}
	return best
}
