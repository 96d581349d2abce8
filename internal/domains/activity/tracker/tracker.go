package tracker

import (
	"context"
	"sync"
	"time"

	"pos/config"
	"pos/internal/domains/activity/model"

	"github.com/rs/zerolog/log"
)

const defaultInterval = 5 * time.Minute

type Recorder interface {
	Record(ctx context.Context, salesPersonID string, loc model.Location) error
}

type session struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu       sync.Mutex
	location *model.Location
}

func (s *session) last() (model.Location, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.location == nil {
		return model.Location{}, false
	}

	return *s.location, true
}

func (s *session) set(loc model.Location) {
	s.mu.Lock()
	s.location = &loc
	s.mu.Unlock()
}

// Tracker runs one periodic location logger per sales person.
type Tracker struct {
	recorder Recorder
	interval time.Duration

	mu       sync.Mutex
	sessions map[string]*session
}

func New(recorder Recorder, cfg *config.Config) *Tracker {
	interval := defaultInterval
	if cfg != nil && cfg.Tracker.IntervalSeconds > 0 {
		interval = time.Duration(cfg.Tracker.IntervalSeconds) * time.Second
	}

	return NewWithInterval(recorder, interval)
}

func NewWithInterval(recorder Recorder, interval time.Duration) *Tracker {
	return &Tracker{
		recorder: recorder,
		interval: interval,
		sessions: map[string]*session{},
	}
}

// Start begins tracking salesPersonID, replacing any session already running for it.
func (t *Tracker) Start(salesPersonID string) {
	ctx, cancel := context.WithCancel(context.Background())
	sess := &session{cancel: cancel, done: make(chan struct{})}

	t.mu.Lock()
	previous := t.sessions[salesPersonID]
	t.sessions[salesPersonID] = sess
	t.mu.Unlock()

	if previous != nil {
		if loc, ok := previous.last(); ok {
			sess.set(loc)
		}

		previous.stop()
	}

	go t.run(ctx, salesPersonID, sess)

	log.Info().Str("salesPerson", salesPersonID).Dur("interval", t.interval).Msg("location tracking started")
}

// Stop reports whether a session was running.
func (t *Tracker) Stop(salesPersonID string) bool {
	t.mu.Lock()
	sess, ok := t.sessions[salesPersonID]
	delete(t.sessions, salesPersonID)
	t.mu.Unlock()

	if !ok {
		return false
	}

	sess.stop()
	log.Info().Str("salesPerson", salesPersonID).Msg("location tracking stopped")

	return true
}

// Update stores the location the next tick will log. It reports false when nobody is tracking salesPersonID.
func (t *Tracker) Update(salesPersonID string, loc model.Location) bool {
	t.mu.Lock()
	sess, ok := t.sessions[salesPersonID]
	t.mu.Unlock()

	if !ok {
		return false
	}

	sess.set(loc)

	return true
}

func (t *Tracker) Active(salesPersonID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.sessions[salesPersonID]

	return ok
}

func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.sessions)
}

// StopAll cancels every session and waits for their goroutines to exit.
func (t *Tracker) StopAll() {
	t.mu.Lock()
	sessions := t.sessions
	t.sessions = map[string]*session{}
	t.mu.Unlock()

	for _, sess := range sessions {
		sess.stop()
	}

	log.Info().Int("sessions", len(sessions)).Msg("location tracking shut down")
}

func (s *session) stop() {
	s.cancel()
	<-s.done
}

func (t *Tracker) run(ctx context.Context, salesPersonID string, sess *session) {
	defer close(sess.done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			loc, ok := sess.last()
			if !ok {
				continue
			}

			if err := t.recorder.Record(ctx, salesPersonID, loc); err != nil {
				log.Warn().Err(err).Str("salesPerson", salesPersonID).Msg("failed to record tracked location")
			}
		}
	}
}
