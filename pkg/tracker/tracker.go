// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package tracker owns the countdown record of one session: it loads and
// persists the record, runs the bonus pipeline and hosts the minigame.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/AccelByte/extend-countdown-challenge/pkg/countdown"
	"github.com/AccelByte/extend-countdown-challenge/pkg/feed"
	"github.com/AccelByte/extend-countdown-challenge/pkg/metrics"
	"github.com/AccelByte/extend-countdown-challenge/pkg/pipeline"
	"github.com/AccelByte/extend-countdown-challenge/pkg/state"
	"github.com/sirupsen/logrus"
)

var (
	// ErrChallengeCompleted is returned when today's challenge was already resolved.
	ErrChallengeCompleted = errors.New("today's challenge is already completed")

	// ErrNoActiveGame is returned when guessing without a started challenge.
	ErrNoActiveGame = errors.New("no active challenge, start one first")

	// ErrNotLoaded is returned when the tracker is used before Load.
	ErrNotLoaded = errors.New("tracker state not loaded")
)

// errUnchanged aborts a store update that has nothing to write.
var errUnchanged = errors.New("state unchanged")

// effects is what one attempt at a change produced. Every attempt starts
// empty, so only the attempt that is kept gets reported.
type effects struct {
	awarded []state.ScoreEntry
	events  feed.Batch
}

// mutation changes st and records its awards on fx. Pipeline notices
// published through ctx are queued on fx until the change is kept.
type mutation func(ctx context.Context, st *state.PersistedState, fx *effects) error

// Config configures a Tracker. Zero values fall back to defaults.
type Config struct {
	Definition countdown.Definition
	// Manager runs the bonus pipeline. Without one, the definition's
	// milestones are awarded directly.
	Manager *pipeline.Manager
	Hub     *feed.Hub
	Clock   func() time.Time
	Rand    *rand.Rand
}

// Tracker serializes every operation on the record with a mutex.
type Tracker struct {
	mu sync.Mutex

	store   state.Store
	def     countdown.Definition
	manager *pipeline.Manager
	hub     *feed.Hub
	clock   func() time.Time
	rng     *rand.Rand

	st    *state.PersistedState
	game  *countdown.Game
	dirty bool
}

// GameStatus describes the minigame session.
type GameStatus struct {
	Active           bool `json:"active"`
	GuessesRemaining int  `json:"guessesRemaining"`
}

// Status is the snapshot plus the session state.
type Status struct {
	countdown.Snapshot
	Game GameStatus `json:"game"`
}

// StartResult is returned when a challenge session opens.
type StartResult struct {
	Message          string `json:"message"`
	GuessesRemaining int    `json:"guessesRemaining"`
}

// New creates a tracker over store. Call Load before use.
func New(store state.Store, cfg Config) *Tracker {
	def := cfg.Definition
	if def.TotalDays <= 0 {
		def = countdown.Default
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Tracker{
		store:   store,
		def:     def,
		manager: cfg.Manager,
		hub:     cfg.Hub,
		clock:   clock,
		rng:     rng,
	}
}

// Load reads the record, creating a fresh one when the slot is empty or
// corrupt, then runs an initial refresh so due bonuses are applied.
func (t *Tracker) Load(ctx context.Context) (countdown.Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, fresh, err := state.LoadOrInit(ctx, t.store, t.clock())
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("load").Inc()
		return countdown.Snapshot{}, err
	}
	t.st = st

	if fresh {
		logrus.Infof("started a new %d-day challenge", t.def.TotalDays)
	} else {
		logrus.Infof("loaded challenge started %s, score %d", st.StartDate.Format(time.RFC3339), st.CurrentScore)
	}

	return t.refreshLocked(ctx)
}

// Snapshot returns the display values at the current time.
func (t *Tracker) Snapshot() (countdown.Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.st == nil {
		return countdown.Snapshot{}, ErrNotLoaded
	}
	return countdown.Summarize(t.st, t.def, t.clock()), nil
}

// Status returns the snapshot with the minigame session state.
func (t *Tracker) Status() (Status, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.st == nil {
		return Status{}, ErrNotLoaded
	}
	return t.statusLocked(t.clock()), nil
}

func (t *Tracker) statusLocked(now time.Time) Status {
	status := Status{Snapshot: countdown.Summarize(t.st, t.def, now)}
	if t.game != nil && !t.game.Over() {
		status.Game = GameStatus{Active: true, GuessesRemaining: t.game.GuessesRemaining()}
	}
	return status
}

// State returns a copy of the current record.
func (t *Tracker) State() (*state.PersistedState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.st == nil {
		return nil, ErrNotLoaded
	}
	return t.st.Clone(), nil
}

// History returns the score history, newest first.
func (t *Tracker) History() ([]state.ScoreEntry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.st == nil {
		return nil, ErrNotLoaded
	}
	return countdown.HistoryNewestFirst(t.st), nil
}

// Refresh recomputes the countdown, awards due bonuses and publishes a snapshot.
func (t *Tracker) Refresh(ctx context.Context) (countdown.Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.st == nil {
		return countdown.Snapshot{}, ErrNotLoaded
	}
	return t.refreshLocked(ctx)
}

func (t *Tracker) refreshLocked(ctx context.Context) (countdown.Snapshot, error) {
	now := t.clock()

	changed, err := t.update(ctx, func(ctx context.Context, st *state.PersistedState, fx *effects) error {
		awarded, err := t.awardBonuses(ctx, st, now)
		if err != nil {
			return err
		}
		if len(awarded) == 0 {
			return errUnchanged
		}
		fx.awarded = append(fx.awarded, awarded...)
		return nil
	})
	if err != nil {
		return countdown.Snapshot{}, err
	}

	snapshot := countdown.Summarize(t.st, t.def, now)
	metrics.ObserveSnapshot(snapshot.CurrentScore, snapshot.DaysLeft)
	if changed {
		logrus.Infof("score now %d after bonus awards", snapshot.CurrentScore)
	}
	t.publish(feed.EventSnapshot, t.statusLocked(now), now)

	return snapshot, nil
}

func (t *Tracker) awardBonuses(ctx context.Context, st *state.PersistedState, now time.Time) ([]state.ScoreEntry, error) {
	if t.manager != nil {
		result, err := t.manager.ProcessTick(ctx, st, -1, now)
		if err != nil {
			return nil, fmt.Errorf("bonus pipeline failed: %w", err)
		}
		return result.Awarded, nil
	}

	elapsed := countdown.ComputeElapsedDays(now, st.StartDate)
	return countdown.CheckSpecialBonuses(st, elapsed, t.def.Milestones(), now), nil
}

// StartChallenge opens a minigame session with a fresh target. Starting
// again before resolving replaces the session and draws a new target.
func (t *Tracker) StartChallenge(ctx context.Context) (StartResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.st == nil {
		return StartResult{}, ErrNotLoaded
	}

	now := t.clock()
	t.sync(ctx)
	if countdown.GateStatus(t.st, now) == countdown.GateCompleted {
		return StartResult{}, ErrChallengeCompleted
	}

	if t.game != nil && !t.game.Over() {
		logrus.Infof("restarting unresolved challenge, drawing a new target")
	}
	t.game = countdown.NewGame(t.rng)

	t.publish(feed.EventSnapshot, t.statusLocked(now), now)

	return StartResult{
		Message:          t.game.IntroMessage(),
		GuessesRemaining: t.game.GuessesRemaining(),
	}, nil
}

// Guess submits raw input to the active session. Invalid input returns
// countdown.ErrInvalidGuess without consuming an attempt. A resolving guess
// closes today's gate, awards the daily point on a win and persists.
func (t *Tracker) Guess(ctx context.Context, raw string) (countdown.GuessResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.st == nil {
		return countdown.GuessResult{}, ErrNotLoaded
	}
	if t.game == nil || t.game.Over() {
		return countdown.GuessResult{}, ErrNoActiveGame
	}

	result, err := t.game.Guess(raw)
	if errors.Is(err, countdown.ErrGameOver) {
		t.game = nil
		return result, ErrNoActiveGame
	}
	metrics.GuessesTotal.WithLabelValues(string(result.Outcome)).Inc()
	if err != nil {
		return result, err
	}

	if !result.Outcome.Resolved() {
		return result, nil
	}
	t.game = nil

	now := t.clock()
	_, err = t.update(ctx, func(ctx context.Context, st *state.PersistedState, fx *effects) error {
		if countdown.GateStatus(st, now) == countdown.GateCompleted {
			return ErrChallengeCompleted
		}

		if entry, ok := countdown.ResolveChallenge(st, result, now); ok {
			fx.awarded = append(fx.awarded, entry)
		}

		if t.manager != nil {
			res, err := t.manager.ProcessChallengeResult(ctx, st, result, now)
			if err != nil {
				logrus.Errorf("challenge pipeline failed: %v", err)
			} else {
				fx.awarded = append(fx.awarded, res.Awarded...)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrChallengeCompleted) {
			logrus.Warnf("today's challenge was resolved elsewhere, result not recorded")
		}
		return result, err
	}

	metrics.ChallengesResolvedTotal.WithLabelValues(string(result.Outcome)).Inc()
	snapshot := countdown.Summarize(t.st, t.def, now)
	metrics.ObserveSnapshot(snapshot.CurrentScore, snapshot.DaysLeft)
	t.publish(feed.EventSnapshot, t.statusLocked(now), now)

	return result, nil
}

// Run refreshes the countdown every interval until ctx is done.
func (t *Tracker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logrus.Infof("countdown refresh running every %s", interval)

	for {
		select {
		case <-ctx.Done():
			logrus.Info("countdown refresh stopped")
			return
		case <-ticker.C:
			if _, err := t.Refresh(ctx); err != nil {
				logrus.Errorf("countdown refresh failed: %v", err)
			}
		}
	}
}

// sync pulls the latest stored record so checks see other writers' changes.
// Failures keep the in-memory record.
func (t *Tracker) sync(ctx context.Context) {
	if t.dirty {
		return
	}
	st, err := t.store.Get(ctx)
	if err != nil {
		logrus.Debugf("keeping in-memory state, reload failed: %v", err)
		return
	}
	t.st = st
}

// update applies fn to the latest stored record and writes it back.
// Errors returned by fn abort the write; errUnchanged is not reported.
// When the store is unreachable fn is applied in memory and the record is
// written back on the next successful update. While a pending record is
// not yet written, changes build on memory and never on the stored copy.
// Awards are counted and notices published once, for the kept attempt.
func (t *Tracker) update(ctx context.Context, fn mutation) (bool, error) {
	var fx *effects
	apply := func(st *state.PersistedState) error {
		fx = &effects{}
		return fn(feed.WithBatch(ctx, &fx.events), st, fx)
	}

	keepInMemory := func(base *state.PersistedState) (bool, error) {
		st := base.Clone()
		if err := apply(st); err != nil {
			if errors.Is(err, errUnchanged) {
				return false, nil
			}
			return false, err
		}
		t.st = st
		t.dirty = true
		t.commit(fx)
		return true, nil
	}

	if t.dirty {
		if err := t.store.Put(ctx, t.st); err != nil {
			metrics.StoreErrorsTotal.WithLabelValues("put").Inc()
			logrus.Warnf("state still not persisted: %v", err)
			return keepInMemory(t.st)
		}
		t.dirty = false
		logrus.Info("pending state persisted")
	}

	var latest *state.PersistedState
	var fnErr error
	wrapped := func(st *state.PersistedState) error {
		latest = st.Clone()
		fnErr = apply(st)
		return fnErr
	}

	st, err := t.store.Update(ctx, wrapped)
	if fnErr == nil && (errors.Is(err, state.ErrNotFound) || errors.Is(err, state.ErrCorrupt)) {
		logrus.Warnf("stored state lost (%v), restoring from memory", err)
		if perr := t.store.Put(ctx, t.st); perr == nil {
			st, err = t.store.Update(ctx, wrapped)
		}
	}

	switch {
	case err == nil:
		t.st = st
		t.commit(fx)
		return true, nil
	case fnErr != nil:
		if latest != nil {
			t.st = latest
		}
		if errors.Is(fnErr, errUnchanged) {
			return false, nil
		}
		return false, fnErr
	}

	// The store failed: keep the change in memory, on top of the freshest
	// record seen.
	metrics.StoreErrorsTotal.WithLabelValues("update").Inc()
	logrus.Errorf("failed to persist state, keeping change in memory: %v", err)

	if latest != nil {
		return keepInMemory(latest)
	}
	return keepInMemory(t.st)
}

// commit counts the awards of a kept change and releases its notices.
func (t *Tracker) commit(fx *effects) {
	if fx == nil {
		return
	}
	for _, entry := range fx.awarded {
		metrics.PointsAwardedTotal.WithLabelValues(entry.Reason).Add(float64(entry.Points))
	}
	fx.events.Flush()
}

func (t *Tracker) publish(eventType string, data interface{}, now time.Time) {
	if t.hub == nil {
		return
	}
	t.hub.Publish(feed.Event{Type: eventType, Data: data, At: now})
}
