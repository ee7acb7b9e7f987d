// Package feed maintains the ordered sequence of materialized puzzle
// pages per session and grows it lazily as the viewer approaches the
// end. Feed order is strictly append order: no reordering, no removal
// during a session.
package feed

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"svw.info/tacticsfeed/internal/domain"
	"svw.info/tacticsfeed/internal/ports"
	"svw.info/tacticsfeed/internal/progress"
	"svw.info/tacticsfeed/internal/reaction"
)

var (
	ErrPageNotFound = errors.New("feed: page not found")
	ErrIllegalMove  = errors.New("feed: illegal move")
)

// Config tunes feed growth and timing.
type Config struct {
	// InitialPages is how many pages a new session materializes up front.
	InitialPages int
	// Lookahead is the minimum number of unconsumed pages kept ahead of
	// the current view position.
	Lookahead int
	// AppendDelay defers the lookahead append so a scroll-settle event
	// does not trigger a synchronous re-render storm. Zero appends inline.
	AppendDelay time.Duration
	// AdvanceDelay is how long feedback stays on screen before the feed
	// auto-advances after a solved puzzle or an incorrect move.
	AdvanceDelay time.Duration
	// SessionTTL is how long an untouched session survives. Each session
	// holds live boards and pending timers, so abandoned ones are evicted
	// rather than kept forever.
	SessionTTL time.Duration
}

func (c Config) withDefaults() Config {
	if c.InitialPages <= 0 {
		c.InitialPages = 2
	}
	if c.Lookahead <= 0 {
		c.Lookahead = 3
	}
	if c.AdvanceDelay <= 0 {
		c.AdvanceDelay = 1200 * time.Millisecond
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = 2 * time.Hour
	}
	return c
}

// Instance pairs the mutable puzzle state with the live board it
// exclusively owns.
type Instance struct {
	domain.PuzzleInstance
	Engine ports.Engine
}

// PlayResult is what a played move produced.
type PlayResult struct {
	Outcome   progress.Outcome
	Record    domain.MoveRecord
	Page      domain.PuzzleInstance
	AdvanceTo int
	AdvanceIn time.Duration
	Scheduled bool
}

// Session is one viewer's feed. All methods are safe to call from the
// server's handler goroutines; a single mutex preserves the
// one-event-at-a-time model the UI assumes.
type Session struct {
	ID string

	mu        sync.Mutex
	cfg       Config
	defs      []domain.PuzzleDefinition
	newEngine ports.EngineFactory
	scroller  ports.Scroller
	log       *zap.SugaredLogger

	instances []*Instance
	current   int
	appending bool      // single-flight guard: at most one pending append
	gen       uint64    // bumped on view changes; stale deferred advances no-op
	lastSeen  time.Time // refreshed on every controller lookup
}

func newSession(defs []domain.PuzzleDefinition, f ports.EngineFactory, cfg Config, log *zap.SugaredLogger) *Session {
	return &Session{
		ID:        uuid.NewString(),
		cfg:       cfg.withDefaults(),
		defs:      defs,
		newEngine: f,
		log:       log,
		lastSeen:  time.Now(),
	}
}

// SetScroller attaches the presentation-layer snap target. Optional.
func (s *Session) SetScroller(sc ports.Scroller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scroller = sc
}

// Initialize materializes the first n pages by cycling the catalog.
func (s *Session) Initialize(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.instances) < n {
		if s.appendLocked() == nil {
			return
		}
	}
}

// appendLocked materializes one more page. Page i uses definition
// i mod K, so the feed wraps around the catalog indefinitely.
func (s *Session) appendLocked() *Instance {
	if len(s.defs) == 0 {
		return nil
	}
	seq := len(s.instances)
	def := s.defs[seq%len(s.defs)]
	eng := s.newEngine(def.StartFEN)
	inst := &Instance{
		PuzzleInstance: domain.PuzzleInstance{
			ID:         fmt.Sprintf("%s-%d", def.Slug, seq),
			FEN:        eng.FEN(),
			Tactic:     def.Tactic,
			SideToPlay: def.SideToPlay,
			Solution:   def.Solution,
		},
		Engine: eng,
	}
	s.instances = append(s.instances, inst)
	return inst
}

// EnsureLookahead appends exactly one page when fewer than the
// configured lookahead remain ahead of current.
func (s *Session) EnsureLookahead(current int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLookaheadLocked(current)
}

func (s *Session) ensureLookaheadLocked(current int) {
	ahead := len(s.instances) - 1 - current
	if ahead >= s.cfg.Lookahead || s.appending {
		return
	}
	s.appending = true
	if s.cfg.AppendDelay <= 0 {
		s.appendLocked()
		s.appending = false
		return
	}
	time.AfterFunc(s.cfg.AppendDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.appendLocked()
		s.appending = false
	})
}

// RecordCurrentIndex notes which page is in view, invalidates any
// pending auto-advance, and tops up the lookahead.
func (s *Session) RecordCurrentIndex(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = s.clampLocked(i)
	s.gen++
	s.ensureLookaheadLocked(s.current)
}

// AdvanceTo snaps the view to page i immediately.
func (s *Session) AdvanceTo(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advanceLocked(i)
}

func (s *Session) advanceLocked(i int) {
	s.current = s.clampLocked(i)
	s.gen++
	if s.scroller != nil {
		s.scroller.ScrollTo(s.current)
	}
	s.ensureLookaheadLocked(s.current)
}

// ScheduleAdvance requests a deferred snap to target. The generation
// token observed now is re-checked when the timer fires: if the view
// moved in the meantime the advance is stale and dropped.
func (s *Session) ScheduleAdvance(target int) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduleAdvanceLocked(target)
}

func (s *Session) scheduleAdvanceLocked(target int) time.Duration {
	gen := s.gen
	time.AfterFunc(s.cfg.AdvanceDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen != gen {
			if s.log != nil {
				s.log.Debugw("stale auto-advance dropped", "session", s.ID, "target", target)
			}
			return
		}
		s.advanceLocked(target)
	})
	return s.cfg.AdvanceDelay
}

// PlayMove applies mv to the page at index through its rules engine,
// classifies it against the solution, and schedules the auto-advance
// when the outcome calls for one.
func (s *Session) PlayMove(index int, mv domain.Move) (PlayResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.instances) {
		return PlayResult{}, ErrPageNotFound
	}
	inst := s.instances[index]
	rec, ok := inst.Engine.Apply(mv)
	if !ok {
		return PlayResult{}, ErrIllegalMove
	}
	inst.FEN = inst.Engine.FEN()
	out := progress.Classify(&inst.PuzzleInstance, mv)
	if out.Verdict == domain.VerdictNone {
		// Progression ignored the move (page already solved, or an empty
		// solution) but the board still changed; renderers key off Version.
		inst.Touch()
	}
	res := PlayResult{Outcome: out, Record: rec, Page: snapshotOf(inst)}
	if out.Advance {
		res.AdvanceTo = s.clampLocked(index + 1)
		res.AdvanceIn = s.scheduleAdvanceLocked(res.AdvanceTo)
		res.Scheduled = true
	}
	return res, nil
}

// LegalMoves lists the legal options from a square on the page at index.
// Any failure degrades to an empty list.
func (s *Session) LegalMoves(index int, from domain.Square) []domain.LegalMove {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.instances) {
		return nil
	}
	return s.instances[index].Engine.LegalMovesFrom(from)
}

// ToggleLike flips the like flag on the page with the given instance ID.
func (s *Session) ToggleLike(id string) (liked, celebrate bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst := s.byIDLocked(id)
	if inst == nil {
		return false, false, ErrPageNotFound
	}
	liked, celebrate = reaction.ToggleLike(&inst.PuzzleInstance)
	return liked, celebrate, nil
}

// ToggleStar flips the star flag on the page with the given instance ID.
func (s *Session) ToggleStar(id string) (starred bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst := s.byIDLocked(id)
	if inst == nil {
		return false, ErrPageNotFound
	}
	return reaction.ToggleStar(&inst.PuzzleInstance), nil
}

// Snapshot copies every page's state plus the current index, for
// rendering outside the lock.
func (s *Session) Snapshot() ([]domain.PuzzleInstance, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.PuzzleInstance, len(s.instances))
	for i, inst := range s.instances {
		out[i] = snapshotOf(inst)
	}
	return out, s.current
}

// Page copies the state of the page at index.
func (s *Session) Page(index int) (domain.PuzzleInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.instances) {
		return domain.PuzzleInstance{}, ErrPageNotFound
	}
	return snapshotOf(s.instances[index]), nil
}

func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.instances)
}

func (s *Session) byIDLocked(id string) *Instance {
	for _, inst := range s.instances {
		if inst.ID == id {
			return inst
		}
	}
	return nil
}

func (s *Session) touchSeen() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleFor(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

func (s *Session) clampLocked(i int) int {
	if i < 0 {
		return 0
	}
	if last := len(s.instances) - 1; i > last {
		if last < 0 {
			return 0
		}
		return last
	}
	return i
}

func snapshotOf(inst *Instance) domain.PuzzleInstance {
	out := inst.PuzzleInstance
	if inst.LastMove != nil {
		lm := *inst.LastMove
		out.LastMove = &lm
	}
	return out
}

// Controller owns the live feed sessions.
type Controller struct {
	mu        sync.RWMutex
	cfg       Config
	defs      []domain.PuzzleDefinition
	newEngine ports.EngineFactory
	log       *zap.SugaredLogger
	sessions  map[string]*Session
}

func NewController(defs []domain.PuzzleDefinition, f ports.EngineFactory, cfg Config, log *zap.SugaredLogger) *Controller {
	return &Controller{
		cfg:       cfg.withDefaults(),
		defs:      defs,
		newEngine: f,
		log:       log,
		sessions:  make(map[string]*Session),
	}
}

// NewSession creates and initializes a session, evicting sessions that
// have sat idle past the TTL.
func (c *Controller) NewSession() *Session {
	s := newSession(c.defs, c.newEngine, c.cfg, c.log)
	s.Initialize(c.cfg.InitialPages)
	c.mu.Lock()
	c.evictIdleLocked(time.Now())
	c.sessions[s.ID] = s
	c.mu.Unlock()
	if c.log != nil {
		c.log.Debugw("feed session created", "session", s.ID, "pages", s.Len())
	}
	return s
}

// Session looks up a live session by ID and refreshes its idle clock.
func (c *Controller) Session(id string) (*Session, bool) {
	c.mu.RLock()
	s, ok := c.sessions[id]
	c.mu.RUnlock()
	if ok {
		s.touchSeen()
	}
	return s, ok
}

func (c *Controller) evictIdleLocked(now time.Time) {
	for id, s := range c.sessions {
		if s.idleFor(now) > c.cfg.SessionTTL {
			delete(c.sessions, id)
			if c.log != nil {
				c.log.Debugw("idle feed session evicted", "session", id)
			}
		}
	}
}
