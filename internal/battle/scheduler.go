package battle

import (
	"go.uber.org/zap"
)

// Fill policy defaults, fixed by the observed real-battle pacing. Both are
// options so an adopting test suite can pin its own numeric policy.
const (
	DefaultFillGate = 1430.0
	DefaultEpsilon  = 1e-9
	DefaultMaxTicks = 50
)

type Options struct {
	// FillGate is the turn-meter eligibility threshold (a gate, not a cap).
	FillGate float64
	// Epsilon absorbs float accumulation error at the gate test.
	Epsilon float64

	SequencePolicy SequencePolicy
	CooldownPolicy CooldownPolicy

	// MaxTicks bounds the run; reaching it is a clean terminal condition.
	MaxTicks int
	// StopAfterBossTurns ends the run once the boss has completed N turns.
	StopAfterBossTurns int

	// HitOverrides supplies shield hits per actor for rosters without
	// skill scripts. The "REFLECT" key models non-actor hits and applies
	// on every turn.
	HitOverrides map[string]int

	Snapshots *SnapshotSpec
}

// Scheduler advances the global clock, fills turn meters, selects the next
// actor, and drives the four-phase turn state machine. All mutation of meter
// and turn state happens here; everything observable goes through the stream.
type Scheduler struct {
	actors   []*Actor
	stream   *Stream
	book     *SkillBook
	guard    *ProcGuard
	resolver ExpirationResolver
	log      *zap.Logger
	opts     Options

	turnCounter int
	bossTurns   int
	snapshots   []Snapshot
}

func NewScheduler(actors []*Actor, stream *Stream, book *SkillBook, guard *ProcGuard, log *zap.Logger, opts Options) (*Scheduler, error) {
	if err := validateActors(actors); err != nil {
		return nil, err
	}
	if opts.FillGate <= 0 {
		opts.FillGate = DefaultFillGate
	}
	if opts.Epsilon <= 0 {
		opts.Epsilon = DefaultEpsilon
	}
	if opts.CooldownPolicy == "" {
		opts.CooldownPolicy = CooldownShared
	}
	if book == nil {
		book = NewSkillBook(nil)
	}
	if guard == nil {
		guard = NewProcGuard(nil, nil)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		actors:   actors,
		stream:   stream,
		book:     book,
		guard:    guard,
		resolver: DurationResolver{},
		log:      log,
		opts:     opts,
	}, nil
}

// UseResolver swaps the expiration resolver. Substitutes must obey identical
// phase semantics; the caller's ordering assumptions do not change.
func (s *Scheduler) UseResolver(r ExpirationResolver) {
	if r != nil {
		s.resolver = r
	}
}

func (s *Scheduler) Stream() *Stream       { return s.stream }
func (s *Scheduler) TurnCount() int        { return s.turnCounter }
func (s *Scheduler) BossTurns() int        { return s.bossTurns }
func (s *Scheduler) Snapshots() []Snapshot { return s.snapshots }

func (s *Scheduler) boss() *Actor {
	for _, a := range s.actors {
		if a.IsBoss {
			return a
		}
	}
	return nil
}

// StepTick advances the simulation by one global tick and runs at most one
// turn. Returns the actor that acted, or nil if nobody passed the gate.
//
// Pending extra turns preempt the fill: they are granted, not earned, and do
// not advance the global clock.
func (s *Scheduler) StepTick() (*Actor, error) {
	if err := validateActors(s.actors); err != nil {
		return nil, err
	}

	var acting *Actor
	extra := false
	for _, a := range s.actors {
		if a.ExtraTurns > 0 {
			a.ExtraTurns--
			acting = a
			extra = true
			break
		}
	}

	// Normal ticks advance the clock. An extra turn reuses the current
	// tick, except that the very first emission still needs a started tick.
	if !extra || s.stream.Tick() == 0 {
		s.stream.StartTick()
		s.stream.Emit(EventTickStart, "", nil)
	}

	if acting == nil {
		// Simultaneous fill from effective speed, recomputed this tick.
		for _, a := range s.actors {
			a.TurnMeter += a.EffectiveSpeed()
		}
		meters := make([]map[string]any, 0, len(s.actors))
		for _, a := range s.actors {
			meters = append(meters, map[string]any{
				"name":       a.Name,
				"turn_meter": a.TurnMeter,
			})
		}
		s.stream.Emit(EventFillComplete, "", map[string]any{"meters": meters})

		// Highest meter wins; ties by higher speed, then roster slot.
		for _, a := range s.actors {
			if a.TurnMeter+s.opts.Epsilon < s.opts.FillGate {
				continue
			}
			if acting == nil {
				acting = a
				continue
			}
			if a.TurnMeter > acting.TurnMeter ||
				(a.TurnMeter == acting.TurnMeter && a.baseSpeed() > acting.baseSpeed()) {
				acting = a
			}
		}
		if acting == nil {
			return nil, nil
		}
	}

	s.stream.Emit(EventWinnerSelected, acting.Name, map[string]any{
		"pre_reset_tm": acting.TurnMeter,
		"slot":         acting.Slot,
		"extra_turn":   extra,
	})
	// Overflow is discarded.
	acting.TurnMeter = 0
	s.stream.Emit(EventResetApplied, acting.Name, nil)

	if err := s.runTurn(acting, extra); err != nil {
		return nil, err
	}
	return acting, nil
}

// runTurn drives one turn: TURN_START, begin-phase resolution, action,
// end-phase resolution, proc guard, TURN_END.
func (s *Scheduler) runTurn(acting *Actor, extra bool) error {
	s.turnCounter++
	ctx := TurnContext{
		Turn:   s.turnCounter,
		Extra:  extra,
		Actor:  acting,
		Actors: s.actors,
		Stream: s.stream,
		Gate:   s.opts.FillGate,
	}

	// The boss shield refills at the start of the boss's own turn, before
	// TURN_START is observable.
	if acting.IsBoss && acting.ShieldMax > 0 {
		acting.Shield = acting.ShieldMax
	}

	data := map[string]any{"turn_counter": s.turnCounter}
	if extra {
		data["extra_turn"] = true
	}
	s.addShieldSnapshot(data)
	if joiners := s.joinAttackJoiners(acting); len(joiners) > 0 {
		data["join_attack_joiners"] = joiners
	}
	s.stream.Emit(EventTurnStart, acting.Name, data)

	if s.opts.Snapshots.wants(s.turnCounter, PhaseBeginTurn) {
		s.snapshots = append(s.snapshots, captureSnapshot(s.turnCounter, PhaseBeginTurn, acting, s.actors))
	}

	// Cooldowns decrement at TURN_START and the result is visible before
	// action selection.
	for k, v := range acting.Cooldowns {
		if v > 0 {
			acting.Cooldowns[k] = v - 1
		}
	}

	if _, err := s.resolver.Resolve(PhaseBeginTurn, ctx); err != nil {
		return err
	}

	hits, acted, err := s.book.ResolveAction(ctx, s.opts.SequencePolicy, s.opts.CooldownPolicy)
	if err != nil {
		return err
	}
	// Overrides stand in for missing skill scripts only; a scripted skill
	// that deals zero hits deals zero hits.
	if !acted {
		hits = s.opts.HitOverrides[acting.Name]
	}
	s.applyShieldHits(acting, hits)

	endExpired, err := s.resolver.Resolve(PhaseEndTurn, ctx)
	if err != nil {
		return err
	}

	s.guard.Resolve(ctx, endExpired)

	if s.opts.Snapshots.wants(s.turnCounter, PhaseEndTurn) {
		s.snapshots = append(s.snapshots, captureSnapshot(s.turnCounter, PhaseEndTurn, acting, s.actors))
	}

	endData := map[string]any{"turn_counter": s.turnCounter}
	s.addShieldSnapshot(endData)
	s.stream.Emit(EventTurnEnd, acting.Name, endData)

	if acting.IsBoss {
		s.bossTurns++
	}
	s.log.Debug("turn complete",
		zap.String("actor", acting.Name),
		zap.Int("turn", s.turnCounter),
		zap.Int("tick", s.stream.Tick()),
		zap.Bool("extra", extra),
	)
	return nil
}

func (s *Scheduler) addShieldSnapshot(data map[string]any) {
	boss := s.boss()
	if boss == nil || boss.ShieldMax <= 0 {
		return
	}
	status := "BROKEN"
	if boss.Shield > 0 {
		status = "UP"
	}
	data["boss_shield_value"] = boss.Shield
	data["boss_shield_status"] = status
}

// joinAttackJoiners lists allies sharing the acting champion's faction, the
// faction-gated composite-action surface. Trace-only: no attacks execute.
func (s *Scheduler) joinAttackJoiners(acting *Actor) []string {
	if acting.IsBoss || acting.Faction == "" {
		return nil
	}
	var joiners []string
	for _, a := range s.actors {
		if a == acting || a.IsBoss || a.Faction != acting.Faction {
			continue
		}
		joiners = append(joiners, a.Name)
	}
	return joiners
}

func (s *Scheduler) applyShieldHits(acting *Actor, hits int) {
	boss := s.boss()
	if boss == nil || boss.ShieldMax <= 0 {
		return
	}
	if hits > 0 {
		boss.Shield -= hits
		if boss.Shield < 0 {
			boss.Shield = 0
		}
		s.stream.Emit(EventShieldHit, boss.Name, map[string]any{
			"source": acting.Name,
			"hits":   hits,
			"shield": boss.Shield,
		})
	}
	if reflect := s.opts.HitOverrides["REFLECT"]; reflect > 0 {
		boss.Shield -= reflect
		if boss.Shield < 0 {
			boss.Shield = 0
		}
		s.stream.Emit(EventShieldHit, boss.Name, map[string]any{
			"source": "REFLECT",
			"hits":   reflect,
			"shield": boss.Shield,
		})
	}
}

// Run advances ticks until a run bound is reached, then emits RUN_COMPLETE.
// Reaching a bound is a clean terminal condition, not an error.
func (s *Scheduler) Run() error {
	maxTicks := s.opts.MaxTicks
	if maxTicks <= 0 {
		maxTicks = DefaultMaxTicks
	}
	// Bound on the clock rather than on iterations so that extra turns,
	// which do not advance the tick counter, do not eat into the budget.
	for s.stream.Tick() < maxTicks {
		acting, err := s.StepTick()
		if err != nil {
			return err
		}
		if acting == nil {
			continue
		}
		if s.opts.StopAfterBossTurns > 0 && s.bossTurns >= s.opts.StopAfterBossTurns {
			s.stream.Emit(EventRunComplete, "", map[string]any{
				"reason":     "boss_turns",
				"boss_turns": s.bossTurns,
				"ticks":      s.stream.Tick(),
			})
			s.log.Info("run complete", zap.String("reason", "boss_turns"), zap.Int("ticks", s.stream.Tick()))
			return nil
		}
	}
	s.stream.Emit(EventRunComplete, "", map[string]any{
		"reason": "max_ticks",
		"ticks":  s.stream.Tick(),
	})
	s.log.Info("run complete", zap.String("reason", "max_ticks"), zap.Int("ticks", s.stream.Tick()))
	return nil
}
