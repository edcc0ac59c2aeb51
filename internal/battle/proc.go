package battle

// ProcRequest is a user-declared expectation: "at my Nth consumed skill,
// exactly Count qualifying expirations back my mastery proc". It validates
// against reality; it never fabricates an event.
type ProcRequest struct {
	Holder  string
	Mastery string
	// Step is the holder's own skill-sequence step (1-based), never a
	// global tick or turn count.
	Step  int
	Count int
}

// Mastery describes the downstream effect of a validated proc. MeterGain is
// the fraction of the fill gate granted to the holder per proc count.
type Mastery struct {
	ID        string
	MeterGain float64
}

// ProcGuard translates end-phase expirations plus deterministic requests
// into exactly one outcome per request over the whole run: nothing, a
// single aggregated MASTERY_PROC, or a single MASTERY_PROC_REJECTED.
// Never a silent drop, never partial application, never a second outcome.
type ProcGuard struct {
	requests  []ProcRequest
	resolved  []bool
	masteries map[string]Mastery
}

func NewProcGuard(requests []ProcRequest, masteries []Mastery) *ProcGuard {
	g := &ProcGuard{
		requests:  requests,
		resolved:  make([]bool, len(requests)),
		masteries: map[string]Mastery{},
	}
	for _, m := range masteries {
		g.masteries[m.ID] = m
	}
	return g
}

// Resolve runs once per turn, after end-phase expirations and before
// TURN_END. Requests are considered in registration order.
//
// A request is live while the holder sits at its step: a placed buff may
// expire on another actor's turn, so an empty window does not reject the
// request, it stays pending. The request retires the first time a nonzero
// window is judged, or with a single rejection once the holder's step
// advances past it and no qualifying window ever arrived.
func (g *ProcGuard) Resolve(ctx TurnContext, endPhase []Expiration) {
	for i, req := range g.requests {
		if req.Count <= 0 || g.resolved[i] {
			continue
		}
		holder := findActor(ctx.Actors, req.Holder)
		if holder == nil {
			continue
		}
		if holder.SkillStep > req.Step {
			g.resolved[i] = true
			g.reject(ctx, req, 0)
			continue
		}
		if holder.SkillStep != req.Step {
			continue
		}

		qualifying := 0
		for _, exp := range endPhase {
			if exp.Effect.Kind == KindBuff && exp.Effect.PlacedBy == req.Holder {
				qualifying++
			}
		}
		if qualifying == 0 {
			continue
		}
		g.resolved[i] = true

		if qualifying != req.Count {
			g.reject(ctx, req, qualifying)
			continue
		}

		// One aggregated proc carrying the multiplicity: the effect is
		// applied once, scaled by count, never fanned out.
		ctx.Stream.Emit(EventMasteryProc, req.Holder, map[string]any{
			"holder":              req.Holder,
			"mastery":             req.Mastery,
			"count":               req.Count,
			"skill_sequence_step": req.Step,
			"turn_counter":        ctx.Turn,
		})
		if m, ok := g.masteries[req.Mastery]; ok && m.MeterGain > 0 {
			holder.TurnMeter += ctx.Gate * m.MeterGain * float64(req.Count)
		}
	}
}

func (g *ProcGuard) reject(ctx TurnContext, req ProcRequest, qualifying int) {
	ctx.Stream.Emit(EventMasteryProcRejected, req.Holder, map[string]any{
		"holder":              req.Holder,
		"mastery":             req.Mastery,
		"requested_count":     req.Count,
		"qualifying_count":    qualifying,
		"skill_sequence_step": req.Step,
		"turn_counter":        ctx.Turn,
		"reason":              "requested_count_mismatch",
	})
}

func findActor(actors []*Actor, name string) *Actor {
	for _, a := range actors {
		if a.Name == name {
			return a
		}
	}
	return nil
}
