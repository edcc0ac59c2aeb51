package battle

// SnapshotSpec selects which turn boundaries to capture. Capture is
// observer-only: it never changes simulation behavior.
type SnapshotSpec struct {
	Turns  map[int]bool
	Phases map[Phase]bool
}

func (s *SnapshotSpec) wants(turn int, phase Phase) bool {
	if s == nil {
		return false
	}
	return s.Turns[turn] && s.Phases[phase]
}

// Snapshot is the per-actor state at a turn boundary.
type Snapshot struct {
	Turn   int
	Phase  Phase
	Actor  string
	Actors []ActorState
}

// ActorState is one actor's observable state inside a snapshot.
type ActorState struct {
	Name            string
	TurnMeter       float64
	Speed           float64
	EffectiveSpeed  float64
	Form            string
	Shield          int
	HP              float64
	ActiveInstances []string
}

func captureSnapshot(turn int, phase Phase, acting *Actor, actors []*Actor) Snapshot {
	snap := Snapshot{Turn: turn, Phase: phase, Actor: acting.Name}
	for _, a := range actors {
		st := ActorState{
			Name:           a.Name,
			TurnMeter:      a.TurnMeter,
			Speed:          a.baseSpeed(),
			EffectiveSpeed: a.EffectiveSpeed(),
			Form:           a.Form,
			Shield:         a.Shield,
			HP:             a.HP,
		}
		for _, e := range a.Effects {
			st.ActiveInstances = append(st.ActiveInstances, e.InstanceID)
		}
		snap.Actors = append(snap.Actors, st)
	}
	return snap
}
