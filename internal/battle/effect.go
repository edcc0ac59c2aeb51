package battle

import (
	"fmt"

	"github.com/google/uuid"
)

type EffectKind string

const (
	KindBuff   EffectKind = "BUFF"
	KindDebuff EffectKind = "DEBUFF"
	KindDOT    EffectKind = "DOT"
)

// Phase is one of the two fixed points in a turn at which effect instances
// trigger or have their duration decremented.
type Phase string

const (
	PhaseBeginTurn Phase = "BEGIN_TURN"
	PhaseEndTurn   Phase = "END_TURN"
)

// Well-known effect ids the kernel interprets directly. Anything else is
// carried as opaque state and only matters to its duration bookkeeping.
const (
	EffectDecreaseSpeed = "decrease_spd"
	EffectIncreaseSpeed = "increase_spd"
	EffectPoison        = "poison"
)

// EffectInstance is an immutable-identity, mutable-duration record attached
// to exactly one owner. Duration decrements at the instance's trigger phase;
// removal happens atomically with the EFFECT_EXPIRED event.
type EffectInstance struct {
	InstanceID   string
	EffectID     string
	Kind         EffectKind
	PlacedBy     string
	Duration     int
	TriggerPhase Phase
	// Magnitude is effect-specific: fraction for speed modifiers
	// (0.30 == 30%), flat damage per trigger for DOTs.
	Magnitude float64
	// AppliedTurn is the turn counter at placement. An instance never
	// decrements at a boundary of the turn it was placed in.
	AppliedTurn int
}

var effectNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("battlesim/effect"))

// EffectInstanceID derives a stable, collision-free instance id from the
// placement coordinates. Determinism requires ids to be reproducible across
// runs, so ids are content-derived rather than random.
func EffectInstanceID(placedBy, skillID string, step int, owner, effectID string) string {
	seed := fmt.Sprintf("%s/%s/%d/%s/%s", placedBy, skillID, step, owner, effectID)
	return "fx-" + uuid.NewSHA1(effectNamespace, []byte(seed)).String()
}

// speedMultiplier folds active speed-modifying effects into a single
// multiplicative factor. Magnitudes are clamped to [0, 1].
func speedMultiplier(effects []*EffectInstance) float64 {
	mult := 1.0
	for _, e := range effects {
		if e.Duration <= 0 {
			continue
		}
		mag := e.Magnitude
		if mag < 0 {
			mag = 0
		} else if mag > 1 {
			mag = 1
		}
		switch e.EffectID {
		case EffectDecreaseSpeed:
			mult *= 1.0 - mag
		case EffectIncreaseSpeed:
			mult *= 1.0 + mag
		}
	}
	return mult
}
