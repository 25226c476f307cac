package store

import "time"

type Kind string

const (
	KindConversion Kind = "conversion"
	KindContinuous Kind = "continuous"
)

// Valid reports whether k is a known experiment kind.
func (k Kind) Valid() bool {
	return k == KindConversion || k == KindContinuous
}

type Experiment struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Kind      Kind      `json:"kind"`
	Arms      []string  `json:"arms"` // Decoded from JSON, control first
	CreatedAt time.Time `json:"created_at"`
}

// HasArm reports whether arm is one of the experiment's arms.
func (e *Experiment) HasArm(arm string) bool {
	for _, a := range e.Arms {
		if a == arm {
			return true
		}
	}
	return false
}

type Observation struct {
	Arm   string
	Value float64 // 0 or 1 for conversion experiments
}

type ArmCount struct {
	Arm       string
	Successes int
	Total     int
}

// experimentRow is the database shape of an Experiment.
type experimentRow struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	Kind      string `db:"kind"`
	Arms      string `db:"arms"`
	CreatedAt int64  `db:"created_at"`
}
