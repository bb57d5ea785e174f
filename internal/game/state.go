// internal/game/state.go
//
// Mutable run state plus the public snapshot returned to clients.
// State is owned exclusively by the Engine; nothing outside this package
// mutates it, and the HTTP layer serializes Engine calls with its own lock.

package game

// State is the single mutable object of a run.
type State struct {
	Turn        int
	Score       int
	Lives       int
	MinG        int
	MaxG        int
	ActiveRules []string

	// UsedInputKeys and UsedCanonical are sets of normalized strings.
	// Membership is permanent for the run.
	UsedInputKeys map[string]bool
	UsedCanonical map[string]bool

	// DemoProgressionTurn advances only when a scripted progression step is
	// applied; failed submissions advance Turn but not this counter.
	DemoProgressionTurn int

	RangeLocked    bool
	GameOver       bool
	GameOverReason string
}

func newState(cfg Config) *State {
	return &State{
		Turn:                1,
		Lives:               cfg.StartLives,
		MinG:                cfg.StartMinWeightG,
		MaxG:                cfg.StartMaxWeightG,
		ActiveRules:         []string{},
		UsedInputKeys:       map[string]bool{},
		UsedCanonical:       map[string]bool{},
		DemoProgressionTurn: 1,
	}
}

func (s *State) spanG() int {
	if s.MaxG < s.MinG {
		return 0
	}
	return s.MaxG - s.MinG
}

// ConfigSnapshot echoes the configuration block inside the public snapshot.
type ConfigSnapshot struct {
	TimerSeconds          int     `json:"timer_seconds"`
	StartLives            int     `json:"start_lives"`
	EndCommand            string  `json:"end_command"`
	EvaluationMinSeconds  float64 `json:"evaluation_min_seconds"`
	JudgeModel            string  `json:"judge_model"`
	HoldAllowedAfterTurn  int     `json:"hold_allowed_after_turn"`
	HoldThinBoundarySpanG int     `json:"hold_thin_boundary_span_g"`
	MinMaxLockRatio       float64 `json:"min_max_lock_ratio"`
	DemoMode              bool    `json:"demo_mode"`
	DemoProgressionPath   string  `json:"demo_progression_path,omitempty"`
}

// Snapshot is the public state view returned by Reset/PublicState and
// embedded in every result.
type Snapshot struct {
	Turn                int      `json:"turn"`
	Score               int      `json:"score"`
	Lives               int      `json:"lives"`
	MinG                int      `json:"min_g"`
	MaxG                int      `json:"max_g"`
	ActiveRules         []string `json:"active_rules"`
	RangeLocked         bool     `json:"range_locked"`
	GameOver            bool     `json:"game_over"`
	GameOverReason      string   `json:"game_over_reason,omitempty"`
	DemoProgressionTurn *int     `json:"demo_progression_turn,omitempty"`

	Config ConfigSnapshot `json:"config"`
}
