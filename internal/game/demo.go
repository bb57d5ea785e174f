// internal/game/demo.go
//
// Scripted "demo" progression: a turn-indexed JSON plan that replaces the
// oracle's proposed actions. The progression source is chosen once at engine
// construction; the engine itself never branches on the demo flag during
// action application beyond granting set_range/set_rules to the script.

package game

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// demoScript is a parsed demo progression plan.
type demoScript struct {
	turns          map[int][]any
	defaultActions []any
}

func defaultDemoActions() []any {
	return []any{map[string]any{"type": actionShrinkMax}}
}

// loadDemoScript reads the plan file. Missing or malformed files degrade to
// the shrink_max default with a warning; demo mode must not take the server
// down.
func loadDemoScript(path string) *demoScript {
	script := &demoScript{
		turns:          map[int][]any{},
		defaultActions: defaultDemoActions(),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn().
			Str("component", "engine").
			Str("event", "demo_progression.missing_file").
			Str("config_path", path).
			Err(err).
			Msg("demo progression plan not readable; using defaults")
		return script
	}

	var parsed struct {
		Turns          map[string]json.RawMessage `json:"turns"`
		DefaultActions []any                      `json:"default_actions"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		log.Warn().
			Str("component", "engine").
			Str("event", "demo_progression.invalid_json").
			Str("config_path", path).
			Err(err).
			Msg("demo progression plan not valid JSON; using defaults")
		return script
	}

	loaded := map[int][]any{}
	for key, value := range parsed.Turns {
		turn, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || turn < 1 {
			continue
		}
		var actions []any
		if err := json.Unmarshal(value, &actions); err != nil {
			continue
		}
		loaded[turn] = actions
	}

	if len(parsed.DefaultActions) > 0 {
		script.defaultActions = parsed.DefaultActions
	}
	if len(loaded) > 0 {
		script.turns = loaded
	}

	turnsLoaded := make([]int, 0, len(script.turns))
	for turn := range script.turns {
		turnsLoaded = append(turnsLoaded, turn)
	}
	log.Info().
		Str("component", "engine").
		Str("event", "demo_progression.loaded").
		Str("config_path", path).
		Ints("turns_loaded", turnsLoaded).
		Msg("demo progression plan loaded")
	return script
}

func (d *demoScript) actionsFor(turn int) []any {
	if actions, ok := d.turns[turn]; ok {
		return append([]any(nil), actions...)
	}
	return append([]any(nil), d.defaultActions...)
}

// finalTurn returns the highest scripted turn, or 0 when the plan is empty.
func (d *demoScript) finalTurn() int {
	final := 0
	for turn := range d.turns {
		if turn > final {
			final = turn
		}
	}
	return final
}

// progressionPlanner selects the action source for a passing turn.
// allowSet reports whether set_range/set_rules are permitted (demo only);
// scripted reports whether the demo counter should advance afterwards.
type progressionPlanner interface {
	plan(s *State, j *Judgment) (actions []any, allowSet bool, scripted bool)
}

// oraclePlan forwards the judge's proposed actions.
type oraclePlan struct{}

func (oraclePlan) plan(_ *State, j *Judgment) ([]any, bool, bool) {
	return j.ProgressionActions, false, false
}

// scriptedPlan replaces oracle proposals with the demo plan for the current
// demo progression turn.
type scriptedPlan struct {
	script *demoScript
}

func (p scriptedPlan) plan(s *State, _ *Judgment) ([]any, bool, bool) {
	return p.script.actionsFor(s.DemoProgressionTurn), true, true
}
