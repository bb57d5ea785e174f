// internal/game/engine.go
//
// Turn orchestrator for a single Bribe the Scale run.
// Responsibilities:
//   - Own the mutable State; expose Reset/PublicState/Submit.
//   - Gate submissions: game over, empty input, end command, duplicate raw
//     input (before any oracle call).
//   - Resolve a turn: judge with bounded retry, normalize/validate, dedup on
//     canonical name, resolve display asset, evaluate, score or deduct a
//     life, progress difficulty, detect game over.
//
// Concurrency: the engine is not internally synchronized. Callers exposing
// it over the network must serialize Submit/Reset per engine instance (the
// HTTP layer holds one mutex per engine).

package game

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/bribethescale/go-server/internal/assets"
	"github.com/bribethescale/go-server/internal/judge"
	"github.com/bribethescale/go-server/internal/text"
	"github.com/bribethescale/go-server/internal/trace"
)

// judgeAttempts bounds the oracle retry loop: one retry, then fatal.
const judgeAttempts = 2

// Engine drives the per-turn state machine.
type Engine struct {
	cfg     Config
	judge   judge.Client
	assets  assets.Resolver
	planner progressionPlanner
	script  *demoScript
	rng     *rand.Rand
	state   *State
}

// New constructs an Engine with fresh state. In demo mode the progression
// script is loaded once here and scripted progression replaces the oracle's
// proposals for the whole run.
func New(cfg Config, judgeClient judge.Client, assetResolver assets.Resolver) (*Engine, error) {
	if judgeClient == nil {
		return nil, fmt.Errorf("game: judge client is required")
	}
	if assetResolver == nil {
		return nil, fmt.Errorf("game: asset resolver is required")
	}

	e := &Engine{
		cfg:    cfg,
		judge:  judgeClient,
		assets: assetResolver,
		rng:    rand.New(rand.NewSource(42)),
		state:  newState(cfg),
	}
	if cfg.DemoMode {
		e.script = loadDemoScript(cfg.DemoProgressionPath)
		e.planner = scriptedPlan{script: e.script}
	} else {
		e.planner = oraclePlan{}
	}

	log.Info().
		Str("component", "engine").
		Str("event", "init.ready").
		Str("model", cfg.JudgeModel).
		Int("start_lives", cfg.StartLives).
		Int("start_min_g", cfg.StartMinWeightG).
		Int("start_max_g", cfg.StartMaxWeightG).
		Float64("min_max_lock_ratio", cfg.MinMaxLockRatio).
		Bool("demo_mode", cfg.DemoMode).
		Msg("engine ready")
	return e, nil
}

// Reset reinitializes state to configured starting values and returns the
// new public snapshot. Callable from any state, including terminal.
func (e *Engine) Reset() Snapshot {
	e.state = newState(e.cfg)
	log.Info().
		Str("component", "engine").
		Str("event", "reset.state_initialized").
		Int("turn", e.state.Turn).
		Int("lives", e.state.Lives).
		Int("min_g", e.state.MinG).
		Int("max_g", e.state.MaxG).
		Msg("state reset")
	return e.PublicState()
}

// PublicState snapshots the current state for clients.
func (e *Engine) PublicState() Snapshot {
	s := e.state
	snap := Snapshot{
		Turn:           s.Turn,
		Score:          s.Score,
		Lives:          s.Lives,
		MinG:           s.MinG,
		MaxG:           s.MaxG,
		ActiveRules:    append([]string{}, s.ActiveRules...),
		RangeLocked:    s.RangeLocked,
		GameOver:       s.GameOver,
		GameOverReason: s.GameOverReason,
		Config: ConfigSnapshot{
			TimerSeconds:          e.cfg.TimerSeconds,
			StartLives:            e.cfg.StartLives,
			EndCommand:            e.cfg.EndCommand,
			EvaluationMinSeconds:  e.cfg.EvaluationMinSeconds,
			JudgeModel:            e.cfg.JudgeModel,
			HoldAllowedAfterTurn:  e.cfg.HoldAllowedAfterTurn,
			HoldThinBoundarySpanG: e.cfg.HoldThinBoundarySpanG,
			MinMaxLockRatio:       e.cfg.MinMaxLockRatio,
			DemoMode:              e.cfg.DemoMode,
		},
	}
	if e.cfg.DemoMode {
		demoTurn := s.DemoProgressionTurn
		snap.DemoProgressionTurn = &demoTurn
		snap.Config.DemoProgressionPath = e.cfg.DemoProgressionPath
	}
	return snap
}

// Submit is the single entry point for player input. It returns a non-error
// Result for every rejected submission (empty, duplicate, end command, game
// over); the only error case is a fatal oracle or asset failure, in which
// case no state has been mutated beyond the recorded used keys.
func (e *Engine) Submit(ctx context.Context, inputText string) (*Result, error) {
	traceID := trace.ID(ctx)

	if e.state.GameOver {
		log.Info().
			Str("component", "engine").
			Str("event", "submit.blocked_game_over").
			Str("trace_id", traceID).
			Str("reason", e.state.GameOverReason).
			Msg("submission after game over")
		return &Result{
			Type:    ResultGameOver,
			Message: "Game is already over. Start a new run.",
			State:   e.PublicState(),
		}, nil
	}

	raw := strings.TrimSpace(inputText)
	if raw == "" {
		return &Result{
			Type:    ResultEmptyInput,
			Message: "Type one item to continue.",
			State:   e.PublicState(),
		}, nil
	}

	if strings.EqualFold(raw, e.cfg.EndCommand) {
		e.state.GameOver = true
		e.state.GameOverReason = "end_command"
		log.Info().
			Str("component", "engine").
			Str("event", "submit.end_command").
			Str("trace_id", traceID).
			Str("command", e.cfg.EndCommand).
			Msg("run ended by command")
		return &Result{
			Type:    ResultEndCommand,
			Message: "Run ended by command.",
			State:   e.PublicState(),
		}, nil
	}

	rawKey := text.Slugify(raw)
	if rawKey == "" {
		rawKey = strings.ToLower(raw)
	}
	if e.state.UsedInputKeys[rawKey] {
		log.Info().
			Str("component", "engine").
			Str("event", "submit.duplicate_raw_input").
			Str("trace_id", traceID).
			Int("turn", e.state.Turn).
			Str("raw_key", rawKey).
			Msg("duplicate raw input")
		return &Result{
			Type:          ResultDuplicate,
			Message:       fmt.Sprintf("Word already used: %q. Try a different object.", raw),
			CanonicalName: raw,
			State:         e.PublicState(),
		}, nil
	}

	return e.runTurn(ctx, raw, rawKey)
}

func (e *Engine) runTurn(ctx context.Context, rawInput, rawKey string) (*Result, error) {
	traceID := trace.ID(ctx)
	s := e.state

	judgment, err := e.judgeWithRetry(ctx, rawInput)
	if err != nil {
		return nil, err
	}

	canonicalName := judgment.CanonicalName
	canonicalKey := text.Slugify(canonicalName)
	if canonicalKey == "" {
		canonicalKey = strings.ToLower(strings.TrimSpace(canonicalName))
	}
	if canonicalKey == "" {
		canonicalKey = text.Slugify(rawInput)
	}
	if s.UsedCanonical[canonicalKey] {
		// The raw key is deliberately not recorded on this path: a phrasing
		// that collides on canonical form may be retried later, at the cost
		// of a fresh oracle call each time.
		log.Info().
			Str("component", "engine").
			Str("event", "submit.duplicate_canonical").
			Str("trace_id", traceID).
			Int("turn", s.Turn).
			Str("canonical_key", canonicalKey).
			Msg("duplicate canonical name")
		return &Result{
			Type:          ResultDuplicate,
			Message:       fmt.Sprintf("Word already used: %q. Try a different object.", canonicalName),
			CanonicalName: canonicalName,
			State:         e.PublicState(),
		}, nil
	}
	s.UsedCanonical[canonicalKey] = true
	if rawKey != "" {
		s.UsedInputKeys[rawKey] = true
	}

	asset, err := e.assets.Resolve(ctx, canonicalName)
	if err != nil {
		return nil, fmt.Errorf("resolve asset for %q: %w", canonicalName, err)
	}

	eval := evaluate(
		judgment.EstimatedWeightG,
		judgment.RuleChecks,
		judgment.Cheating,
		judgment.CheatingReason,
		s.MinG, s.MaxG,
		s.ActiveRules,
	)

	log.Info().
		Str("component", "engine").
		Str("event", "llm_judgment.done").
		Str("trace_id", traceID).
		Str("canonical_name", canonicalName).
		Int("estimated_weight_g", judgment.EstimatedWeightG).
		Bool("cheating", eval.Cheating).
		Bool("within_range", eval.WithinRange).
		Bool("rules_ok", eval.RulesOK).
		Bool("pass_computed", eval.Passed).
		Strs("active_rules", s.ActiveRules).
		Msg("judgment evaluated")

	var progressionActions []string
	var ruling, uiAnswer string

	if eval.Passed {
		s.Score += e.pointsForPass()
		if e.demoWinReached() {
			s.GameOver = true
			s.GameOverReason = "demo_win"
			log.Info().
				Str("component", "engine").
				Str("event", "demo.win").
				Str("trace_id", traceID).
				Int("turn", s.Turn).
				Int("demo_progression_turn", s.DemoProgressionTurn).
				Msg("demo script completed")
		} else {
			proposed, allowSet, scripted := e.planner.plan(s, judgment)
			progressionActions = e.applyProgression(traceID, proposed, allowSet, allowSet)
			if scripted {
				s.DemoProgressionTurn++
			}
		}
		ruling = RulingCorrect
		uiAnswer = judgment.UIAnswer
		if uiAnswer == "" {
			uiAnswer = successLines[e.rng.Intn(len(successLines))]
		}
	} else {
		s.Lives--
		ruling = RulingWrong
		uiAnswer = judgment.UIAnswer
		if uiAnswer == "" {
			uiAnswer = roastLines[e.rng.Intn(len(roastLines))]
		}
	}
	uiAnswer = limitTwoLines(uiAnswer)

	s.Turn++

	if s.Lives <= 0 && !s.GameOver {
		s.GameOver = true
		s.GameOverReason = "no_lives"
	}

	log.Info().
		Str("component", "engine").
		Str("event", "run_turn.result").
		Str("trace_id", traceID).
		Str("ruling", ruling).
		Bool("passed", eval.Passed).
		Int("score", s.Score).
		Int("lives", s.Lives).
		Int("min_g", s.MinG).
		Int("max_g", s.MaxG).
		Strs("progression_actions", progressionActions).
		Msg("turn resolved")

	passed := eval.Passed
	return &Result{
		Type:               ResultTurn,
		Ruling:             ruling,
		Pass:               &passed,
		CanonicalName:      canonicalName,
		InterpretedMeaning: judgment.InterpretedMeaning,
		WeightG:            judgment.EstimatedWeightG,
		Reason:             eval.Reason,
		Notes:              judgment.Notes,
		RuleFail:           eval.RuleFail,
		UIAnswer:           uiAnswer,
		ProgressionActions: progressionActions,
		ItemAsset:          itemAsset(asset),
		State:              e.PublicState(),
	}, nil
}

// judgeWithRetry calls the oracle up to judgeAttempts times, treating both
// transport errors and normalization/validation failures as transient. No
// state is mutated between attempts.
func (e *Engine) judgeWithRetry(ctx context.Context, rawInput string) (*Judgment, error) {
	traceID := trace.ID(ctx)
	tc := e.buildTurnContext(rawInput)

	var lastErr error
	for attempt := 1; attempt <= judgeAttempts; attempt++ {
		payload, err := e.judge.Judge(ctx, tc)
		if err == nil {
			var judgment *Judgment
			judgment, err = normalizeJudgment(payload, rawInput)
			if err == nil {
				err = validateJudgment(judgment, e.state.ActiveRules)
			}
			if err == nil {
				return judgment, nil
			}
		}
		lastErr = err
		log.Error().
			Str("component", "engine").
			Str("event", "judge.error").
			Str("trace_id", traceID).
			Int("attempt", attempt).
			Err(err).
			Msg("judge attempt failed")
	}
	return nil, &OracleUnavailableError{Attempts: judgeAttempts, Last: lastErr}
}

// buildTurnContext assembles the oracle request for the current turn.
func (e *Engine) buildTurnContext(rawInput string) judge.TurnContext {
	s := e.state
	used := make([]string, 0, len(s.UsedCanonical))
	for key := range s.UsedCanonical {
		used = append(used, key)
	}
	sort.Strings(used)

	return judge.TurnContext{
		InputText:          rawInput,
		Turn:               s.Turn,
		RangeG:             judge.RangeG{Min: s.MinG, Max: s.MaxG},
		ActiveRules:        append([]string{}, s.ActiveRules...),
		UsedCanonicalCount: len(used),
		UsedCanonical:      used,
		RuleExamples:       append([]string{}, ruleExamples...),
		RuleDesign: judge.RuleDesign{
			Goal:                    "maximize engagement with simple, fun constraints",
			TargetRuleWordCount:     "2-6 words",
			PreferBroadReusableRule: true,
		},
		Progression: judge.Progression{
			MaxActions:           e.cfg.MaxProgressionActionsPerTurn,
			RuleAddMinTurn:       e.cfg.RuleAddMinTurn,
			MaxRules:             e.cfg.MaxRules,
			MaxShrinkFactor:      e.cfg.MaxShrinkFactor,
			MinimumEnlargeFactor: e.cfg.MinimumEnlargeFactor,
			HoldPolicy: judge.HoldPolicy{
				AllowedAfterTurn:  e.cfg.HoldAllowedAfterTurn,
				ThinBoundarySpanG: e.cfg.HoldThinBoundarySpanG,
				CurrentSpanG:      s.spanG(),
			},
		},
		Policy: judge.Policy{
			PluralWithoutCountMeansOne: true,
			EstimateUnknownAnyway:      true,
			ExplicitMeasureBanned:      true,
		},
	}
}

// pointsForPass awards 3 points once the game is hard (thin range or
// stacked rules), else 1.
func (e *Engine) pointsForPass() int {
	if e.state.MaxG <= 1000 || len(e.state.ActiveRules) >= 2 {
		return 3
	}
	return 1
}

// demoWinReached reports whether the scripted run has been solved past its
// final configured step.
func (e *Engine) demoWinReached() bool {
	if !e.cfg.DemoMode || e.script == nil {
		return false
	}
	final := e.script.finalTurn()
	if final == 0 {
		return false
	}
	return e.state.DemoProgressionTurn > final
}
