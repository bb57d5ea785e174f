// internal/httpserver/routes_game.go
//
// Handlers for the game API.
//   - GET  /api/state       → current public snapshot
//   - POST /api/start       → reset the run (finishes any open history run)
//   - POST /api/submit      → resolve one submission via the engine
//   - GET  /api/leaderboard → best finished runs
//   - GET  /api/prompt      → judge system prompt (debug aid)
//
// Every response carries ok + trace_id; submit failures surface as
// judge_error with a 500 so the client can tell "you lost" from "the judge
// is down".

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/bribethescale/go-server/internal/game"
	"github.com/bribethescale/go-server/internal/history"
	"github.com/bribethescale/go-server/internal/judge"
	"github.com/bribethescale/go-server/internal/trace"
)

type stateRes struct {
	OK      bool          `json:"ok"`
	State   game.Snapshot `json:"state"`
	TraceID string        `json:"trace_id"`
}

// submitRes flattens the turn result into the envelope.
type submitRes struct {
	OK bool `json:"ok"`
	*game.Result
	TraceID string `json:"trace_id"`
}

type submitReq struct {
	InputText string `json:"input_text"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handlePrompt exposes the judge system prompt so prompt tweaks can be
// inspected without digging through server logs.
func (s *Server) handlePrompt(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok": true, "system_prompt": judge.SystemPrompt(), "trace_id": trace.ID(r.Context()),
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := s.engine.PublicState()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, stateRes{OK: true, State: snap, TraceID: trace.ID(r.Context())})
}

// handleStart resets the engine. An unfinished history run is closed as
// "restarted" first so the leaderboard never shows dangling rows.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	s.mu.Lock()
	if s.runID != 0 && s.history != nil {
		prev := s.engine.PublicState()
		if !prev.GameOver {
			if err := s.history.FinishRun(ctx, s.runID, "restarted", prev.Score, prev.Turn); err != nil {
				log.Warn().Err(err).Int64("run_id", s.runID).Msg("finish abandoned run")
			}
		}
	}
	snap := s.engine.Reset()
	s.runID = 0
	if s.history != nil {
		runID, err := s.history.StartRun(ctx, snap.Config.DemoMode)
		if err != nil {
			log.Warn().Err(err).Msg("start history run")
		} else {
			s.runID = runID
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, stateRes{OK: true, State: snap, TraceID: trace.ID(ctx)})
}

// handleSubmit runs one submission through the engine under the server lock.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	traceID := trace.ID(ctx)

	var req submitReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", traceID)
		return
	}

	s.mu.Lock()
	result, err := s.engine.Submit(ctx, req.InputText)
	if err == nil {
		s.recordTurn(r, req.InputText, result)
	}
	s.mu.Unlock()

	if err != nil {
		var oracleErr *game.OracleUnavailableError
		if errors.As(err, &oracleErr) {
			log.Error().Err(err).Str("trace_id", traceID).Msg("judge unavailable")
			writeError(w, http.StatusInternalServerError, "judge_error: "+oracleErr.Error(), traceID)
			return
		}
		log.Error().Err(err).Str("trace_id", traceID).Msg("submit failed")
		writeError(w, http.StatusInternalServerError, "internal_error", traceID)
		return
	}

	writeJSON(w, http.StatusOK, submitRes{OK: true, Result: result, TraceID: traceID})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok": true, "rows": []history.LBRow{}, "trace_id": trace.ID(r.Context()),
		})
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	rows, err := s.history.Leaderboard(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("leaderboard query")
		writeError(w, http.StatusInternalServerError, "db_error", trace.ID(r.Context()))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok": true, "rows": rows, "trace_id": trace.ID(r.Context()),
	})
}

// recordTurn persists history for a resolved submission. Best effort: a dead
// database never blocks play. Caller holds s.mu.
func (s *Server) recordTurn(r *http.Request, inputText string, result *game.Result) {
	if s.history == nil || s.runID == 0 || result == nil {
		return
	}
	ctx := r.Context()

	if result.Type == game.ResultTurn {
		err := s.history.RecordTurn(ctx, history.Turn{
			RunID:         s.runID,
			Turn:          result.State.Turn - 1, // the turn just resolved
			InputText:     strings.TrimSpace(inputText),
			CanonicalName: result.CanonicalName,
			WeightG:       result.WeightG,
			Ruling:        result.Ruling,
			Reason:        result.Reason,
			ScoreAfter:    result.State.Score,
			LivesAfter:    result.State.Lives,
			MinGAfter:     result.State.MinG,
			MaxGAfter:     result.State.MaxG,
		})
		if err != nil {
			log.Warn().Err(err).Int64("run_id", s.runID).Msg("record turn")
		}
	}

	if result.State.GameOver {
		err := s.history.FinishRun(ctx, s.runID, result.State.GameOverReason,
			result.State.Score, result.State.Turn)
		if err != nil {
			log.Warn().Err(err).Int64("run_id", s.runID).Msg("finish run")
		}
		s.runID = 0
	}
}

// ------------------------------ JSON helpers -------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, traceID string) {
	writeJSON(w, status, map[string]any{"ok": false, "error": msg, "trace_id": traceID})
}
