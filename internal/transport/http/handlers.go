package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"pdf-quiz-service/internal/app"
	"pdf-quiz-service/internal/domain"
)

const defaultMissedLimit = 10

// QuizHandler exposes the quiz use cases as a JSON API.
type QuizHandler struct {
	service       *app.QuizService
	defaultBankID string
}

func NewQuizHandler(service *app.QuizService, defaultBankID string) *QuizHandler {
	return &QuizHandler{service: service, defaultBankID: defaultBankID}
}

type openRequest struct {
	PlayerID string `json:"playerId"`
	BankID   string `json:"bankId"`
	Mode     string `json:"mode"`
	Count    int    `json:"count"`
}

type startRequest struct {
	Mode  string `json:"mode"`
	Count int    `json:"count"`
}

type answerRequest struct {
	Selection []string `json:"selection"`
}

type answerResponse struct {
	Result domain.AnswerResult `json:"result"`
	State  domain.SessionState `json:"state"`
}

type bankResponse struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

type reviewResponse struct {
	PlayerID    string `json:"playerId"`
	BankID      string `json:"bankId"`
	Count       int    `json:"count"`
	QuestionIDs []int  `json:"questionIds"`
}

type statsResponse struct {
	PlayerID   string             `json:"playerId"`
	Stats      domain.PlayerStats `json:"stats"`
	MostMissed []domain.MissCount `json:"mostMissed"`
}

// GetBank reports a bank and its size
// GET /api/banks/{bankId}
func (h *QuizHandler) GetBank(w http.ResponseWriter, r *http.Request) {
	bank, err := h.service.Bank(r.Context(), mux.Vars(r)["bankId"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bankResponse{ID: bank.ID, Count: len(bank.Questions)})
}

// OpenSession creates a session on the menu, or starts a quiz right away when a mode is given
// POST /api/sessions
func (h *QuizHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	var req openRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.PlayerID == "" {
		http.Error(w, "playerId is required", http.StatusBadRequest)
		return
	}
	if req.BankID == "" {
		req.BankID = h.defaultBankID
	}

	var mode domain.Mode
	if req.Mode != "" {
		parsed, err := domain.ParseMode(req.Mode)
		if err != nil {
			writeError(w, r, err)
			return
		}
		mode = parsed
	}

	state, err := h.service.Open(r.Context(), req.PlayerID, req.BankID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if mode != "" {
		started, err := h.service.Start(r.Context(), state.SessionID, app.StartRequest{Mode: mode, Count: req.Count})
		if err != nil {
			h.service.End(r.Context(), state.SessionID)
			writeError(w, r, err)
			return
		}
		state = started
	}
	writeJSON(w, http.StatusCreated, state)
}

// GetSession returns the session snapshot
// GET /api/sessions/{id}
func (h *QuizHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.State(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// StartQuiz builds a pool and shows the first question
// POST /api/sessions/{id}/start
func (h *QuizHandler) StartQuiz(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	mode, err := domain.ParseMode(req.Mode)
	if err != nil {
		writeError(w, r, err)
		return
	}
	state, err := h.service.Start(r.Context(), mux.Vars(r)["id"], app.StartRequest{Mode: mode, Count: req.Count})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Answer grades a selection
// POST /api/sessions/{id}/answer
func (h *QuizHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	result, state, err := h.service.Answer(r.Context(), mux.Vars(r)["id"], req.Selection)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, answerResponse{Result: result, State: state})
}

// Next moves to the following question or the summary
// POST /api/sessions/{id}/next
func (h *QuizHandler) Next(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Next(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Menu aborts the quiz and returns to the menu
// POST /api/sessions/{id}/menu
func (h *QuizHandler) Menu(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Menu(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// EndSession discards a session
// DELETE /api/sessions/{id}
func (h *QuizHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	h.service.End(r.Context(), mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

// GetReview lists the questions of a bank a player still has to review
// GET /api/players/{playerId}/review?bankId=default
func (h *QuizHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	playerID := mux.Vars(r)["playerId"]
	bankID := r.URL.Query().Get("bankId")
	if bankID == "" {
		bankID = h.defaultBankID
	}
	ids, err := h.service.ReviewQuestions(r.Context(), playerID, bankID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []int{}
	}
	writeJSON(w, http.StatusOK, reviewResponse{PlayerID: playerID, BankID: bankID, Count: len(ids), QuestionIDs: ids})
}

// GetStats reports the answer log of a player
// GET /api/players/{playerId}/stats?limit=10
func (h *QuizHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	playerID := mux.Vars(r)["playerId"]
	limit := defaultMissedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}
	stats, missed, err := h.service.Stats(r.Context(), playerID, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if missed == nil {
		missed = []domain.MissCount{}
	}
	writeJSON(w, http.StatusOK, statsResponse{PlayerID: playerID, Stats: stats, MostMissed: missed})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
