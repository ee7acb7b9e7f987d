package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"

	"svw.info/tacticsfeed/internal/domain"
	"svw.info/tacticsfeed/internal/feed"
	"svw.info/tacticsfeed/internal/usecase"
)

type Handler struct {
	UC *usecase.Service
}

func New(uc *usecase.Service) *Handler { return &Handler{UC: uc} }

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/session", h.handleSession)
	mux.HandleFunc("/api/feed", h.handleFeed)
	mux.HandleFunc("/api/view", h.handleView)
	mux.HandleFunc("/api/moves", h.handleMoves)
	mux.HandleFunc("/api/move", h.handleMove)
	mux.HandleFunc("/api/hint", h.handleHint)
	mux.HandleFunc("/api/like", h.handleLike)
	mux.HandleFunc("/api/star", h.handleStar)
	mux.HandleFunc("/api/onboarding", h.handleOnboarding)
	mux.HandleFunc("/api/onboarding/complete", h.handleOnboardingComplete)
}

// pageView is the read model the presentation layer renders from.
type pageView struct {
	ID              string               `json:"id"`
	Index           int                  `json:"index"`
	FEN             string               `json:"fen"`
	Tactic          string               `json:"tactic"`
	SideToPlay      domain.Side          `json:"sideToPlay"`
	StepIndex       int                  `json:"stepIndex"`
	Steps           int                  `json:"steps"`
	State           domain.InstanceState `json:"state"`
	Solved          bool                 `json:"solved"`
	Liked           bool                 `json:"liked"`
	Starred         bool                 `json:"starred"`
	Version         uint64               `json:"version"`
	LastMove        *domain.MovePair     `json:"lastMove,omitempty"`
	LastMoveCorrect *bool                `json:"lastMoveCorrect,omitempty"`
}

func toView(p domain.PuzzleInstance, index int) pageView {
	v := pageView{
		ID:         p.ID,
		Index:      index,
		FEN:        p.FEN,
		Tactic:     p.Tactic,
		SideToPlay: p.SideToPlay,
		StepIndex:  p.StepIndex,
		Steps:      len(p.Solution),
		State:      p.State(),
		Solved:     p.Solved,
		Liked:      p.Liked,
		Starred:    p.Starred,
		Version:    p.Version,
		LastMove:   p.LastMove,
	}
	switch p.LastVerdict {
	case domain.VerdictCorrect:
		t := true
		v.LastMoveCorrect = &t
	case domain.VerdictIncorrect:
		f := false
		v.LastMoveCorrect = &f
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type errResp struct {
	Error string `json:"error"`
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errResp{Error: msg})
}

// statusFor maps usecase errors onto client-facing codes. All of these
// indicate client bugs (stale session, bad index), not user mistakes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrSessionUnknown):
		return http.StatusNotFound
	case errors.Is(err, feed.ErrPageNotFound):
		return http.StatusNotFound
	case errors.Is(err, feed.ErrIllegalMove):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// ---- Session / Feed ----

type feedResp struct {
	SessionID    string     `json:"sessionId"`
	Pages        []pageView `json:"pages"`
	CurrentIndex int        `json:"currentIndex"`
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s, err := h.UC.NewSession()
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	pages, current := s.Snapshot()
	writeJSON(w, http.StatusOK, feedResp{SessionID: s.ID, Pages: toViews(pages), CurrentIndex: current})
}

func (h *Handler) handleFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id := r.URL.Query().Get("session")
	pages, current, err := h.UC.Pages(id)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, feedResp{SessionID: id, Pages: toViews(pages), CurrentIndex: current})
}

func toViews(pages []domain.PuzzleInstance) []pageView {
	out := make([]pageView, len(pages))
	for i, p := range pages {
		out[i] = toView(p, i)
	}
	return out
}

// ---- View tracking ----

type viewReq struct {
	Session string `json:"session"`
	Index   int    `json:"index"`
}

type viewResp struct {
	CurrentIndex int `json:"currentIndex"`
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req viewReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	current, err := h.UC.RecordView(req.Session, req.Index)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, viewResp{CurrentIndex: current})
}

// ---- Legal moves ----

type movesReq struct {
	Session string        `json:"session"`
	Index   int           `json:"index"`
	From    domain.Square `json:"from"`
}

type movesResp struct {
	Moves []domain.LegalMove `json:"moves"`
}

func (h *Handler) handleMoves(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req movesReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	moves, err := h.UC.LegalMoves(req.Session, req.Index, req.From)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	if moves == nil {
		moves = []domain.LegalMove{}
	}
	writeJSON(w, http.StatusOK, movesResp{Moves: moves})
}

// ---- Play move ----

type moveReq struct {
	Session   string           `json:"session"`
	Index     int              `json:"index"`
	From      domain.Square    `json:"from"`
	To        domain.Square    `json:"to"`
	Promotion domain.PieceKind `json:"promotion,omitempty"`
}

type moveResp struct {
	Page           pageView `json:"page"`
	Correct        *bool    `json:"correct,omitempty"`
	Solved         bool     `json:"solved"`
	Capture        bool     `json:"capture,omitempty"`
	SAN            string   `json:"san,omitempty"`
	AdvanceTo      *int     `json:"advanceTo,omitempty"`
	AdvanceDelayMs int64    `json:"advanceDelayMs,omitempty"`
}

func (h *Handler) handleMove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req moveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	res, err := h.UC.PlayMove(req.Session, req.Index, domain.Move{
		From:      req.From,
		To:        req.To,
		Promotion: req.Promotion,
	})
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	resp := moveResp{
		Page:    toView(res.Page, req.Index),
		Solved:  res.Outcome.Solved,
		Capture: res.Record.Capture,
		SAN:     res.Record.SAN,
	}
	switch res.Outcome.Verdict {
	case domain.VerdictCorrect:
		t := true
		resp.Correct = &t
	case domain.VerdictIncorrect:
		f := false
		resp.Correct = &f
	}
	if res.Scheduled {
		target := res.AdvanceTo
		resp.AdvanceTo = &target
		resp.AdvanceDelayMs = res.AdvanceIn.Milliseconds()
	}
	writeJSON(w, http.StatusOK, resp)
}

// ---- Hint ----

type hintReq struct {
	Session string `json:"session"`
	Index   int    `json:"index"`
}

type hintResp struct {
	Found bool             `json:"found"`
	Hint  *domain.MovePair `json:"hint,omitempty"`
}

func (h *Handler) handleHint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req hintReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	mp, found, err := h.UC.Hint(req.Session, req.Index)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	resp := hintResp{Found: found}
	if found {
		resp.Hint = &mp
	}
	writeJSON(w, http.StatusOK, resp)
}

// ---- Reactions ----

type reactionReq struct {
	Session string `json:"session"`
	ID      string `json:"id"`
}

type likeResp struct {
	Liked     bool `json:"liked"`
	Celebrate bool `json:"celebrate,omitempty"`
}

func (h *Handler) handleLike(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req reactionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	liked, celebrate, err := h.UC.ToggleLike(req.Session, req.ID)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, likeResp{Liked: liked, Celebrate: celebrate})
}

type starResp struct {
	Starred bool `json:"starred"`
}

func (h *Handler) handleStar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req reactionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	starred, err := h.UC.ToggleStar(req.Session, req.ID)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, starResp{Starred: starred})
}

// ---- Onboarding ----

type onboardingResp struct {
	Completed bool `json:"completed"`
}

func (h *Handler) handleOnboarding(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, onboardingResp{Completed: h.UC.OnboardingCompleted(r.Context())})
}

func (h *Handler) handleOnboardingComplete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	h.UC.CompleteOnboarding(r.Context())
	writeJSON(w, http.StatusOK, onboardingResp{Completed: true})
}
