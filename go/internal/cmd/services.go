package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gridironlabs/mockdraft/go/internal/draft"
	"github.com/gridironlabs/mockdraft/go/internal/draft/gateway"
	"github.com/gridironlabs/mockdraft/go/internal/draft/tradestore"
	"github.com/gridironlabs/mockdraft/go/internal/engine/sim"
	"github.com/gridironlabs/mockdraft/go/internal/engine/trade"
	"github.com/gridironlabs/mockdraft/go/internal/models"
)

// Services bundles the handlers the HTTP server exposes.
type Services struct {
	App       *draft.App
	Proposals *tradestore.Store
	Gateway   *gateway.Handler

	// Defaults applied when a create request omits them.
	DraftOrder []string
	Tuning     models.CPUTuning
}

// createDraftBody mirrors CreateDraftRequest with the tuning profile kept a
// pointer, so an omitted profile is distinguishable from an explicit all-zero
// one (a valid fully deterministic CPU). The shadowing fields win during
// decoding because they sit one embedding level shallower.
type createDraftBody struct {
	draft.CreateDraftRequest
	Config struct {
		models.DraftConfig
		Tuning *models.CPUTuning `json:"tuning"`
	} `json:"config"`
}

func (b createDraftBody) request(defaultTuning models.CPUTuning) draft.CreateDraftRequest {
	req := b.CreateDraftRequest
	req.Config = b.Config.DraftConfig
	if b.Config.Tuning != nil {
		req.Config.Tuning = *b.Config.Tuning
	} else {
		req.Config.Tuning = defaultTuning
	}
	return req
}

func registerServices(mux *http.ServeMux, s *Services) {
	mux.HandleFunc("POST /drafts", s.handleCreateDraft)
	mux.HandleFunc("GET /drafts/{id}", s.handleGetDraft)
	mux.HandleFunc("GET /drafts/{id}/state", s.Gateway.HandleState)
	mux.HandleFunc("GET /drafts/{id}/ws", s.Gateway.HandleWebSocket)
	mux.HandleFunc("POST /drafts/{id}/start", s.handleStartDraft)
	mux.HandleFunc("POST /drafts/{id}/pause", s.handlePauseDraft)
	mux.HandleFunc("POST /drafts/{id}/resume", s.handleResumeDraft)
	mux.HandleFunc("POST /drafts/{id}/cancel", s.handleCancelDraft)
	mux.HandleFunc("POST /drafts/{id}/picks", s.handleCommitPick)
	mux.HandleFunc("GET /drafts/{id}/suggest", s.handleSuggest)
	mux.HandleFunc("POST /drafts/{id}/trades", s.handleProposeTrade)
	mux.HandleFunc("GET /drafts/{id}/trades", s.handleListTrades)
	mux.HandleFunc("POST /trades/{id}/respond", s.handleRespondToTrade)
	mux.HandleFunc("POST /trades/{id}/cancel", s.handleCancelTrade)
}

func (s *Services) handleCreateDraft(w http.ResponseWriter, r *http.Request) {
	var body createDraftBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req := body.request(s.Tuning)
	if len(req.TeamOrder) == 0 {
		req.TeamOrder = s.DraftOrder
	}

	d, err := s.App.CreateDraft(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (s *Services) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	d, err := s.App.GetDraft(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Services) handleStartDraft(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.App.StartDraft)
}

func (s *Services) handlePauseDraft(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.App.PauseDraft)
}

func (s *Services) handleResumeDraft(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.App.ResumeDraft)
}

func (s *Services) handleCancelDraft(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.App.CancelDraft)
}

func (s *Services) handleTransition(w http.ResponseWriter, r *http.Request, op func(context.Context, uuid.UUID) (*models.Draft, error)) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	d, err := op(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Services) handleCommitPick(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	var req struct {
		UserID   string    `json:"user_id"`
		PlayerID uuid.UUID `json:"player_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" || req.PlayerID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "user_id and player_id are required")
		return
	}

	pick, err := s.App.CommitUserPick(r.Context(), id, req.UserID, req.PlayerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pick)
}

func (s *Services) handleSuggest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	suggestion, err := s.App.Suggest(r.Context(), id, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if suggestion == nil {
		writeError(w, http.StatusConflict, "not this user's turn")
		return
	}
	writeJSON(w, http.StatusOK, suggestion)
}

func (s *Services) handleProposeTrade(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	var req draft.ProposeTradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.DraftID = id
	if req.ProposerID == "" {
		writeError(w, http.StatusBadRequest, "proposer_id is required")
		return
	}

	// One open proposal per user per draft. The slot is claimed before the
	// proposal lands so two rapid submits cannot both go through.
	if _, open := s.Proposals.Pending(id, req.ProposerID); open {
		writeError(w, http.StatusConflict, tradestore.ErrProposalInFlight.Error())
		return
	}

	t, eval, err := s.App.ProposeTrade(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if t.Status == models.TradeStatusPending {
		if err := s.Proposals.Track(context.Background(), id, req.ProposerID, t.ID); err != nil {
			log.Warn().Err(err).Str("trade_id", t.ID.String()).Msg("could not track pending proposal")
		}
	}

	writeJSON(w, http.StatusCreated, struct {
		Trade      *models.Trade     `json:"trade"`
		Evaluation *trade.Evaluation `json:"evaluation,omitempty"`
	}{Trade: t, Evaluation: eval})
}

func (s *Services) handleListTrades(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	trades, err := s.App.ListPendingTrades(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trades)
}

func (s *Services) handleRespondToTrade(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	var req struct {
		ActorID string `json:"actor_id"`
		Accept  bool   `json:"accept"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := s.App.RespondToTrade(r.Context(), id, req.ActorID, req.Accept)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.Proposals.Release(t.DraftID, t.ProposerID)
	writeJSON(w, http.StatusOK, t)
}

func (s *Services) handleCancelTrade(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	var req struct {
		ActorID string `json:"actor_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := s.App.CancelTrade(r.Context(), id, req.ActorID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.Proposals.Release(t.DraftID, t.ProposerID)
	writeJSON(w, http.StatusOK, t)
}

func pathUUID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeDomainError maps domain sentinels onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, draft.ErrDraftNotFound), errors.Is(err, draft.ErrTradeNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, draft.ErrUnknownPlayer),
		errors.Is(err, draft.ErrTradesDisabled),
		errors.Is(err, trade.ErrNotTradeActor),
		errors.Is(err, trade.ErrNotPieceOwner),
		errors.Is(err, trade.ErrSlotNotControlled):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, sim.ErrDraftNotActive),
		errors.Is(err, sim.ErrInvalidTransition),
		errors.Is(err, sim.ErrNotYourTurn),
		errors.Is(err, sim.ErrPlayerAlreadyPicked),
		errors.Is(err, trade.ErrTradeNotPending),
		errors.Is(err, trade.ErrPickAlreadyMade),
		errors.Is(err, trade.ErrSlotNotFound),
		errors.Is(err, trade.ErrDuplicatePiece),
		errors.Is(err, trade.ErrFuturePickNotOwned),
		errors.Is(err, trade.ErrFuturePickPromised),
		errors.Is(err, draft.ErrVersionConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
