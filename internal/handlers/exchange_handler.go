package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"obmenBack/internal/models"
	"obmenBack/internal/services"
)

type ExchangeHandler struct {
	Service *services.ExchangeService
}

func (h *ExchangeHandler) CreateExchange(w http.ResponseWriter, r *http.Request) {
	var req models.ExchangeProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	proposal, err := h.Service.Propose(r.Context(), actorID(r), req.AdSenderID, req.AdReceiverID, req.Comment)
	if err != nil {
		http.Error(w, err.Error(), exchangeErrorStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(proposal)
}

func (h *ExchangeHandler) AcceptExchange(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.Service.Accept)
}

func (h *ExchangeHandler) DeclineExchange(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.Service.Decline)
}

func (h *ExchangeHandler) resolve(
	w http.ResponseWriter,
	r *http.Request,
	act func(ctx context.Context, actorID, proposalID int) (models.ExchangeProposal, error),
) {
	id, err := proposalIDParam(r)
	if err != nil {
		http.Error(w, "Invalid proposal ID", http.StatusBadRequest)
		return
	}

	proposal, err := act(r.Context(), actorID(r), id)
	if err != nil {
		http.Error(w, err.Error(), exchangeErrorStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(proposal)
}

func (h *ExchangeHandler) WithdrawExchange(w http.ResponseWriter, r *http.Request) {
	id, err := proposalIDParam(r)
	if err != nil {
		http.Error(w, "Invalid proposal ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.Withdraw(r.Context(), actorID(r), id); err != nil {
		http.Error(w, err.Error(), exchangeErrorStatus(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetResolvedExchanges lists confirmed trades touching the actor's ads.
func (h *ExchangeHandler) GetResolvedExchanges(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, h.Service.GetResolved)
}

// GetRejectedExchanges lists declined trades touching the actor's ads.
func (h *ExchangeHandler) GetRejectedExchanges(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, h.Service.GetRejected)
}

// GetMyExchanges lists the actor's own pending proposals.
func (h *ExchangeHandler) GetMyExchanges(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, h.Service.GetMine)
}

// GetIncomingExchanges lists pending proposals targeting the actor's ads.
func (h *ExchangeHandler) GetIncomingExchanges(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, h.Service.GetIncoming)
}

func (h *ExchangeHandler) writeList(
	w http.ResponseWriter,
	r *http.Request,
	list func(ctx context.Context, actorID int) ([]models.ExchangeProposal, error),
) {
	proposals, err := list(r.Context(), actorID(r))
	if err != nil {
		http.Error(w, err.Error(), exchangeErrorStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(proposals)
}

func proposalIDParam(r *http.Request) (int, error) {
	return strconv.Atoi(getParam(r, "id"))
}

func exchangeErrorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrSameAd), errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, models.ErrProposalNotFound), errors.Is(err, models.ErrAdNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidStatus):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
