// internal/api/handler/card.go
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Anastazzi-Grand/bank-rest-main/internal/api/types"
	"github.com/Anastazzi-Grand/bank-rest-main/internal/domain"
	"github.com/Anastazzi-Grand/bank-rest-main/internal/service"
	"github.com/Anastazzi-Grand/bank-rest-main/internal/util"
)

// DefaultTimeout bounds request handling end to end.
const DefaultTimeout = 30 * time.Second

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// CardHandler handles HTTP requests related to card operations. The caller
// identity is taken from the X-User-ID header, which the upstream gateway
// sets after authentication; this service trusts it as verified.
type CardHandler struct {
	service service.CardService
	logger  *slog.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(svc service.CardService, logger *slog.Logger) *CardHandler {
	return &CardHandler{
		service: svc,
		logger:  logger,
	}
}

func (h *CardHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithError maps domain errors to status codes; everything else is
// an opaque 500 so internals never leak to clients.
func (h *CardHandler) respondWithError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	body := types.ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}

	switch {
	case util.IsError(err, util.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		body = types.ErrorResponse{Code: "INVALID_INPUT", Message: "Invalid input provided"}
	case util.IsError(err, util.ErrCardNotFound):
		statusCode = http.StatusNotFound
		body = types.ErrorResponse{Code: "CARD_NOT_FOUND", Message: "Card not found"}
	case util.IsError(err, util.ErrUserNotFound):
		statusCode = http.StatusNotFound
		body = types.ErrorResponse{Code: "USER_NOT_FOUND", Message: "User not found"}
	case util.IsError(err, util.ErrInsufficientFunds):
		statusCode = http.StatusBadRequest
		body = types.ErrorResponse{Code: "INSUFFICIENT_FUNDS", Message: "Insufficient funds"}
	case util.IsError(err, util.ErrSameCardTransfer):
		statusCode = http.StatusBadRequest
		body = types.ErrorResponse{Code: "TRANSFER_TO_SAME_CARD", Message: "Cannot transfer to the same card"}
	case util.IsError(err, util.ErrCardActionNotAllowed):
		statusCode = http.StatusBadRequest
		body = types.ErrorResponse{Code: "CARD_ACTION_NOT_ALLOWED", Message: "Card action not allowed"}
	case util.IsError(err, util.ErrVersionConflict):
		statusCode = http.StatusConflict
		body = types.ErrorResponse{Code: "CONFLICT", Message: "The card was modified concurrently, retry the request"}
	default:
		h.logger.Error("Unhandled service error", "error", err)
	}

	h.respondWithJSON(w, statusCode, body)
}

// callerID extracts the verified identity injected by the gateway.
func (h *CardHandler) callerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.Header.Get("X-User-ID"), 10, 64)
	if err != nil || id <= 0 {
		h.respondWithJSON(w, http.StatusUnauthorized, types.ErrorResponse{Code: "UNAUTHENTICATED", Message: "Missing or invalid caller identity"})
		return 0, false
	}
	return id, true
}

func pageParams(r *http.Request) (limit, offset int) {
	limit = defaultPageLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= maxPageLimit {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}

// CreateCardRequest represents the request body for card creation.
type CreateCardRequest struct {
	OwnerID        int64            `json:"owner_id"`
	Number         string           `json:"number"`
	ExpiryDate     time.Time        `json:"expiry_date"`
	InitialBalance *decimal.Decimal `json:"initial_balance"`
}

// CreateCard handles card issuing.
// POST /cards
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req CreateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	if req.OwnerID <= 0 || req.Number == "" {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	card, err := h.service.CreateCard(r.Context(), req.OwnerID, req.Number, req.ExpiryDate, req.InitialBalance)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, card)
}

// DeleteCard handles card removal.
// DELETE /cards/{cardID}
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := strconv.ParseInt(chi.URLParam(r, "cardID"), 10, 64)
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	if err := h.service.DeleteCard(r.Context(), cardID); err != nil {
		h.respondWithError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BlockCard handles blocking the caller's card.
// POST /cards/{cardID}/block
func (h *CardHandler) BlockCard(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.service.BlockCard)
}

// ActivateCard handles reactivating the caller's blocked card.
// POST /cards/{cardID}/activate
func (h *CardHandler) ActivateCard(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.service.ActivateCard)
}

func (h *CardHandler) changeStatus(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, ownerID, cardID int64) (*service.CardView, error)) {
	ownerID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	cardID, err := strconv.ParseInt(chi.URLParam(r, "cardID"), 10, 64)
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	card, err := op(r.Context(), ownerID, cardID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, card)
}

// TransferRequest represents the request body for a transfer between two of
// the caller's cards.
type TransferRequest struct {
	FromCardID int64           `json:"from_card_id"`
	ToCardID   int64           `json:"to_card_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// Transfer handles the balance transfer request.
// POST /transfers
func (h *CardHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	if req.FromCardID <= 0 || req.ToCardID <= 0 {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	if req.Amount.IsNegative() || req.Amount.IsZero() {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	if err := h.service.Transfer(r.Context(), ownerID, req.FromCardID, req.ToCardID, req.Amount); err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string]string{"message": "Transfer successful"})
}

// ListMyCards returns a page of the caller's cards.
// GET /cards
func (h *CardHandler) ListMyCards(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	limit, offset := pageParams(r)

	cards, total, err := h.service.ListOwnerCards(r.Context(), ownerID, limit, offset)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.PaginatedResponse[service.CardView]{
		Data:       cards,
		Limit:      limit,
		Offset:     offset,
		TotalCount: total,
	})
}

// ListUserCards returns a page of the given user's cards (admin view).
// GET /users/{userID}/cards
func (h *CardHandler) ListUserCards(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	limit, offset := pageParams(r)

	cards, total, err := h.service.ListOwnerCards(r.Context(), userID, limit, offset)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.PaginatedResponse[service.CardView]{
		Data:       cards,
		Limit:      limit,
		Offset:     offset,
		TotalCount: total,
	})
}

// ListAllCards returns a page over all cards, optionally filtered by status.
// GET /admin/cards?status=BLOCKED
func (h *CardHandler) ListAllCards(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)

	var (
		cards []service.CardView
		total int64
		err   error
	)
	if status := r.URL.Query().Get("status"); status != "" {
		cards, total, err = h.service.ListCardsByStatus(r.Context(), domain.CardStatus(status), limit, offset)
	} else {
		cards, total, err = h.service.ListAllCards(r.Context(), limit, offset)
	}
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.PaginatedResponse[service.CardView]{
		Data:       cards,
		Limit:      limit,
		Offset:     offset,
		TotalCount: total,
	})
}
