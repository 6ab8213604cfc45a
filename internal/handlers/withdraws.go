package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bdeshop/khelaghor-sub001/internal/middleware"
	"github.com/bdeshop/khelaghor-sub001/internal/models"
	"github.com/bdeshop/khelaghor-sub001/internal/services"
	"github.com/bdeshop/khelaghor-sub001/internal/store"
)

type createWithdrawRequest struct {
	MethodID  string           `json:"method_id"`
	Amount    string           `json:"amount"`
	UserInput models.UserInput `json:"user_input"`
}

func (h *Handler) CreateWithdraw(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.SubjectIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req createWithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.MethodID == "" {
		respondError(w, http.StatusBadRequest, "method_id is required")
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	detail, err := h.wallet.CreateWithdraw(r.Context(), services.CreateWithdrawRequest{
		UserID:      userID,
		MethodID:    req.MethodID,
		AmountMinor: amountMinor,
		UserInput:   req.UserInput,
	})
	if err != nil {
		h.respondWithdrawError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, withdrawTxResponse(detail))
}

func (h *Handler) respondWithdrawError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidAmount):
		respondError(w, http.StatusBadRequest, "invalid_amount")
	case errors.Is(err, services.ErrMethodNotFound):
		respondError(w, http.StatusNotFound, "method_not_found")
	case errors.Is(err, services.ErrMethodInactive):
		respondError(w, http.StatusBadRequest, "method_inactive")
	case errors.Is(err, services.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrBelowMinimum),
		errors.Is(err, services.ErrAboveMaximum),
		errors.Is(err, services.ErrFeeExceedsAmount):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInsufficientFunds):
		respondError(w, http.StatusBadRequest, "insufficient_balance")
	case errors.Is(err, services.ErrTransactionNotFound):
		respondError(w, http.StatusNotFound, "transaction_not_found")
	case errors.Is(err, services.ErrAlreadyResolved):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidStatus):
		respondError(w, http.StatusBadRequest, "invalid_status")
	default:
		respondError(w, http.StatusInternalServerError, "withdraw_failed")
	}
}

func (h *Handler) MyWithdraws(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.SubjectIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	query := r.URL.Query()
	status := query.Get("status")
	page := parseInt(query.Get("page"), 1)
	limit := parseInt(query.Get("limit"), 20)
	offset := (page - 1) * limit
	rows, err := h.withdraws.ListByUser(r.Context(), userID, status, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transactions")
		return
	}
	respondJSON(w, http.StatusOK, withdrawTxResponses(rows))
}

func (h *Handler) ResolveWithdraw(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.SubjectIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	detail, err := h.wallet.ResolveWithdraw(r.Context(), services.ResolveRequest{
		TransactionID: chi.URLParam(r, "id"),
		AdminID:       adminID,
		Status:        req.Status,
		AdminNote:     req.AdminNote,
	})
	if err != nil {
		h.respondWithdrawError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, withdrawTxResponse(detail))
}

func (h *Handler) AdminListWithdraws(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := parseInt(query.Get("page"), 1)
	limit := parseInt(query.Get("limit"), 50)
	rows, err := h.withdraws.ListAll(r.Context(), store.TransactionFilter{
		Status:   query.Get("status"),
		UserID:   query.Get("user_id"),
		MethodID: query.Get("method_id"),
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transactions")
		return
	}
	respondJSON(w, http.StatusOK, withdrawTxResponses(rows))
}

func (h *Handler) WithdrawStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.withdraws.Statistics(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load statistics")
		return
	}
	respondJSON(w, http.StatusOK, statsResponse(stats))
}
