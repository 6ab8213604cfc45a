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

type createDepositRequest struct {
	MethodID  string           `json:"method_id"`
	Amount    string           `json:"amount"`
	Reference string           `json:"reference"`
	UserInput models.UserInput `json:"user_input"`
}

func (h *Handler) CreateDeposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.SubjectIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req createDepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.MethodID == "" {
		respondError(w, http.StatusBadRequest, "method_id is required")
		return
	}
	if req.Reference == "" {
		respondError(w, http.StatusBadRequest, "reference is required")
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	detail, err := h.wallet.CreateDeposit(r.Context(), services.CreateDepositRequest{
		UserID:      userID,
		MethodID:    req.MethodID,
		Reference:   req.Reference,
		AmountMinor: amountMinor,
		UserInput:   req.UserInput,
	})
	if err != nil {
		h.respondDepositError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, depositTxResponse(detail))
}

func (h *Handler) respondDepositError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidAmount):
		respondError(w, http.StatusBadRequest, "invalid_amount")
	case errors.Is(err, services.ErrMethodNotFound):
		respondError(w, http.StatusNotFound, "method_not_found")
	case errors.Is(err, services.ErrMethodInactive):
		respondError(w, http.StatusBadRequest, "method_inactive")
	case errors.Is(err, services.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrDuplicateReference):
		respondError(w, http.StatusBadRequest, "duplicate_reference")
	case errors.Is(err, services.ErrTransactionNotFound):
		respondError(w, http.StatusNotFound, "transaction_not_found")
	case errors.Is(err, services.ErrAlreadyResolved):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidStatus):
		respondError(w, http.StatusBadRequest, "invalid_status")
	default:
		respondError(w, http.StatusInternalServerError, "deposit_failed")
	}
}

func (h *Handler) MyDeposits(w http.ResponseWriter, r *http.Request) {
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
	rows, err := h.deposits.ListByUser(r.Context(), userID, status, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transactions")
		return
	}
	respondJSON(w, http.StatusOK, depositTxResponses(rows))
}

type resolveRequest struct {
	Status    string  `json:"status"`
	AdminNote *string `json:"admin_note"`
}

func (h *Handler) ResolveDeposit(w http.ResponseWriter, r *http.Request) {
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
	detail, err := h.wallet.ResolveDeposit(r.Context(), services.ResolveRequest{
		TransactionID: chi.URLParam(r, "id"),
		AdminID:       adminID,
		Status:        req.Status,
		AdminNote:     req.AdminNote,
	})
	if err != nil {
		h.respondDepositError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, depositTxResponse(detail))
}

func (h *Handler) AdminListDeposits(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := parseInt(query.Get("page"), 1)
	limit := parseInt(query.Get("limit"), 50)
	rows, err := h.deposits.ListAll(r.Context(), store.TransactionFilter{
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
	respondJSON(w, http.StatusOK, depositTxResponses(rows))
}

func (h *Handler) DepositStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.deposits.Statistics(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load statistics")
		return
	}
	respondJSON(w, http.StatusOK, statsResponse(stats))
}
