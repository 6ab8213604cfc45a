package handlers

import (
	"net/http"
	"strings"

	"github.com/bdeshop/khelaghor-sub001/internal/auth"
	"github.com/bdeshop/khelaghor-sub001/internal/middleware"
	"github.com/bdeshop/khelaghor-sub001/internal/money"
	"github.com/bdeshop/khelaghor-sub001/internal/websocket"
)

func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := parseInt(query.Get("page"), 1)
	limit := parseInt(query.Get("limit"), 50)
	users, err := h.users.ListAll(r.Context(), limit, (page-1)*limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load users")
		return
	}
	normalized := make([]map[string]any, 0, len(users))
	for _, user := range users {
		normalized = append(normalized, map[string]any{
			"id":         user.ID,
			"username":   user.Username,
			"phone":      user.Phone,
			"balance":    money.FormatMinor(user.Balance),
			"created_at": user.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, normalized)
}

func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := parseInt(query.Get("limit"), 50)
	page := parseInt(query.Get("page"), 1)
	offset := (page - 1) * limit
	rows, err := h.audit.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load audit logs")
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

// Reconcile compares each user's balance against the sum of their settlement
// entries. Users start at zero, so any nonzero difference is a defect.
func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	type reconRow struct {
		UserID      string `db:"user_id"`
		LedgerSum   int64  `db:"ledger_sum"`
		UserBalance int64  `db:"user_balance"`
		Difference  int64  `db:"difference"`
	}
	var rows []reconRow
	query := `
		SELECT u.id AS user_id,
		       COALESCE(SUM(b.amount), 0) AS ledger_sum,
		       u.balance AS user_balance,
		       (u.balance - COALESCE(SUM(b.amount), 0)) AS difference
		FROM users u
		LEFT JOIN balance_entries b ON b.user_id = u.id
		GROUP BY u.id, u.balance
		ORDER BY u.id
	`
	if err := h.reconcileDB.SelectContext(r.Context(), &rows, query); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to reconcile balances")
		return
	}
	normalized := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		normalized = append(normalized, map[string]any{
			"user_id":      row.UserID,
			"ledger_sum":   money.FormatMinor(row.LedgerSum),
			"user_balance": money.FormatMinor(row.UserBalance),
			"difference":   money.FormatMinor(row.Difference),
		})
	}
	respondJSON(w, http.StatusOK, normalized)
}

// BalanceHistory lists the authenticated user's settlement entries together
// with their running total.
func (h *Handler) BalanceHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.SubjectIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	query := r.URL.Query()
	limit := parseInt(query.Get("limit"), 50)
	page := parseInt(query.Get("page"), 1)
	entries, err := h.ledger.ListByUser(r.Context(), userID, limit, (page-1)*limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load balance history")
		return
	}
	total, err := h.ledger.SumByUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load balance history")
		return
	}
	normalized := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		normalized = append(normalized, map[string]any{
			"id":             entry.ID,
			"amount":         money.FormatMinor(entry.Amount),
			"entry_type":     entry.EntryType,
			"transaction_id": entry.TransactionID,
			"description":    entry.Description,
			"created_at":     entry.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"total":   money.FormatMinor(total),
		"entries": normalized,
	})
}

func (h *Handler) WSBalances(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		authHeader := r.Header.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}
	if token == "" {
		respondError(w, http.StatusUnauthorized, "missing token")
		return
	}
	claims, err := auth.ParseToken(h.cfg.JWTSecret, token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	websocket.ServeWS(w, r, h.hub, claims.UserID)
}
