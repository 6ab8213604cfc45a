package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/bdeshop/khelaghor-sub001/internal/models"
	"github.com/bdeshop/khelaghor-sub001/internal/money"
	"github.com/bdeshop/khelaghor-sub001/internal/store"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func parseInt(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

// Amounts are stored in minor units and leave the API as decimal strings.
func depositTxResponse(row store.DepositTransactionDetail) map[string]any {
	return map[string]any{
		"id":             row.ID,
		"user_id":        row.UserID,
		"username":       row.Username,
		"method_id":      row.MethodID,
		"method_name_en": row.MethodNameEN,
		"method_name_bn": row.MethodNameBN,
		"amount":         money.FormatMinor(row.Amount),
		"reference":      row.Reference,
		"user_input":     row.UserInput,
		"status":         row.Status,
		"admin_note":     row.AdminNote,
		"processed_by":   row.ProcessedBy,
		"processed_name": row.ProcessedName,
		"processed_at":   row.ProcessedAt,
		"created_at":     row.CreatedAt,
	}
}

func depositTxResponses(rows []store.DepositTransactionDetail) []map[string]any {
	normalized := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		normalized = append(normalized, depositTxResponse(row))
	}
	return normalized
}

func withdrawTxResponse(row store.WithdrawTransactionDetail) map[string]any {
	return map[string]any{
		"id":             row.ID,
		"user_id":        row.UserID,
		"username":       row.Username,
		"method_id":      row.MethodID,
		"method_name_en": row.MethodNameEN,
		"method_name_bn": row.MethodNameBN,
		"amount":         money.FormatMinor(row.Amount),
		"fee":            money.FormatMinor(row.Fee),
		"net_amount":     money.FormatMinor(row.NetAmount),
		"user_input":     row.UserInput,
		"status":         row.Status,
		"admin_note":     row.AdminNote,
		"processed_by":   row.ProcessedBy,
		"processed_name": row.ProcessedName,
		"processed_at":   row.ProcessedAt,
		"created_at":     row.CreatedAt,
	}
}

func withdrawTxResponses(rows []store.WithdrawTransactionDetail) []map[string]any {
	normalized := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		normalized = append(normalized, withdrawTxResponse(row))
	}
	return normalized
}

func statsResponse(stats store.TransactionStats) map[string]any {
	return map[string]any{
		"pending_count":   stats.PendingCount,
		"approved_count":  stats.ApprovedCount,
		"cancelled_count": stats.CancelledCount,
		"approved_amount": money.FormatMinor(stats.ApprovedAmount),
	}
}

func depositMethodResponse(row store.DepositMethod) map[string]any {
	return map[string]any{
		"id":         row.ID,
		"name_en":    row.NameEN,
		"name_bn":    row.NameBN,
		"color":      row.Color,
		"image_url":  row.ImageURL,
		"status":     row.Status,
		"fields":     row.Fields,
		"created_at": row.CreatedAt,
		"updated_at": row.UpdatedAt,
	}
}

func withdrawMethodResponse(row store.WithdrawMethod) map[string]any {
	// fixed fees are stored in minor units, percentages as raw percent values
	feeValue := row.FeeValue.String()
	if row.FeeType == models.FeeFixed {
		feeValue = money.FormatMinor(row.FeeValue.IntPart())
	}
	return map[string]any{
		"id":             row.ID,
		"name_en":        row.NameEN,
		"name_bn":        row.NameBN,
		"color":          row.Color,
		"image_url":      row.ImageURL,
		"status":         row.Status,
		"min_withdrawal": money.FormatMinor(row.MinWithdrawal),
		"max_withdrawal": money.FormatMinor(row.MaxWithdrawal),
		"fee_type":       row.FeeType,
		"fee_value":      feeValue,
		"fields":         row.Fields,
		"created_at":     row.CreatedAt,
		"updated_at":     row.UpdatedAt,
	}
}
