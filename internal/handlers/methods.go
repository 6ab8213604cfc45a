package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/bdeshop/khelaghor-sub001/internal/middleware"
	"github.com/bdeshop/khelaghor-sub001/internal/models"
	"github.com/bdeshop/khelaghor-sub001/internal/store"
	"github.com/bdeshop/khelaghor-sub001/internal/validator"
)

type methodFieldPayload struct {
	Name        string `json:"name" validate:"required"`
	Type        string `json:"type" validate:"required,oneof=text number textarea"`
	Required    bool   `json:"required"`
	LabelEN     string `json:"label_en"`
	LabelBN     string `json:"label_bn"`
	Instruction string `json:"instruction"`
}

type depositMethodPayload struct {
	NameEN   string               `json:"name_en" validate:"required"`
	NameBN   string               `json:"name_bn" validate:"required"`
	Color    string               `json:"color" validate:"omitempty,hexcolor"`
	ImageURL string               `json:"image_url" validate:"omitempty,url"`
	Status   string               `json:"status" validate:"required,oneof=active inactive"`
	Fields   []methodFieldPayload `json:"fields" validate:"dive"`
}

type withdrawMethodPayload struct {
	depositMethodPayload
	MinWithdrawal string `json:"min_withdrawal" validate:"required"`
	MaxWithdrawal string `json:"max_withdrawal"`
	FeeType       string `json:"fee_type" validate:"required,oneof=fixed percentage"`
	FeeValue      string `json:"fee_value" validate:"required"`
}

func inputFieldsFromPayload(payload []methodFieldPayload) models.InputFields {
	fields := make(models.InputFields, 0, len(payload))
	for _, field := range payload {
		fields = append(fields, models.InputField{
			Name:        field.Name,
			Type:        field.Type,
			Required:    field.Required,
			LabelEN:     field.LabelEN,
			LabelBN:     field.LabelBN,
			Instruction: field.Instruction,
		})
	}
	return fields
}

func (h *Handler) decodeDepositMethod(r *http.Request) (store.DepositMethodInput, error) {
	var payload depositMethodPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return store.DepositMethodInput{}, err
	}
	if err := validate.Struct(payload); err != nil {
		return store.DepositMethodInput{}, err
	}
	fields := inputFieldsFromPayload(payload.Fields)
	if err := validator.ValidateInputFields(fields); err != nil {
		return store.DepositMethodInput{}, err
	}
	return store.DepositMethodInput{
		NameEN:   payload.NameEN,
		NameBN:   payload.NameBN,
		Color:    payload.Color,
		ImageURL: payload.ImageURL,
		Status:   payload.Status,
		Fields:   fields,
	}, nil
}

func (h *Handler) decodeWithdrawMethod(r *http.Request) (store.WithdrawMethodInput, error) {
	var payload withdrawMethodPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return store.WithdrawMethodInput{}, err
	}
	if err := validate.Struct(payload); err != nil {
		return store.WithdrawMethodInput{}, err
	}
	fields := inputFieldsFromPayload(payload.Fields)
	if err := validator.ValidateInputFields(fields); err != nil {
		return store.WithdrawMethodInput{}, err
	}
	minWithdrawal, err := parseAmountMinor(payload.MinWithdrawal)
	if err != nil {
		return store.WithdrawMethodInput{}, err
	}
	maxWithdrawal, err := parseBoundMinor(payload.MaxWithdrawal)
	if err != nil {
		return store.WithdrawMethodInput{}, err
	}
	if maxWithdrawal > 0 && maxWithdrawal < minWithdrawal {
		return store.WithdrawMethodInput{}, errInvalidAmount
	}
	var feeValue decimal.Decimal
	if payload.FeeType == models.FeeFixed {
		// fixed fees use the same major-unit strings as the limits
		feeMinor, err := parseBoundMinor(payload.FeeValue)
		if err != nil {
			return store.WithdrawMethodInput{}, err
		}
		feeValue = decimal.NewFromInt(feeMinor)
	} else {
		feeValue, err = decimal.NewFromString(payload.FeeValue)
		if err != nil || feeValue.IsNegative() {
			return store.WithdrawMethodInput{}, errInvalidAmount
		}
	}
	return store.WithdrawMethodInput{
		NameEN:        payload.NameEN,
		NameBN:        payload.NameBN,
		Color:         payload.Color,
		ImageURL:      payload.ImageURL,
		Status:        payload.Status,
		MinWithdrawal: minWithdrawal,
		MaxWithdrawal: maxWithdrawal,
		FeeType:       payload.FeeType,
		FeeValue:      feeValue,
		Fields:        fields,
	}, nil
}

func (h *Handler) ListActiveDepositMethods(w http.ResponseWriter, r *http.Request) {
	methods, err := h.depositMethods.ListActive(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load deposit methods")
		return
	}
	normalized := make([]map[string]any, 0, len(methods))
	for _, method := range methods {
		normalized = append(normalized, depositMethodResponse(method))
	}
	respondJSON(w, http.StatusOK, normalized)
}

func (h *Handler) ListActiveWithdrawMethods(w http.ResponseWriter, r *http.Request) {
	methods, err := h.withdrawMethods.ListActive(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load withdraw methods")
		return
	}
	normalized := make([]map[string]any, 0, len(methods))
	for _, method := range methods {
		normalized = append(normalized, withdrawMethodResponse(method))
	}
	respondJSON(w, http.StatusOK, normalized)
}

func (h *Handler) AdminListDepositMethods(w http.ResponseWriter, r *http.Request) {
	methods, err := h.depositMethods.ListAll(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load deposit methods")
		return
	}
	normalized := make([]map[string]any, 0, len(methods))
	for _, method := range methods {
		normalized = append(normalized, depositMethodResponse(method))
	}
	respondJSON(w, http.StatusOK, normalized)
}

func (h *Handler) AdminListWithdrawMethods(w http.ResponseWriter, r *http.Request) {
	methods, err := h.withdrawMethods.ListAll(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load withdraw methods")
		return
	}
	normalized := make([]map[string]any, 0, len(methods))
	for _, method := range methods {
		normalized = append(normalized, withdrawMethodResponse(method))
	}
	respondJSON(w, http.StatusOK, normalized)
}

func (h *Handler) CreateDepositMethod(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middleware.SubjectIDFromContext(r.Context())
	input, err := h.decodeDepositMethod(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	input.ID = uuid.NewString()
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.depositMethods.Create(r.Context(), tx, input); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{"name_en": input.NameEN})
		return h.audit.Log(r.Context(), tx, adminID, "create_deposit_method", "deposit_method", input.ID, string(data))
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create deposit method")
		return
	}
	method, err := h.depositMethods.GetByID(r.Context(), input.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load deposit method")
		return
	}
	respondJSON(w, http.StatusCreated, depositMethodResponse(method))
}

func (h *Handler) UpdateDepositMethod(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middleware.SubjectIDFromContext(r.Context())
	input, err := h.decodeDepositMethod(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	input.ID = chi.URLParam(r, "id")
	var rows int64
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		rows, err = h.depositMethods.Update(r.Context(), tx, input)
		if err != nil {
			return err
		}
		if rows == 0 {
			return nil
		}
		data, _ := json.Marshal(map[string]string{"name_en": input.NameEN})
		return h.audit.Log(r.Context(), tx, adminID, "update_deposit_method", "deposit_method", input.ID, string(data))
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update deposit method")
		return
	}
	if rows == 0 {
		respondError(w, http.StatusNotFound, "deposit method not found")
		return
	}
	method, err := h.depositMethods.GetByID(r.Context(), input.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load deposit method")
		return
	}
	respondJSON(w, http.StatusOK, depositMethodResponse(method))
}

func (h *Handler) DeleteDepositMethod(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middleware.SubjectIDFromContext(r.Context())
	methodID := chi.URLParam(r, "id")
	var rows int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		rows, err = h.depositMethods.Delete(r.Context(), tx, methodID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return nil
		}
		return h.audit.Log(r.Context(), tx, adminID, "delete_deposit_method", "deposit_method", methodID, "{}")
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete deposit method")
		return
	}
	if rows == 0 {
		respondError(w, http.StatusNotFound, "deposit method not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) CreateWithdrawMethod(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middleware.SubjectIDFromContext(r.Context())
	input, err := h.decodeWithdrawMethod(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	input.ID = uuid.NewString()
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.withdrawMethods.Create(r.Context(), tx, input); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{"name_en": input.NameEN})
		return h.audit.Log(r.Context(), tx, adminID, "create_withdraw_method", "withdraw_method", input.ID, string(data))
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create withdraw method")
		return
	}
	method, err := h.withdrawMethods.GetByID(r.Context(), input.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load withdraw method")
		return
	}
	respondJSON(w, http.StatusCreated, withdrawMethodResponse(method))
}

func (h *Handler) UpdateWithdrawMethod(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middleware.SubjectIDFromContext(r.Context())
	input, err := h.decodeWithdrawMethod(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	input.ID = chi.URLParam(r, "id")
	var rows int64
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		rows, err = h.withdrawMethods.Update(r.Context(), tx, input)
		if err != nil {
			return err
		}
		if rows == 0 {
			return nil
		}
		data, _ := json.Marshal(map[string]string{"name_en": input.NameEN})
		return h.audit.Log(r.Context(), tx, adminID, "update_withdraw_method", "withdraw_method", input.ID, string(data))
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update withdraw method")
		return
	}
	if rows == 0 {
		respondError(w, http.StatusNotFound, "withdraw method not found")
		return
	}
	method, err := h.withdrawMethods.GetByID(r.Context(), input.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load withdraw method")
		return
	}
	respondJSON(w, http.StatusOK, withdrawMethodResponse(method))
}

func (h *Handler) DeleteWithdrawMethod(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middleware.SubjectIDFromContext(r.Context())
	methodID := chi.URLParam(r, "id")
	var rows int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		rows, err = h.withdrawMethods.Delete(r.Context(), tx, methodID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return nil
		}
		return h.audit.Log(r.Context(), tx, adminID, "delete_withdraw_method", "withdraw_method", methodID, "{}")
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete withdraw method")
		return
	}
	if rows == 0 {
		respondError(w, http.StatusNotFound, "withdraw method not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
