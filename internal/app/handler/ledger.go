package handler

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"budget/internal/app/model"
)

// LedgerHandler serves one kind of ledger records
type LedgerHandler struct {
	records LedgerService
	gate    LedgerGate
	name    string
}

func NewLedgerHandler(records LedgerService, gate LedgerGate) *LedgerHandler {
	return &LedgerHandler{
		records: records,
		gate:    gate,
		name:    "Handler.Ledger." + records.Kind().String(),
	}
}

type ledgerRequest struct {
	UserID        int64           `json:"user_id" validate:"gte=0"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description" validate:"max=255"`
	AccountNumber string          `json:"account_number" validate:"omitempty,max=32"`
}

func (in ledgerRequest) record() *model.LedgerRecord {
	return &model.LedgerRecord{
		UserID:        in.UserID,
		Amount:        in.Amount,
		Date:          in.Date,
		Description:   in.Description,
		AccountNumber: in.AccountNumber,
	}
}

func (h *LedgerHandler) All(w http.ResponseWriter, r *http.Request) {
	mm, err := h.records.All(r.Context())
	if err != nil {
		writeServiceError(w, r, h.name+".All", err)
		return
	}

	WriteResponse(w, mm, http.StatusOK)
}

func (h *LedgerHandler) Read(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	m, err := h.records.Read(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.name+".Read", err)
		return
	}

	WriteResponse(w, m, http.StatusOK)
}

func (h *LedgerHandler) AllByUserID(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	mm, err := h.records.AllByUserID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, h.name+".AllByUserID", err)
		return
	}

	WriteResponse(w, mm, http.StatusOK)
}

func (h *LedgerHandler) Create(w http.ResponseWriter, r *http.Request) {
	in := ledgerRequest{}
	if err := readBody(r, &in); err != nil {
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	if !validateData(w, in) {
		return
	}
	if err := validateDTO.Var(in.UserID, "required,gt=0"); err != nil {
		writeValidationErrors(w, ValidationErrors{{Msg: "user_id is required", Param: "user_id"}})
		return
	}

	m := in.record()
	if err := h.gate.LedgerRecord(m); err != nil {
		writeServiceError(w, r, h.name+".Create", err)
		return
	}

	m, err := h.records.Create(r.Context(), in.UserID, m)
	if err != nil {
		writeServiceError(w, r, h.name+".Create", err)
		return
	}

	WriteResponse(w, m, http.StatusCreated)
}

func (h *LedgerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	in := ledgerRequest{}
	if err := readBody(r, &in); err != nil {
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	if !validateData(w, in) {
		return
	}

	m := in.record()
	if err := h.gate.LedgerRecord(m); err != nil {
		writeServiceError(w, r, h.name+".Update", err)
		return
	}

	m, err = h.records.Update(r.Context(), id, m)
	if err != nil {
		writeServiceError(w, r, h.name+".Update", err)
		return
	}

	WriteResponse(w, m, http.StatusOK)
}

func (h *LedgerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	if err := h.records.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, h.name+".Delete", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
