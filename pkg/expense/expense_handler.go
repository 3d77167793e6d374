package expense

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type ExpenseDTO struct {
	UID         string     `json:"uid,omitempty"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
	Amount      string     `json:"amount"`
	WalletID    int        `json:"walletId"`
	CategoryID  int        `json:"categoryId"`
	Planned     bool       `json:"planned,omitempty"`
	Description string     `json:"description,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Registering new expense")
	w.Header().Set("Content-Type", "application/json")

	var dto ExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	expense, err := DTOToExpense(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), expense)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(ExpenseToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	filter, err := filterFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	expenses, err := h.service.Find(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]ExpenseDTO, 0, len(expenses))
	for _, expense := range expenses {
		dtos = append(dtos, ExpenseToDTO(expense))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	uid, err := uuid.Parse(mux.Vars(r)["expenseUid"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	expense, err := h.service.Get(r.Context(), uid)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if expense == nil {
		http.Error(w, "Expense not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ExpenseToDTO(*expense)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	uid, err := uuid.Parse(mux.Vars(r)["expenseUid"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var dto ExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	expense, err := DTOToExpense(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	expense.UID = uid

	ok, err := h.service.Update(r.Context(), expense)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Expense not found", http.StatusNotFound)
		return
	}

	updated, err := h.service.Get(r.Context(), uid)
	if err != nil || updated == nil {
		http.Error(w, "Expense not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ExpenseToDTO(*updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	uid, err := uuid.Parse(mux.Vars(r)["expenseUid"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ok, err := h.service.Delete(r.Context(), uid)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Expense not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func filterFromQuery(r *http.Request) (Filter, error) {
	var filter Filter
	if walletId := r.URL.Query().Get("walletId"); walletId != "" {
		id, err := strconv.Atoi(walletId)
		if err != nil {
			return Filter{}, err
		}
		filter.WalletID = &id
	}
	if categoryId := r.URL.Query().Get("categoryId"); categoryId != "" {
		id, err := strconv.Atoi(categoryId)
		if err != nil {
			return Filter{}, err
		}
		filter.CategoryID = &id
	}
	if from := r.URL.Query().Get("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return Filter{}, err
		}
		filter.From = &t
	}
	return filter, nil
}

func ExpenseToDTO(expense Expense) ExpenseDTO {
	timestamp := expense.Timestamp
	return ExpenseDTO{
		UID:         expense.UID.String(),
		Timestamp:   &timestamp,
		Amount:      expense.Amount.String(),
		WalletID:    expense.WalletID,
		CategoryID:  expense.CategoryID,
		Planned:     expense.Planned,
		Description: expense.Description,
	}
}

func DTOToExpense(dto ExpenseDTO) (Expense, error) {
	amount, err := decimal.NewFromString(dto.Amount)
	if err != nil {
		return Expense{}, err
	}

	var timestamp time.Time
	if dto.Timestamp != nil {
		timestamp = *dto.Timestamp
	}

	return Expense{
		Timestamp:   timestamp,
		Amount:      amount,
		WalletID:    dto.WalletID,
		CategoryID:  dto.CategoryID,
		Planned:     dto.Planned,
		Description: dto.Description,
	}, nil
}
