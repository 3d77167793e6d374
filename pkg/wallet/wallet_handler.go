package wallet

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type WalletDTO struct {
	ID             int        `json:"id"`
	Name           string     `json:"name"`
	InitialBalance string     `json:"initialBalance"`
	StartTime      *time.Time `json:"startTime,omitempty"`
	CurrentBalance string     `json:"currentBalance,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new wallet")
	w.Header().Set("Content-Type", "application/json")

	var dto WalletDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	wallet, err := DTOToWallet(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), wallet)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(WalletToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	wallets, err := h.service.GetAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]WalletDTO, 0, len(wallets))
	for _, wallet := range wallets {
		dtos = append(dtos, WalletToDTO(wallet))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var dto WalletDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.ID == 0 || dto.ID != id {
		http.Error(w, "Invalid wallet id in request body", http.StatusBadRequest)
		return
	}

	wallet, err := DTOToWallet(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ok, err := h.service.Update(r.Context(), wallet)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Wallet not found", http.StatusNotFound)
		return
	}

	updated, err := h.service.Get(r.Context(), id)
	if err != nil || updated == nil {
		http.Error(w, "Wallet not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(WalletToDTO(*updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ok, err := h.service.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrExpensesExist) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Wallet not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func WalletToDTO(wallet Wallet) WalletDTO {
	var startTime *time.Time
	if !wallet.StartTime.IsZero() {
		startTime = &wallet.StartTime
	}
	return WalletDTO{
		ID:             wallet.ID,
		Name:           wallet.Name,
		InitialBalance: wallet.InitialBalance.String(),
		StartTime:      startTime,
		CurrentBalance: wallet.CurrentBalance.StringFixed(2),
	}
}

func DTOToWallet(dto WalletDTO) (Wallet, error) {
	initialBalance := decimal.Zero
	if dto.InitialBalance != "" {
		var err error
		initialBalance, err = decimal.NewFromString(dto.InitialBalance)
		if err != nil {
			return Wallet{}, err
		}
	}

	var startTime time.Time
	if dto.StartTime != nil {
		startTime = *dto.StartTime
	}

	return Wallet{
		ID:             dto.ID,
		Name:           dto.Name,
		InitialBalance: initialBalance,
		StartTime:      startTime,
	}, nil
}
