package category

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

type CategoryDTO struct {
	ID             int        `json:"id"`
	Name           string     `json:"name"`
	InitialBudget  string     `json:"initialBudget"`
	AddedBudget    string     `json:"addedBudget,omitempty"`
	BudgetStart    *time.Time `json:"budgetStart,omitempty"`
	CurrentBalance string     `json:"currentBalance,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new category")
	w.Header().Set("Content-Type", "application/json")

	var dto CategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	category, err := DTOToCategory(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), category)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(CategoryToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	categories, err := h.service.GetAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]CategoryDTO, 0, len(categories))
	for _, category := range categories {
		dtos = append(dtos, CategoryToDTO(category))
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
	var dto CategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.ID == 0 || dto.ID != id {
		http.Error(w, "Invalid category id in request body", http.StatusBadRequest)
		return
	}

	category, err := DTOToCategory(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ok, err := h.service.Update(r.Context(), category)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Category not found", http.StatusNotFound)
		return
	}

	updated, err := h.service.Get(r.Context(), id)
	if err != nil || updated == nil {
		http.Error(w, "Category not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(CategoryToDTO(*updated)); err != nil {
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
		http.Error(w, "Category not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func CategoryToDTO(category Category) CategoryDTO {
	var budgetStart *time.Time
	if !category.BudgetStart.IsZero() {
		budgetStart = &category.BudgetStart
	}
	return CategoryDTO{
		ID:             category.ID,
		Name:           category.Name,
		InitialBudget:  category.InitialBudget.String(),
		AddedBudget:    category.AddedBudget.String(),
		BudgetStart:    budgetStart,
		CurrentBalance: category.CurrentBalance.StringFixed(2),
	}
}

func DTOToCategory(dto CategoryDTO) (Category, error) {
	initialBudget := decimal.Zero
	if dto.InitialBudget != "" {
		var err error
		initialBudget, err = decimal.NewFromString(dto.InitialBudget)
		if err != nil {
			return Category{}, err
		}
	}
	addedBudget := decimal.Zero
	if dto.AddedBudget != "" {
		var err error
		addedBudget, err = decimal.NewFromString(dto.AddedBudget)
		if err != nil {
			return Category{}, err
		}
	}

	var budgetStart time.Time
	if dto.BudgetStart != nil {
		budgetStart = *dto.BudgetStart
	}

	return Category{
		ID:            dto.ID,
		Name:          dto.Name,
		InitialBudget: initialBudget,
		AddedBudget:   addedBudget,
		BudgetStart:   budgetStart,
	}, nil
}
