package overview

import (
	"encoding/json"
	"net/http"

	"github.com/famspend/famspend/pkg/category"
	"github.com/famspend/famspend/pkg/expense"
	"github.com/famspend/famspend/pkg/wallet"
)

type OverviewDTO struct {
	Wallets              []wallet.WalletDTO     `json:"wallets"`
	Categories           []category.CategoryDTO `json:"categories"`
	Expenses             []expense.ExpenseDTO   `json:"expenses"`
	TotalWalletBalance   string                 `json:"totalWalletBalance"`
	TotalCategoryBalance string                 `json:"totalCategoryBalance"`
	OverallBalance       string                 `json:"overallBalance"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	overview, err := h.service.GetOverview(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(OverviewToDTO(overview)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func OverviewToDTO(overview Overview) OverviewDTO {
	wallets := make([]wallet.WalletDTO, 0, len(overview.Wallets))
	for _, w := range overview.Wallets {
		wallets = append(wallets, wallet.WalletToDTO(w))
	}
	categories := make([]category.CategoryDTO, 0, len(overview.Categories))
	for _, c := range overview.Categories {
		categories = append(categories, category.CategoryToDTO(c))
	}
	expenses := make([]expense.ExpenseDTO, 0, len(overview.Expenses))
	for _, e := range overview.Expenses {
		expenses = append(expenses, expense.ExpenseToDTO(e))
	}
	return OverviewDTO{
		Wallets:              wallets,
		Categories:           categories,
		Expenses:             expenses,
		TotalWalletBalance:   overview.TotalWalletBalance.StringFixed(2),
		TotalCategoryBalance: overview.TotalCategoryBalance.StringFixed(2),
		OverallBalance:       overview.OverallBalance.StringFixed(2),
	}
}
