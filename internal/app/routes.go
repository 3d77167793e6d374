package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Wallets
	r.HandleFunc("/api/wallet", deps.WalletHandler.Create).Methods("POST")
	r.HandleFunc("/api/wallet", deps.WalletHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/wallet/{id}", deps.WalletHandler.Update).Methods("PUT")
	r.HandleFunc("/api/wallet/{id}", deps.WalletHandler.Delete).Methods("DELETE")

	// Categories
	r.HandleFunc("/api/category", deps.CategoryHandler.Create).Methods("POST")
	r.HandleFunc("/api/category", deps.CategoryHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/category/{id}", deps.CategoryHandler.Update).Methods("PUT")
	r.HandleFunc("/api/category/{id}", deps.CategoryHandler.Delete).Methods("DELETE")

	// Expenses
	r.HandleFunc("/api/expense", deps.ExpenseHandler.Create).Methods("POST")
	r.HandleFunc("/api/expense", deps.ExpenseHandler.Find).Methods("GET")
	r.HandleFunc("/api/expense/{expenseUid}", deps.ExpenseHandler.Get).Methods("GET")
	r.HandleFunc("/api/expense/{expenseUid}", deps.ExpenseHandler.Update).Methods("PUT")
	r.HandleFunc("/api/expense/{expenseUid}", deps.ExpenseHandler.Delete).Methods("DELETE")

	// Overview
	r.HandleFunc("/api/overview", deps.OverviewHandler.GetOverview).Methods("GET")
}
