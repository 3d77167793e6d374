package event_bus

const (
	ExpenseCreatedEvent  EventType = "expense.created"
	ExpenseUpdatedEvent  EventType = "expense.updated"
	ExpenseDeletedEvent  EventType = "expense.deleted"
	WalletCreatedEvent   EventType = "wallet.created"
	WalletUpdatedEvent   EventType = "wallet.updated"
	CategoryCreatedEvent EventType = "category.created"
	CategoryUpdatedEvent EventType = "category.updated"
)

// ExpenseRef carries the foreign keys a balance recalculation needs.
type ExpenseRef struct {
	ID         int
	WalletID   int
	CategoryID int
}

type ExpenseCreated struct {
	Expense ExpenseRef
}

type ExpenseUpdated struct {
	Old ExpenseRef
	New ExpenseRef
}

type ExpenseDeleted struct {
	Expense ExpenseRef
}

type WalletCreated struct {
	ID int
}

type WalletUpdated struct {
	ID int
}

type CategoryCreated struct {
	ID int
}

type CategoryUpdated struct {
	ID int
}
