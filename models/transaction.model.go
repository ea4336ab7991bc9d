package models

import "time"

type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// ValidType reports whether t is one of the two accepted transaction types.
func ValidType(t string) bool {
	return TransactionType(t) == Income || TransactionType(t) == Expense
}

// Transaction is a single income or expense record. Amount is always
// positive; direction is carried by Type alone. UserID is assigned from the
// caller identity at creation and never changes afterwards.
type Transaction struct {
	ID        string          `json:"id" bson:"_id"`
	Title     string          `json:"title" bson:"title"`
	Amount    float64         `json:"amount" bson:"amount"`
	Type      TransactionType `json:"type" bson:"type"`
	Category  string          `json:"category" bson:"category"`
	Date      time.Time       `json:"date" bson:"date"`
	UserID    string          `json:"userId" bson:"userId"`
	CreatedAt time.Time       `json:"createdAt" bson:"createdAt"`
}

// TransactionResponse is the wire form of a Transaction: the date is rendered
// as a plain YYYY-MM-DD calendar date with no time component.
type TransactionResponse struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Amount    float64         `json:"amount"`
	Type      TransactionType `json:"type"`
	Category  string          `json:"category"`
	Date      string          `json:"date"`
	UserID    string          `json:"userId"`
	CreatedAt time.Time       `json:"createdAt"`
}

func (t Transaction) Response() TransactionResponse {
	return TransactionResponse{
		ID:        t.ID,
		Title:     t.Title,
		Amount:    t.Amount,
		Type:      t.Type,
		Category:  t.Category,
		Date:      t.Date.UTC().Format("2006-01-02"),
		UserID:    t.UserID,
		CreatedAt: t.CreatedAt,
	}
}

// Summary aggregates a user's transactions the way the dashboard shows them.
type Summary struct {
	TotalIncome        float64            `json:"totalIncome"`
	TotalExpense       float64            `json:"totalExpense"`
	Balance            float64            `json:"balance"`
	ExpensesByCategory map[string]float64 `json:"expensesByCategory"`
}
