package entity

// Budget is a planned spend for one category. Categories are not unique:
// several budgets for the same category are summed at aggregation time.
// Category strings are compared case-sensitively and exactly; "Feed" and
// "feed" are distinct entries by documented behavior.
type Budget struct {
	Meta
	Category      string  `json:"category"`
	PlannedAmount float64 `json:"plannedAmount"`
	Scope         string  `json:"scope,omitempty"` // grouping key, e.g. pond or project
}

// TransactionType distinguishes money going out from money coming in.
type TransactionType string

const (
	TransactionExpense TransactionType = "expense"
	TransactionIncome  TransactionType = "income"
)

// Transaction is a single dated movement of money. It is never linked to a
// Budget by reference; association is solely by matching category string.
type Transaction struct {
	Meta
	Category string          `json:"category"`
	Amount   float64         `json:"amount"`
	Type     TransactionType `json:"type"`
	Date     string          `json:"date,omitempty"`
	Vendor   string          `json:"vendor,omitempty"`
	Status   string          `json:"status,omitempty"`
}
