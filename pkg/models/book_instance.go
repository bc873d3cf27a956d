package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Loan statuses. The single-letter values are what's stored.
const (
	StatusMaintenance = "m"
	StatusOnLoan      = "o"
	StatusAvailable   = "a"
	StatusReserved    = "r"
)

// Statuses lists every valid loan status.
var Statuses = []string{StatusMaintenance, StatusOnLoan, StatusAvailable, StatusReserved}

// StatusLabel returns the human-readable name of a status.
func StatusLabel(status string) string {
	switch status {
	case StatusMaintenance:
		return "Maintenance"
	case StatusOnLoan:
		return "On loan"
	case StatusAvailable:
		return "Available"
	case StatusReserved:
		return "Reserved"
	}
	return ""
}

// BookInstance is a single loanable copy of a Book.
type BookInstance struct {
	bun.BaseModel `bun:"table:book_instances,alias:bi"`

	ID         string    `bun:",pk" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	BookID     int       `bun:",notnull" json:"book_id"`
	Book       *Book     `bun:"rel:belongs-to,join:book_id=id" json:"book,omitempty"`
	Imprint    string    `bun:",notnull" json:"imprint"`
	DueBack    *Date     `json:"due_back"`
	Status     string    `bun:",notnull" json:"status"`
	BorrowerID *int      `json:"borrower_id"`
	Borrower   *User     `bun:"rel:belongs-to,join:borrower_id=id" json:"borrower,omitempty"`

	IsOverdue bool `bun:"-" json:"is_overdue"`
}

// OnLoan reports whether the instance is currently lent to someone.
func (bi *BookInstance) OnLoan() bool {
	return bi.Status == StatusOnLoan && bi.BorrowerID != nil
}

// Overdue reports whether the due date is strictly before today. The status
// isn't considered.
func (bi *BookInstance) Overdue(today Date) bool {
	return bi.DueBack != nil && bi.DueBack.Before(today)
}

// MarkOverdue sets IsOverdue as of today so it shows up in responses.
func (bi *BookInstance) MarkOverdue(today Date) {
	bi.IsOverdue = bi.Overdue(today)
}
