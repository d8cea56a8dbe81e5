package fee

import (
	"time"

	"github.com/trezcool/shule/core"
)

const DateFormat = "2006-01-02"

// Statuses, derived from PaidAmount vs Amount; never set directly.
const (
	StatusPending = "pending"
	StatusPartial = "partial"
	StatusPaid    = "paid"
)

type Fee struct {
	ID         int       `json:"id"`
	StudentID  int       `json:"student_id"`
	Amount     float64   `json:"amount"`
	PaidAmount float64   `json:"paid_amount"`
	DueDate    time.Time `json:"due_date"`
	Status     string    `json:"status"`
	ReceiptNo  string    `json:"receipt_no"`
	CreatedAt  time.Time `json:"created_at"` // UTC
	UpdatedAt  time.Time `json:"updated_at"` // UTC
}

// DeriveStatus recomputes the status from the paid/total amounts.
func (f *Fee) DeriveStatus() {
	switch {
	case f.PaidAmount >= f.Amount:
		f.Status = StatusPaid
	case f.PaidAmount > 0:
		f.Status = StatusPartial
	default:
		f.Status = StatusPending
	}
}

// Totals are org-wide fee sums. Due may be negative on overpayment; it is not clamped.
type Totals struct {
	Amount float64
	Paid   float64
}

func (t Totals) Due() float64 {
	return t.Amount - t.Paid
}

// NewFee contains information needed to raise a new Fee.
type NewFee struct {
	StudentID int     `json:"student_id" validate:"required,min=1"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	DueDate   string  `json:"due_date" validate:"required"`

	dueDate time.Time
}

func (nf *NewFee) Validate() error {
	if err := core.Validate.Struct(nf); err != nil {
		return err
	}
	day, err := time.Parse(DateFormat, nf.DueDate)
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "due_date", Error: "must be a valid date (2006-01-02)"})
	}
	nf.dueDate = day
	return nil
}

// Due returns the parsed due date; only valid after Validate.
func (nf *NewFee) Due() time.Time { return nf.dueDate }

// Payment is a partial or full payment against a Fee.
type Payment struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

func (p *Payment) Validate() error { return core.Validate.Struct(p) }
