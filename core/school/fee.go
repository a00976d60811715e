package school

import (
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooladmin/core"
)

const DefaultFeeFrequency = "monthly"

// Fee is an amount charged to every student of a class.
type Fee struct {
	ID          int64           `db:"id" json:"id"`
	ClassID     int64           `db:"class_id" json:"class_id"`
	FeeType     string          `db:"fee_type" json:"fee_type"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Frequency   string          `db:"frequency" json:"frequency"`
	Description null.String     `db:"description" json:"description"`
	IsActive    bool            `db:"is_active" json:"is_active"`
	Timestamps
}

type NewFee struct {
	ClassID     int64           `json:"class_id" validate:"required"`
	FeeType     string          `json:"fee_type" validate:"required,max=255"`
	Amount      decimal.Decimal `json:"amount" validate:"udecimal=10_2"`
	Frequency   string          `json:"frequency" validate:"required,max=50"` // defaults to monthly
	Description null.String     `json:"description"`
	IsActive    *bool           `json:"is_active"` // defaults to true
}

func (in *NewFee) Clean() {
	in.FeeType = core.CleanString(in.FeeType)
	in.Frequency = core.CleanString(in.Frequency, true /* lower */)
	if in.Frequency == "" {
		in.Frequency = DefaultFeeFrequency
	}
	if in.IsActive == nil {
		in.IsActive = ptr(true)
	}
}

type UpdateFee struct {
	ClassID     *int64                     `json:"class_id"`
	FeeType     *string                    `json:"fee_type"`
	Amount      *decimal.Decimal           `json:"amount"`
	Frequency   *string                    `json:"frequency"`
	Description core.Optional[null.String] `json:"description"`
	IsActive    *bool                      `json:"is_active"`
}

func (u UpdateFee) Apply(f Fee) NewFee {
	return NewFee{
		ClassID:     or(u.ClassID, f.ClassID),
		FeeType:     or(u.FeeType, f.FeeType),
		Amount:      or(u.Amount, f.Amount),
		Frequency:   or(u.Frequency, f.Frequency),
		Description: u.Description.Or(f.Description),
		IsActive:    ptr(or(u.IsActive, f.IsActive)),
	}
}

type FeeFilter struct {
	ClassID  int64 `query:"class_id"`
	IsActive *bool `query:"is_active"`
	Ordering []core.DBOrdering
}

// FeePayment is a payment made by a student towards a fee; receipt numbers are unique.
type FeePayment struct {
	ID            int64            `db:"id" json:"id"`
	StudentID     int64            `db:"student_id" json:"student_id"`
	FeeID         int64            `db:"fee_id" json:"fee_id"`
	ReceiptNumber string           `db:"receipt_number" json:"receipt_number"`
	AmountPaid    decimal.Decimal  `db:"amount_paid" json:"amount_paid"`
	PaymentDate   core.Date        `db:"payment_date" json:"payment_date"`
	PaymentMethod null.String      `db:"payment_method" json:"payment_method"`
	TransactionID null.String      `db:"transaction_id" json:"transaction_id"`
	Status        FeePaymentStatus `db:"status" json:"status"`
	Remarks       null.String      `db:"remarks" json:"remarks"`
	Timestamps
}

type NewFeePayment struct {
	StudentID     int64            `json:"student_id" validate:"required"`
	FeeID         int64            `json:"fee_id" validate:"required"`
	ReceiptNumber string           `json:"receipt_number" validate:"required,max=50"`
	AmountPaid    decimal.Decimal  `json:"amount_paid" validate:"udecimal=10_2"`
	PaymentDate   core.Date        `json:"payment_date" validate:"required"`
	PaymentMethod null.String      `json:"payment_method" validate:"omitempty,max=50"`
	TransactionID null.String      `json:"transaction_id" validate:"omitempty,max=255"`
	Status        FeePaymentStatus `json:"status" validate:"required,enum"` // defaults to paid
	Remarks       null.String      `json:"remarks"`
}

func (in *NewFeePayment) Clean() {
	in.ReceiptNumber = core.CleanString(in.ReceiptNumber)
	in.PaymentDate = cleanDate(in.PaymentDate)
	if in.Status == "" {
		in.Status = PaymentPaid
	}
}

type UpdateFeePayment struct {
	StudentID     *int64                     `json:"student_id"`
	FeeID         *int64                     `json:"fee_id"`
	ReceiptNumber *string                    `json:"receipt_number"`
	AmountPaid    *decimal.Decimal           `json:"amount_paid"`
	PaymentDate   *core.Date                 `json:"payment_date"`
	PaymentMethod core.Optional[null.String] `json:"payment_method"`
	TransactionID core.Optional[null.String] `json:"transaction_id"`
	Status        *FeePaymentStatus          `json:"status"`
	Remarks       core.Optional[null.String] `json:"remarks"`
}

func (u UpdateFeePayment) Apply(p FeePayment) NewFeePayment {
	return NewFeePayment{
		StudentID:     or(u.StudentID, p.StudentID),
		FeeID:         or(u.FeeID, p.FeeID),
		ReceiptNumber: or(u.ReceiptNumber, p.ReceiptNumber),
		AmountPaid:    or(u.AmountPaid, p.AmountPaid),
		PaymentDate:   or(u.PaymentDate, p.PaymentDate),
		PaymentMethod: u.PaymentMethod.Or(p.PaymentMethod),
		TransactionID: u.TransactionID.Or(p.TransactionID),
		Status:        or(u.Status, p.Status),
		Remarks:       u.Remarks.Or(p.Remarks),
	}
}

type FeePaymentFilter struct {
	StudentID int64            `query:"student_id"`
	FeeID     int64            `query:"fee_id"`
	Status    FeePaymentStatus `query:"status"`
	From      *core.Date       `query:"-"`
	To        *core.Date       `query:"-"`
	Ordering  []core.DBOrdering
}
