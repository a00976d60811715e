package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/school"
)

type feeRepository struct {
	crud[school.Fee, school.NewFee, school.UpdateFee]
}

var _ school.FeeRepository = (*feeRepository)(nil)

func NewFeeRepository(s *Store) *feeRepository {
	return &feeRepository{crud[school.Fee, school.NewFee, school.UpdateFee]{
		Store:    s,
		table:    "fees",
		entity:   school.EntityFee,
		sortable: []string{"fee_type", "amount", "frequency", "created_at"},
		row: func(in school.NewFee) map[string]interface{} {
			return map[string]interface{}{
				"class_id":    in.ClassID,
				"fee_type":    in.FeeType,
				"amount":      in.Amount,
				"frequency":   in.Frequency,
				"description": in.Description,
				"is_active":   *in.IsActive,
			}
		},
		refs: func(in school.NewFee) []fkRef {
			return []fkRef{ref("class_id", school.EntityClass, "classes", in.ClassID)}
		},
		merge: school.UpdateFee.Apply,
	}}
}

func (repo *feeRepository) List(ctx context.Context, filter school.FeeFilter, page core.PageRequest) (core.Page[school.Fee], error) {
	var conds []sq.Sqlizer
	if filter.ClassID != 0 {
		conds = append(conds, sq.Eq{"class_id": filter.ClassID})
	}
	if filter.IsActive != nil {
		conds = append(conds, sq.Eq{"is_active": *filter.IsActive})
	}
	return repo.list(ctx, conds, filter.Ordering, page)
}

type feePaymentRepository struct {
	crud[school.FeePayment, school.NewFeePayment, school.UpdateFeePayment]
}

var _ school.FeePaymentRepository = (*feePaymentRepository)(nil)

func NewFeePaymentRepository(s *Store) *feePaymentRepository {
	return &feePaymentRepository{crud[school.FeePayment, school.NewFeePayment, school.UpdateFeePayment]{
		Store:    s,
		table:    "fee_payments",
		entity:   school.EntityFeePayment,
		sortable: []string{"payment_date", "amount_paid", "receipt_number", "created_at"},
		row: func(in school.NewFeePayment) map[string]interface{} {
			return map[string]interface{}{
				"student_id":     in.StudentID,
				"fee_id":         in.FeeID,
				"receipt_number": in.ReceiptNumber,
				"amount_paid":    in.AmountPaid,
				"payment_date":   in.PaymentDate,
				"payment_method": in.PaymentMethod,
				"transaction_id": in.TransactionID,
				"status":         string(in.Status),
				"remarks":        in.Remarks,
			}
		},
		refs: func(in school.NewFeePayment) []fkRef {
			return []fkRef{
				ref("student_id", school.EntityStudent, "students", in.StudentID),
				ref("fee_id", school.EntityFee, "fees", in.FeeID),
			}
		},
		merge: school.UpdateFeePayment.Apply,
	}}
}

func (repo *feePaymentRepository) List(ctx context.Context, filter school.FeePaymentFilter, page core.PageRequest) (core.Page[school.FeePayment], error) {
	conds := dateRange("payment_date", filter.From, filter.To)
	if filter.StudentID != 0 {
		conds = append(conds, sq.Eq{"student_id": filter.StudentID})
	}
	if filter.FeeID != 0 {
		conds = append(conds, sq.Eq{"fee_id": filter.FeeID})
	}
	if filter.Status != "" {
		if !filter.Status.IsValid() {
			return core.Page[school.FeePayment]{}, invalidFilter("status", filter.Status)
		}
		conds = append(conds, sq.Eq{"status": string(filter.Status)})
	}
	return repo.list(ctx, conds, filter.Ordering, page)
}
