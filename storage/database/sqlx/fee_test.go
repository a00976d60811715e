package sqlxrepos_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/school"
	testutil "github.com/trezcool/schooladmin/tests"
)

func TestFeeRepository_Decimals(t *testing.T) {
	_, repos := setup(t)
	ctx := context.Background()
	cls := testutil.CreateClass(t, repos, "Grade 5")

	fee := testutil.CreateFee(t, repos, cls.ID, "12345678.91")
	assert.True(t, fee.Amount.Equal(decimal.RequireFromString("12345678.91")), "amount = %v", fee.Amount)
	assert.Equal(t, school.DefaultFeeFrequency, fee.Frequency)
	assert.True(t, fee.IsActive)

	got, err := repos.Fees.Get(ctx, fee.ID)
	require.NoError(t, err)
	assert.Equal(t, "12345678.91", got.Amount.StringFixed(2))

	_, err = repos.Fees.Create(ctx, school.NewFee{ClassID: cls.ID, FeeType: "Bus", Amount: decimal.RequireFromString("123456789.00")})
	assert.True(t, core.IsValidation(err), "err = %v, want validation error", err)
}

func TestFeePaymentRepository(t *testing.T) {
	_, repos := setup(t)
	ctx := context.Background()
	cls := testutil.CreateClass(t, repos, "Grade 5")
	st := testutil.CreateStudent(t, repos, "Jane", cls.ID, 0)
	fee := testutil.CreateFee(t, repos, cls.ID, "0.30")

	pay := func(receipt, amount string, day int, status school.FeePaymentStatus) (school.FeePayment, error) {
		return repos.FeePayments.Create(ctx, school.NewFeePayment{
			StudentID:     st.ID,
			FeeID:         fee.ID,
			ReceiptNumber: receipt,
			AmountPaid:    decimal.RequireFromString(amount),
			PaymentDate:   school.NewDate(2025, time.February, day),
			Status:        status,
		})
	}

	p1, err := pay("R-1", "0.1", 1, "")
	require.NoError(t, err)
	assert.Equal(t, school.PaymentPaid, p1.Status)
	_, err = pay("R-2", "0.2", 2, school.PaymentPartial)
	require.NoError(t, err)
	_, err = pay("R-3", "5", 3, school.PaymentPending)
	require.NoError(t, err)

	_, err = pay("R-1", "1", 4, "")
	var uErr *core.UniquenessConflictError
	require.ErrorAs(t, err, &uErr)
	assert.Equal(t, []string{"receipt_number"}, uErr.Fields)

	_, err = pay("R-4", "1", 4, "refunded")
	assert.True(t, core.IsValidation(err), "err = %v, want validation error", err)

	page, err := repos.FeePayments.List(ctx, school.FeePaymentFilter{StudentID: st.ID}, core.PageRequest{})
	require.NoError(t, err)
	require.Equal(t, 3, page.Total)
	total := school.SumSettled(page.Items)
	assert.True(t, total.Equal(decimal.RequireFromString("0.3")), "total = %v, want 0.3", total)

	to := school.NewDate(2025, time.February, 2)
	page, err = repos.FeePayments.List(ctx, school.FeePaymentFilter{To: &to, Status: school.PaymentPartial}, core.PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "R-2", page.Items[0].ReceiptNumber)
}

func TestFeePaymentRepository_Concurrent(t *testing.T) {
	_, repos := setup(t)
	ctx := context.Background()
	cls := testutil.CreateClass(t, repos, "Grade 5")
	st := testutil.CreateStudent(t, repos, "Jane", cls.ID, 0)
	fee := testutil.CreateFee(t, repos, cls.ID, "10")

	const n = 8
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			_, err := repos.FeePayments.Create(ctx, school.NewFeePayment{
				StudentID:     st.ID,
				FeeID:         fee.ID,
				ReceiptNumber: fmt.Sprintf("R-%d", i),
				AmountPaid:    decimal.NewFromInt(1),
				PaymentDate:   school.NewDate(2025, time.March, 1),
			})
			errs <- err
		}(i)
	}
	for i := 0; i < n; i++ {
		assert.NoError(t, <-errs)
	}

	page, err := repos.FeePayments.List(ctx, school.FeePaymentFilter{FeeID: fee.ID}, core.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, n, page.Total)
}
