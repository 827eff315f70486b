package clearer_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rostersync/internal/fake"
	"github.com/agentstation/rostersync/pkg/clearer"
	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/logging"
	"github.com/agentstation/rostersync/pkg/pos"
)

func owingCustomer(balance string) *pos.Customer {
	return &pos.Customer{
		CustomerID:    "88",
		FirstName:     "Sam",
		LastName:      "Smith",
		CreditAccount: &pos.CreditAccount{CreditAccountID: "9", Balance: pos.MustMoney(balance)},
	}
}

func newClearer(t *testing.T, store *fake.POS) *clearer.Clearer {
	t.Helper()
	c, err := clearer.New(store, clearer.Config{ShopID: "1", PaymentTypeID: "4", EmployeeID: "5"})
	require.NoError(t, err)
	return c
}

func TestPayloadOffsetsBalance(t *testing.T) {
	c := newClearer(t, fake.NewPOS())

	sale, err := c.Payload("88", "9", decimal.RequireFromString("42.50"))
	require.NoError(t, err)

	assert.True(t, sale.Completed)
	assert.Equal(t, "88", sale.CustomerID)
	assert.Equal(t, "5", sale.EmployeeID)
	assert.Equal(t, "1", sale.ShopID)
	require.Len(t, sale.Lines(), 1)
	require.Len(t, sale.Payments(), 1)

	line, payment := sale.Lines()[0], sale.Payments()[0]
	want := decimal.RequireFromString("-42.50")
	assert.True(t, line.UnitPrice.Equal(want))
	assert.True(t, payment.Amount.Equal(want))
	assert.True(t, line.UnitPrice.Equal(payment.Amount.Decimal))
	assert.Equal(t, "9", payment.CreditAccountID)
	assert.Equal(t, "4", payment.PaymentTypeID)
}

func TestPayloadRejectsNonPositive(t *testing.T) {
	c := newClearer(t, fake.NewPOS())
	for _, b := range []string{"0", "-1.00"} {
		_, err := c.Payload("88", "9", decimal.RequireFromString(b))
		assert.True(t, errors.IsValidationError(err), b)
	}
	_, err := c.Payload("88", "", decimal.NewFromInt(1))
	assert.True(t, errors.IsValidationError(err))
}

func TestClearSubmitsSale(t *testing.T) {
	store := fake.NewPOS()
	created, err := newClearer(t, store).Clear(context.Background(), owingCustomer("10.00"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.SaleID)
	require.Len(t, store.CreatedSales, 1)
}

func TestClearFailureLogsPayload(t *testing.T) {
	store := fake.NewPOS()
	store.FailOn("sale", errors.NewAPIError("lightspeed", 400, "bad sale"))
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	_, err := newClearer(t, store).Clear(ctx, owingCustomer("10.00"))
	require.Error(t, err)
	assert.True(t, errors.IsWriteError(err))
	assert.Empty(t, store.CreatedSales)
	tl.AssertContains(t, `"payload":{`)
	tl.AssertContains(t, `"creditAccountID":"9"`)
	assert.Len(t, tl.Entries(), 1, "no retry")
}

func TestResolveEmployee(t *testing.T) {
	store := fake.NewPOS()
	store.EmployeeList = []pos.Employee{{EmployeeID: "7", FirstName: "Pat", LastName: "Lee"}}
	ctx := context.Background()

	assert.Equal(t, "7", clearer.ResolveEmployee(ctx, store, "Pat Lee"))
	assert.Equal(t, "1", clearer.ResolveEmployee(ctx, store, "Nobody"))
	assert.Equal(t, "1", clearer.ResolveEmployee(ctx, store, ""))

	store.FailOn("employees", errors.New("down"))
	assert.Equal(t, "1", clearer.ResolveEmployee(ctx, store, "Pat Lee"))
}

func TestNewRequiresIDs(t *testing.T) {
	_, err := clearer.New(fake.NewPOS(), clearer.Config{PaymentTypeID: "4"})
	assert.True(t, errors.IsConfigError(err))
	_, err = clearer.New(fake.NewPOS(), clearer.Config{ShopID: "1"})
	assert.True(t, errors.IsConfigError(err))
}
