// Package clearer zeroes customer on-account balances by posting one
// compensating sale per customer.
package clearer

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/logging"
	"github.com/agentstation/rostersync/pkg/pos"
)

// Target is the point-of-sale capability surface the clearer needs.
type Target interface {
	Employees(ctx context.Context) ([]pos.Employee, error)
	CreateSale(ctx context.Context, sale *pos.Sale) (*pos.Sale, error)
}

// Config holds the resolved ids stamped on every clearing sale.
type Config struct {
	ShopID        string
	PaymentTypeID string
	EmployeeID    string
}

// Clearer posts compensating sales. Failed submissions are never retried.
type Clearer struct {
	target Target
	cfg    Config
}

// New creates a Clearer. An empty EmployeeID falls back to the default
// clearing employee.
func New(target Target, cfg Config) (*Clearer, error) {
	if cfg.ShopID == "" {
		return nil, errors.NewConfigError("clearer", "shop id is not resolved", nil)
	}
	if cfg.PaymentTypeID == "" {
		return nil, errors.NewConfigError("clearer", "payment type id is not resolved", nil)
	}
	if cfg.EmployeeID == "" {
		cfg.EmployeeID = constants.DefaultClearingEmployeeID
	}
	return &Clearer{target: target, cfg: cfg}, nil
}

// ResolveEmployee finds the employee id by name, falling back to the default
// clearing employee when the name is empty, unknown, or the lookup fails.
func ResolveEmployee(ctx context.Context, target Target, name string) string {
	logger := logging.FromContext(ctx)
	if name == "" {
		return constants.DefaultClearingEmployeeID
	}
	employees, err := target.Employees(ctx)
	if err != nil {
		logger.Warn().Err(err).Str("employee", name).Msg("Cannot list employees, using default clearing employee")
		return constants.DefaultClearingEmployeeID
	}
	emp, ok := pos.FindEmployee(employees, name)
	if !ok {
		logger.Warn().Str("employee", name).Msg("Employee not found, using default clearing employee")
		return constants.DefaultClearingEmployeeID
	}
	return emp.EmployeeID
}

// Payload builds the compensating sale: one line and one payment, both at
// the negative of the balance, the payment tagged to the credit account.
func (c *Clearer) Payload(customerID, creditAccountID string, balance decimal.Decimal) (*pos.Sale, error) {
	if customerID == "" {
		return nil, errors.NewValidationError("customer_id", customerID, "is required")
	}
	if creditAccountID == "" {
		return nil, errors.NewValidationError("credit_account_id", creditAccountID, "is required")
	}
	if !balance.IsPositive() {
		return nil, errors.NewValidationError("balance", balance.String(), "must be positive to clear")
	}

	amount := pos.NewMoney(balance.Neg().Round(2))
	return &pos.Sale{
		Completed:  true,
		CustomerID: customerID,
		EmployeeID: c.cfg.EmployeeID,
		ShopID:     c.cfg.ShopID,
		SaleLines: &pos.SaleLines{SaleLine: pos.List[pos.SaleLine]{{
			ShopID:       c.cfg.ShopID,
			UnitQuantity: pos.NewMoney(decimal.NewFromInt(1)),
			UnitPrice:    amount,
		}}},
		SalePayments: &pos.SalePayments{SalePayment: pos.List[pos.SalePayment]{{
			Amount:          amount,
			PaymentTypeID:   c.cfg.PaymentTypeID,
			CreditAccountID: creditAccountID,
		}}},
	}, nil
}

// Clear submits the compensating sale for one customer. On failure the
// attempted payload is logged for manual remediation.
func (c *Clearer) Clear(ctx context.Context, customer *pos.Customer) (*pos.Sale, error) {
	ctx = logging.WithCustomer(ctx, customer.CustomerID)
	logger := logging.FromContext(ctx)

	sale, err := c.Payload(customer.CustomerID, customer.CreditAccountID(), customer.Balance())
	if err != nil {
		return nil, err
	}

	created, err := c.target.CreateSale(ctx, sale)
	if err != nil {
		payload, _ := json.Marshal(sale)
		logger.Error().
			Err(err).
			RawJSON("payload", payload).
			Str("balance", customer.Balance().StringFixed(2)).
			Msg("Failed to clear balance, submit manually")
		return nil, errors.WrapResource("create", "sale", customer.CustomerID, err)
	}

	logger.Info().
		Str("sale_id", created.SaleID).
		Str("balance", customer.Balance().StringFixed(2)).
		Msg("Cleared balance")
	return created, nil
}
