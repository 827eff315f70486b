// Package ledger exports on-account sale lines and customer balances for
// downstream accounting, optionally clearing each exported balance.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/agentstation/rostersync/pkg/clearer"
	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/logging"
	"github.com/agentstation/rostersync/pkg/pos"
)

// Target is the point-of-sale capability surface the exporter needs.
type Target interface {
	clearer.Target
	Shops(ctx context.Context) ([]pos.Shop, error)
	CustomerTypes(ctx context.Context) ([]pos.CustomerType, error)
	CustomFields(ctx context.Context) ([]pos.CustomField, error)
	PaymentTypes(ctx context.Context) ([]pos.PaymentType, error)
	Sales(ctx context.Context, from, to time.Time) ([]pos.Sale, error)
	Customers(ctx context.Context) ([]pos.Customer, error)
}

// Config describes one export.
type Config struct {
	ShopName        string
	CustomerType    string
	ExternalIDField string
	OnAccountCode   string
	Window          Window

	TransactionSource string
	TransactionType   string
	SchoolYear        string
	CatalogItemFK     string

	// Clear posts a compensating sale for every exported balance.
	Clear           bool
	PaymentTypeName string
	EmployeeName    string
}

// Result holds the rows of one export and what was skipped.
type Result struct {
	Lines    []LineRow
	Balances []BalanceRow
	Stats    Stats
}

// Stats counts what the exporter saw.
type Stats struct {
	Sales            int
	NotOnAccount     int
	MixedPayment     int
	OtherCustomer    int
	LinesOtherShop   int
	LinesFailed      int
	BalancesCleared  int
	BalancesFailed   int
	CustomersSkipped int
}

// Exporter builds ledger rows from the point of sale.
type Exporter struct {
	target Target
}

// New creates an Exporter.
func New(target Target) *Exporter {
	return &Exporter{target: target}
}

// resolved holds the ids looked up once per export.
type resolved struct {
	shop            *pos.Shop
	location        *time.Location
	customerTypeID  string
	externalIDField string
	clearer         *clearer.Clearer
}

// Export pulls sales and balances for cfg. Any missing or unresolvable
// configuration aborts the export; a record that cannot be formatted is
// logged and skipped.
func (e *Exporter) Export(ctx context.Context, cfg Config) (*Result, error) {
	ctx = logging.WithOperation(ctx, "export")
	logger := logging.FromContext(ctx)

	res, err := e.resolve(ctx, cfg)
	if err != nil {
		return nil, err
	}

	from, to := cfg.Window.Range(res.location)
	logger.Info().
		Str("shop", res.shop.Name).
		Time("from", from).
		Time("to", to).
		Msg("Pulling completed sales")

	sales, err := e.target.Sales(ctx, from, to)
	if err != nil {
		return nil, errors.WrapResource("fetch", "sales", "", err)
	}

	result := &Result{}
	for i := range sales {
		e.exportSale(ctx, cfg, res, &sales[i], result)
	}

	if err := e.exportBalances(ctx, cfg, res, result); err != nil {
		return nil, err
	}

	logger.Info().
		Int("lines", len(result.Lines)).
		Int("balances", len(result.Balances)).
		Int("mixed_payment", result.Stats.MixedPayment).
		Int("lines_failed", result.Stats.LinesFailed).
		Int("cleared", result.Stats.BalancesCleared).
		Msg("Export finished")
	return result, nil
}

func (e *Exporter) resolve(ctx context.Context, cfg Config) (*resolved, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	shops, err := e.target.Shops(ctx)
	if err != nil {
		return nil, errors.NewConfigError("export.shop_name", "cannot list shops", err)
	}
	shop, ok := pos.FindShop(shops, cfg.ShopName)
	if !ok {
		return nil, errors.NewConfigError("export.shop_name", fmt.Sprintf("shop %q not found", cfg.ShopName), nil)
	}
	loc, err := time.LoadLocation(shop.TimeZone)
	if err != nil {
		return nil, errors.NewConfigError("export.shop_name", fmt.Sprintf("shop timezone %q is invalid", shop.TimeZone), err)
	}

	types, err := e.target.CustomerTypes(ctx)
	if err != nil {
		return nil, errors.NewConfigError("export.customer_type", "cannot list customer types", err)
	}
	typeID, ok := pos.CustomerTypeID(types, cfg.CustomerType)
	if !ok {
		return nil, errors.NewConfigError("export.customer_type", fmt.Sprintf("customer type %q not found", cfg.CustomerType), nil)
	}

	fields, err := e.target.CustomFields(ctx)
	if err != nil {
		return nil, errors.NewConfigError("import_options.external_id_field", "cannot list customer custom fields", err)
	}
	fieldID, ok := pos.CustomFieldID(fields, cfg.ExternalIDField)
	if !ok {
		return nil, errors.NewConfigError("import_options.external_id_field", fmt.Sprintf("custom field %q not found", cfg.ExternalIDField), nil)
	}

	res := &resolved{shop: shop, location: loc, customerTypeID: typeID, externalIDField: fieldID}
	if cfg.Clear {
		paymentTypes, err := e.target.PaymentTypes(ctx)
		if err != nil {
			return nil, errors.NewConfigError("export.payment_type", "cannot list payment types", err)
		}
		pt, ok := pos.FindPaymentType(paymentTypes, cfg.PaymentTypeName)
		if !ok {
			return nil, errors.NewConfigError("export.payment_type", fmt.Sprintf("payment type %q not found", cfg.PaymentTypeName), nil)
		}
		res.clearer, err = clearer.New(e.target, clearer.Config{
			ShopID:        shop.ShopID,
			PaymentTypeID: pt.PaymentTypeID,
			EmployeeID:    clearer.ResolveEmployee(ctx, e.target, cfg.EmployeeName),
		})
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (cfg Config) validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"export.shop_name", cfg.ShopName},
		{"export.customer_type", cfg.CustomerType},
		{"import_options.external_id_field", cfg.ExternalIDField},
		{"export.on_account_code", cfg.OnAccountCode},
	}
	for _, r := range required {
		if r.value == "" {
			return errors.NewConfigError(r.key, "is required", nil)
		}
	}
	if cfg.Window.Begin.IsZero() || cfg.Window.End.IsZero() {
		return errors.NewConfigError("export.begin", "export window is required", nil)
	}
	if cfg.Clear && cfg.PaymentTypeName == "" {
		return errors.NewConfigError("export.payment_type", "is required when clearing balances", nil)
	}
	return nil
}

// classifyPayments reports whether a sale carries an on-account payment and
// whether it carries any other kind.
func classifyPayments(sale *pos.Sale, onAccountCode string) (onAccount, other bool) {
	for _, p := range sale.Payments() {
		if p.PaymentCode() == onAccountCode {
			onAccount = true
		} else {
			other = true
		}
	}
	return onAccount, other
}

func (e *Exporter) exportSale(ctx context.Context, cfg Config, res *resolved, sale *pos.Sale, result *Result) {
	logger := logging.FromContext(ctx).With().Str("sale_id", sale.SaleID).Logger()
	result.Stats.Sales++

	onAccount, other := classifyPayments(sale, cfg.OnAccountCode)
	switch {
	case !onAccount:
		result.Stats.NotOnAccount++
		return
	case other:
		result.Stats.MixedPayment++
		logger.Warn().
			Str("customer_id", sale.CustomerID).
			Msg("Sale mixes on-account with other payments, skipping")
		return
	}

	if sale.Customer == nil || sale.Customer.CustomerTypeID != res.customerTypeID {
		result.Stats.OtherCustomer++
		return
	}

	ts, err := sale.Time()
	if err != nil {
		result.Stats.LinesFailed += len(sale.Lines())
		logger.Error().Err(err).Str("timestamp", sale.TimeStamp).Msg("Cannot parse sale timestamp, skipping")
		return
	}
	itemDate := ts.In(res.location).Format(constants.DateFormat)

	for i := range sale.Lines() {
		line := &sale.Lines()[i]
		if line.ShopID != res.shop.ShopID {
			result.Stats.LinesOtherShop++
			continue
		}
		amounts, err := ComputeAmounts(line)
		if err != nil {
			result.Stats.LinesFailed++
			logger.Error().
				Err(err).
				Str("customer_id", sale.CustomerID).
				Str("sale_line_id", line.SaleLineID).
				Msg("Cannot format sale line, skipping")
			continue
		}
		result.Lines = append(result.Lines, LineRow{
			PersonID:              sale.Customer.ExternalID(res.externalIDField),
			CustomerAccountNumber: sale.CustomerID,
			CustomerName:          sale.Customer.FirstName + " " + sale.Customer.LastName,
			TransactionSource:     cfg.TransactionSource,
			TransactionType:       cfg.TransactionType,
			SchoolYear:            cfg.SchoolYear,
			ItemDate:              itemDate,
			CatalogItemFK:         cfg.CatalogItemFK,
			Description:           Description(line),
			Quantity:              amounts.Quantity,
			UnitPrice:             amounts.UnitPrice,
			PurchaseAmount:        amounts.Purchase,
			TaxAmount:             amounts.Tax,
			TotalAmount:           amounts.Total,
			POSTransactionID:      sale.SaleID,
		})
	}
}

// Description prefers the item description, then the line note.
func Description(line *pos.SaleLine) string {
	if line.Item != nil && line.Item.Description != "" {
		return line.Item.Description
	}
	if line.Note != nil && line.Note.Note != "" {
		return line.Note.Note
	}
	return constants.UnknownDescription
}

func (e *Exporter) exportBalances(ctx context.Context, cfg Config, res *resolved, result *Result) error {
	customers, err := e.target.Customers(ctx)
	if err != nil {
		return errors.WrapResource("fetch", "customers", "", err)
	}

	for i := range customers {
		c := &customers[i]
		if c.CustomerTypeID != res.customerTypeID || !c.Balance().IsPositive() {
			result.Stats.CustomersSkipped++
			continue
		}
		result.Balances = append(result.Balances, BalanceRow{
			FirstName:    c.FirstName,
			LastName:     c.LastName,
			VeracrossID:  c.ExternalID(res.externalIDField),
			CustomerType: cfg.CustomerType,
			Balance:      c.Balance().Round(2),
			CustomerNum:  c.CustomerID,
		})

		if res.clearer == nil {
			continue
		}
		if _, err := res.clearer.Clear(ctx, c); err != nil {
			result.Stats.BalancesFailed++
			continue
		}
		result.Stats.BalancesCleared++
	}
	return nil
}
