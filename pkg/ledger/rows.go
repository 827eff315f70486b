package ledger

import (
	"github.com/shopspring/decimal"
)

// LineRow is one exported sale line.
type LineRow struct {
	PersonID              string
	CustomerAccountNumber string
	CustomerName          string
	TransactionSource     string
	TransactionType       string
	SchoolYear            string
	ItemDate              string
	CatalogItemFK         string
	Description           string
	Quantity              decimal.Decimal
	UnitPrice             decimal.Decimal
	PurchaseAmount        decimal.Decimal
	TaxAmount             decimal.Decimal
	TotalAmount           decimal.Decimal
	POSTransactionID      string
}

// LineHeader is the fixed column order of the line file.
var LineHeader = []string{
	"person_id",
	"customer_account_number",
	"customer_name",
	"transaction_source",
	"transaction_type",
	"school_year",
	"item_date",
	"catalog_item_fk",
	"description",
	"quantity",
	"unit_price",
	"purchase_amount",
	"tax_amount",
	"total_amount",
	"pos_transaction_id",
}

// Record returns the row values in LineHeader order.
func (r LineRow) Record() []string {
	return []string{
		r.PersonID,
		r.CustomerAccountNumber,
		r.CustomerName,
		r.TransactionSource,
		r.TransactionType,
		r.SchoolYear,
		r.ItemDate,
		r.CatalogItemFK,
		r.Description,
		r.Quantity.String(),
		r.UnitPrice.StringFixed(2),
		r.PurchaseAmount.StringFixed(2),
		r.TaxAmount.StringFixed(2),
		r.TotalAmount.StringFixed(2),
		r.POSTransactionID,
	}
}

// BalanceRow is one exported customer balance.
type BalanceRow struct {
	FirstName    string
	LastName     string
	VeracrossID  string
	CustomerType string
	Balance      decimal.Decimal
	CustomerNum  string
}

// BalanceHeader is the fixed column order of the balance file.
var BalanceHeader = []string{
	"first_name",
	"last_name",
	"veracross_id",
	"lightspeed_cust_type",
	"balance",
	"lightspeed_cust_num",
}

// Record returns the row values in BalanceHeader order.
func (r BalanceRow) Record() []string {
	return []string{
		r.FirstName,
		r.LastName,
		r.VeracrossID,
		r.CustomerType,
		r.Balance.StringFixed(2),
		r.CustomerNum,
	}
}
