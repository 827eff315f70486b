package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/pos"
)

// Amounts holds the computed money columns of one line row.
type Amounts struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Purchase  decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
}

// round applies currency rounding: half away from zero to two places.
func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func value(m *pos.Money) decimal.Decimal {
	if m == nil {
		return decimal.Zero
	}
	return m.Decimal
}

// ComputeAmounts derives the money columns. The effective unit price spreads
// the line discount over the quantity, so a zero quantity cannot be priced.
func ComputeAmounts(line *pos.SaleLine) (Amounts, error) {
	if line.UnitQuantity == nil || line.UnitQuantity.IsZero() {
		return Amounts{}, errors.NewMappingError("sale line", line.SaleLineID, "quantity is zero")
	}
	if line.UnitPrice == nil {
		return Amounts{}, errors.NewMappingError("sale line", line.SaleLineID, "unit price is missing")
	}

	qty := line.UnitQuantity.Decimal
	effective := line.UnitPrice.Sub(value(line.DiscountAmount).Div(qty))
	purchase := round(qty.Mul(effective))
	tax := round(value(line.CalcTax1).Add(value(line.CalcTax2)))

	return Amounts{
		Quantity:  qty,
		UnitPrice: round(effective),
		Purchase:  purchase,
		Tax:       tax,
		Total:     purchase.Add(tax),
	}, nil
}
