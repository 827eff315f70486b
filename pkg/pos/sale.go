package pos

import "time"

// Sale is a transaction header with its lines and payments.
type Sale struct {
	SaleID       string        `json:"saleID,omitempty"`
	TimeStamp    string        `json:"timeStamp,omitempty"`
	Completed    bool          `json:"completed,string"`
	CustomerID   string        `json:"customerID"`
	EmployeeID   string        `json:"employeeID"`
	ShopID       string        `json:"shopID"`
	RegisterID   string        `json:"registerID,omitempty"`
	Customer     *Customer     `json:"Customer,omitempty"`
	SaleLines    *SaleLines    `json:"SaleLines,omitempty"`
	SalePayments *SalePayments `json:"SalePayments,omitempty"`
}

// SaleLines wraps the line collection.
type SaleLines struct {
	SaleLine List[SaleLine] `json:"SaleLine"`
}

// SalePayments wraps the payment collection.
type SalePayments struct {
	SalePayment List[SalePayment] `json:"SalePayment"`
}

// SaleLine is one line item.
type SaleLine struct {
	SaleLineID     string    `json:"saleLineID,omitempty"`
	ItemID         string    `json:"itemID,omitempty"`
	ShopID         string    `json:"shopID,omitempty"`
	UnitQuantity   *Money    `json:"unitQuantity"`
	UnitPrice      *Money    `json:"unitPrice"`
	DiscountAmount *Money    `json:"discountAmount,omitempty"`
	CalcSubtotal   *Money    `json:"calcSubtotal,omitempty"`
	CalcTax1       *Money    `json:"calcTax1,omitempty"`
	CalcTax2       *Money    `json:"calcTax2,omitempty"`
	CalcTotal      *Money    `json:"calcTotal,omitempty"`
	Item           *Item     `json:"Item,omitempty"`
	Note           *LineNote `json:"Note,omitempty"`
}

// Item is the catalog item sold on a line.
type Item struct {
	ItemID      string `json:"itemID"`
	Description string `json:"description"`
}

// LineNote is the free text attached to a miscellaneous line.
type LineNote struct {
	Note string `json:"note"`
}

// SalePayment is one tender applied to a sale.
type SalePayment struct {
	SalePaymentID   string       `json:"salePaymentID,omitempty"`
	Amount          *Money       `json:"amount"`
	PaymentTypeID   string       `json:"paymentTypeID"`
	CreditAccountID string       `json:"creditAccountID,omitempty"`
	PaymentType     *PaymentType `json:"PaymentType,omitempty"`
}

// Lines returns the sale lines, nil when the block is absent.
func (s *Sale) Lines() []SaleLine {
	if s.SaleLines == nil {
		return nil
	}
	return s.SaleLines.SaleLine
}

// Payments returns the sale payments, nil when the block is absent.
func (s *Sale) Payments() []SalePayment {
	if s.SalePayments == nil {
		return nil
	}
	return s.SalePayments.SalePayment
}

// Time parses the sale timestamp.
func (s *Sale) Time() (time.Time, error) {
	return time.Parse(time.RFC3339, s.TimeStamp)
}

// PaymentCode returns the embedded payment type code.
func (p SalePayment) PaymentCode() string {
	if p.PaymentType == nil {
		return ""
	}
	return p.PaymentType.Code
}
