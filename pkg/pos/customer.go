// Package pos models the point-of-sale records rostersync reads and writes:
// customers with their contact and credit account blocks, the reference
// lists used to resolve names to ids, and completed sales.
//
// Field names follow the Lightspeed Retail JSON payloads. Nested blocks that
// the API may omit are pointers so that absence is distinguishable from an
// empty value.
package pos

import (
	"github.com/shopspring/decimal"

	"github.com/agentstation/rostersync/pkg/constants"
)

// Customer is a point-of-sale customer record.
type Customer struct {
	CustomerID                string             `json:"customerID,omitempty"`
	FirstName                 string             `json:"firstName"`
	LastName                  string             `json:"lastName"`
	CompanyRegistrationNumber string             `json:"companyRegistrationNumber,omitempty"`
	CustomerTypeID            string             `json:"customerTypeID,omitempty"`
	Contact                   *Contact           `json:"Contact,omitempty"`
	CreditAccount             *CreditAccount     `json:"CreditAccount,omitempty"`
	CustomFieldValues         *CustomFieldValues `json:"CustomFieldValues,omitempty"`
}

// Contact holds the contact block. Emails and Addresses are absent on records
// created without them.
type Contact struct {
	Custom    string     `json:"custom"`
	NoEmail   string     `json:"noEmail,omitempty"`
	NoPhone   string     `json:"noPhone,omitempty"`
	NoMail    string     `json:"noMail,omitempty"`
	Emails    *Emails    `json:"Emails,omitempty"`
	Addresses *Addresses `json:"Addresses,omitempty"`
}

// Emails wraps the contact email collection.
type Emails struct {
	ContactEmail List[ContactEmail] `json:"ContactEmail"`
}

// ContactEmail is one email address on a contact.
type ContactEmail struct {
	Address *string `json:"address"`
	UseType string  `json:"useType"`
}

// Addresses wraps the contact address collection.
type Addresses struct {
	ContactAddress List[ContactAddress] `json:"ContactAddress"`
}

// ContactAddress is one mailing address on a contact.
type ContactAddress struct {
	Address1    string  `json:"address1"`
	Address2    *string `json:"address2"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	Zip         string  `json:"zip"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	StateCode   string  `json:"stateCode"`
}

// CreditAccount is the on-account balance attached to a customer.
type CreditAccount struct {
	CreditAccountID string `json:"creditAccountID,omitempty"`
	Balance         *Money `json:"balance,omitempty"`
	CreditLimit     *Money `json:"creditLimit,omitempty"`
}

// CustomFieldValues wraps the custom field collection.
type CustomFieldValues struct {
	CustomFieldValue List[CustomFieldValue] `json:"CustomFieldValue"`
}

// CustomFieldValue is one custom field value on a customer.
type CustomFieldValue struct {
	CustomFieldID string `json:"customFieldID"`
	Value         string `json:"value"`
}

// PrimaryEmail returns the first email block, or nil when the contact has none.
func (c *Customer) PrimaryEmail() *ContactEmail {
	if c.Contact == nil || c.Contact.Emails == nil || len(c.Contact.Emails.ContactEmail) == 0 {
		return nil
	}
	for i := range c.Contact.Emails.ContactEmail {
		if c.Contact.Emails.ContactEmail[i].UseType == constants.PrimaryEmailUseType {
			return &c.Contact.Emails.ContactEmail[i]
		}
	}
	return &c.Contact.Emails.ContactEmail[0]
}

// PrimaryAddress returns the first address block, or nil when the contact has none.
func (c *Customer) PrimaryAddress() *ContactAddress {
	if c.Contact == nil || c.Contact.Addresses == nil || len(c.Contact.Addresses.ContactAddress) == 0 {
		return nil
	}
	return &c.Contact.Addresses.ContactAddress[0]
}

// CustomField returns the value of a custom field and whether it is set.
func (c *Customer) CustomField(fieldID string) (string, bool) {
	if c.CustomFieldValues == nil || fieldID == "" {
		return "", false
	}
	for _, v := range c.CustomFieldValues.CustomFieldValue {
		if v.CustomFieldID == fieldID {
			return v.Value, true
		}
	}
	return "", false
}

// ExternalID returns the roster id stored on the customer. The external id
// custom field wins; records created before the field existed carry it in
// the contact custom value only.
func (c *Customer) ExternalID(fieldID string) string {
	if v, ok := c.CustomField(fieldID); ok && v != "" {
		return v
	}
	if c.Contact != nil {
		return c.Contact.Custom
	}
	return ""
}

// Balance returns the credit account balance, zero when there is no account.
func (c *Customer) Balance() decimal.Decimal {
	if c.CreditAccount == nil || c.CreditAccount.Balance == nil {
		return decimal.Zero
	}
	return c.CreditAccount.Balance.Decimal
}

// CreditAccountID returns the credit account id, empty when there is no account.
func (c *Customer) CreditAccountID() string {
	if c.CreditAccount == nil {
		return ""
	}
	return c.CreditAccount.CreditAccountID
}
