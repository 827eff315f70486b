package pos

import "strings"

// CustomerType is a customer classification.
type CustomerType struct {
	CustomerTypeID string `json:"customerTypeID"`
	Name           string `json:"name"`
}

// CustomField is a customer custom field definition.
type CustomField struct {
	CustomFieldID string `json:"customFieldID"`
	Name          string `json:"name"`
	Type          string `json:"type,omitempty"`
}

// Shop is one store location.
type Shop struct {
	ShopID   string `json:"shopID"`
	Name     string `json:"name"`
	TimeZone string `json:"timeZone"`
}

// PaymentType is a tender type. Code identifies on-account payments.
type PaymentType struct {
	PaymentTypeID string `json:"paymentTypeID"`
	Name          string `json:"name"`
	Code          string `json:"code"`
}

// Employee is a point-of-sale user that sales are attributed to.
type Employee struct {
	EmployeeID string `json:"employeeID"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
}

// FullName returns "first last".
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// CustomerTypeID finds a classification id by exact name.
func CustomerTypeID(types []CustomerType, name string) (string, bool) {
	for _, t := range types {
		if t.Name == name {
			return t.CustomerTypeID, true
		}
	}
	return "", false
}

// CustomFieldID finds a custom field id by exact name.
func CustomFieldID(fields []CustomField, name string) (string, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f.CustomFieldID, true
		}
	}
	return "", false
}

// FindShop finds a shop by name, ignoring case.
func FindShop(shops []Shop, name string) (*Shop, bool) {
	for i := range shops {
		if strings.EqualFold(shops[i].Name, name) {
			return &shops[i], true
		}
	}
	return nil, false
}

// FindPaymentType finds a payment type by name, ignoring case.
func FindPaymentType(types []PaymentType, name string) (*PaymentType, bool) {
	for i := range types {
		if strings.EqualFold(types[i].Name, name) {
			return &types[i], true
		}
	}
	return nil, false
}

// FindEmployee finds an employee by full name or first name, ignoring case.
func FindEmployee(employees []Employee, name string) (*Employee, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}
	for i := range employees {
		if strings.EqualFold(employees[i].FullName(), name) || strings.EqualFold(employees[i].FirstName, name) {
			return &employees[i], true
		}
	}
	return nil, false
}
