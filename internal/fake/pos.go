// Package fake provides in-memory stand-ins for the roster source and the
// point of sale, used by package tests.
//
// Example Usage:
//
//	store := fake.NewPOS()
//	store.AddCustomer(&pos.Customer{LastName: "Smith", CompanyRegistrationNumber: "501"})
//	store.FailOn("create", errors.New("boom"))
package fake

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/pos"
)

// POS is an in-memory point of sale. Zero value is not usable; call NewPOS.
type POS struct {
	mu sync.Mutex

	Types        []pos.CustomerType
	Fields       []pos.CustomField
	ShopList     []pos.Shop
	PaymentList  []pos.PaymentType
	EmployeeList []pos.Employee
	SaleList     []pos.Sale

	customers map[string]*pos.Customer
	nextID    int
	failures  map[string]error

	// Recorded writes
	Created      []*pos.Customer
	Updated      []*pos.Customer
	Deleted      []string
	CreatedSales []*pos.Sale
	SalesQueries [][2]time.Time
}

// NewPOS returns an empty store.
func NewPOS() *POS {
	return &POS{
		customers: make(map[string]*pos.Customer),
		failures:  make(map[string]error),
		nextID:    100,
	}
}

// FailOn makes the named operation return err. Keys are operation names
// ("create", "update", "delete", "sale", "customers", "types", "fields",
// "find", "shops", "payment_types", "employees", "sales") optionally
// suffixed with ":<id>" to target one record.
func (f *POS) FailOn(key string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[key] = err
}

func (f *POS) failure(op, id string) error {
	if err, ok := f.failures[op+":"+id]; ok && id != "" {
		return err
	}
	return f.failures[op]
}

// AddCustomer stores a customer, assigning an id when it has none.
func (f *POS) AddCustomer(c *pos.Customer) *pos.Customer {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := clone(c)
	if stored.CustomerID == "" {
		stored.CustomerID = f.newID()
	}
	f.customers[stored.CustomerID] = stored
	return clone(stored)
}

// Customer returns a copy of a stored customer.
func (f *POS) Customer(id string) (*pos.Customer, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.customers[id]
	if !ok {
		return nil, false
	}
	return clone(c), true
}

// Writes returns the number of customer creates, updates and deletes.
func (f *POS) Writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Created) + len(f.Updated) + len(f.Deleted)
}

func (f *POS) newID() string {
	f.nextID++
	return strconv.Itoa(f.nextID)
}

// CustomerTypes lists customer classifications.
func (f *POS) CustomerTypes(context.Context) ([]pos.CustomerType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("types", ""); err != nil {
		return nil, err
	}
	return f.Types, nil
}

// CustomFields lists customer custom field definitions.
func (f *POS) CustomFields(context.Context) ([]pos.CustomField, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("fields", ""); err != nil {
		return nil, err
	}
	return f.Fields, nil
}

// FindCustomerByExternalID matches on company registration number like the
// real search does.
func (f *POS) FindCustomerByExternalID(_ context.Context, externalID string) (*pos.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("find", externalID); err != nil {
		return nil, err
	}
	for _, id := range f.sortedIDs() {
		if f.customers[id].CompanyRegistrationNumber == externalID {
			return clone(f.customers[id]), nil
		}
	}
	return nil, errors.NewNotFoundError("customer", externalID)
}

// CreateCustomer stores a new customer.
func (f *POS) CreateCustomer(_ context.Context, c *pos.Customer) (*pos.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("create", c.CompanyRegistrationNumber); err != nil {
		return nil, err
	}
	stored := clone(c)
	stored.CustomerID = f.newID()
	f.customers[stored.CustomerID] = stored
	f.Created = append(f.Created, clone(c))
	return clone(stored), nil
}

// UpdateCustomer replaces a stored customer.
func (f *POS) UpdateCustomer(_ context.Context, c *pos.Customer) (*pos.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("update", c.CustomerID); err != nil {
		return nil, err
	}
	existing, ok := f.customers[c.CustomerID]
	if !ok {
		return nil, errors.NewNotFoundError("customer", c.CustomerID)
	}
	stored := clone(c)
	if stored.CreditAccount != nil && existing.CreditAccount != nil {
		stored.CreditAccount.Balance = existing.CreditAccount.Balance
		stored.CreditAccount.CreditAccountID = existing.CreditAccount.CreditAccountID
	}
	f.customers[c.CustomerID] = stored
	f.Updated = append(f.Updated, clone(c))
	return clone(stored), nil
}

// DeleteCustomer removes a stored customer.
func (f *POS) DeleteCustomer(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("delete", id); err != nil {
		return err
	}
	if _, ok := f.customers[id]; !ok {
		return errors.NewNotFoundError("customer", id)
	}
	delete(f.customers, id)
	f.Deleted = append(f.Deleted, id)
	return nil
}

// Customers lists every stored customer ordered by id.
func (f *POS) Customers(context.Context) ([]pos.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("customers", ""); err != nil {
		return nil, err
	}
	out := make([]pos.Customer, 0, len(f.customers))
	for _, id := range f.sortedIDs() {
		out = append(out, *clone(f.customers[id]))
	}
	return out, nil
}

// Shops lists shops.
func (f *POS) Shops(context.Context) ([]pos.Shop, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("shops", ""); err != nil {
		return nil, err
	}
	return f.ShopList, nil
}

// PaymentTypes lists payment types.
func (f *POS) PaymentTypes(context.Context) ([]pos.PaymentType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("payment_types", ""); err != nil {
		return nil, err
	}
	return f.PaymentList, nil
}

// Employees lists employees.
func (f *POS) Employees(context.Context) ([]pos.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("employees", ""); err != nil {
		return nil, err
	}
	return f.EmployeeList, nil
}

// Sales returns completed sales whose timestamp falls in [from, to].
func (f *POS) Sales(_ context.Context, from, to time.Time) ([]pos.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SalesQueries = append(f.SalesQueries, [2]time.Time{from, to})
	if err := f.failure("sales", ""); err != nil {
		return nil, err
	}
	var out []pos.Sale
	for _, s := range f.SaleList {
		ts, err := s.Time()
		if err != nil || !s.Completed || ts.Before(from) || ts.After(to) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// CreateSale records a new sale.
func (f *POS) CreateSale(_ context.Context, s *pos.Sale) (*pos.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("sale", s.CustomerID); err != nil {
		return nil, err
	}
	created := *s
	created.SaleID = f.newID()
	f.CreatedSales = append(f.CreatedSales, &created)
	return &created, nil
}

func (f *POS) sortedIDs() []string {
	ids := make([]string, 0, len(f.customers))
	for id := range f.customers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, _ := strconv.Atoi(ids[i])
		b, _ := strconv.Atoi(ids[j])
		return a < b
	})
	return ids
}

// clone deep copies through JSON so stored records never alias callers'.
func clone(c *pos.Customer) *pos.Customer {
	data, err := json.Marshal(c)
	if err != nil {
		panic(err)
	}
	var out pos.Customer
	if err := json.Unmarshal(data, &out); err != nil {
		panic(err)
	}
	return &out
}
