// Package lightspeed implements the point-of-sale capability interfaces
// against the Lightspeed Retail API.
//
// Collections are paged with offset and limit and report their total in the
// "@attributes" block. A collection of one is returned as a bare object; the
// pos.List type normalizes both shapes.
package lightspeed

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/agentstation/rostersync/internal/cache"
	"github.com/agentstation/rostersync/internal/transport"
	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/ledger"
	"github.com/agentstation/rostersync/pkg/logging"
	"github.com/agentstation/rostersync/pkg/pos"
	"github.com/agentstation/rostersync/pkg/pruner"
	"github.com/agentstation/rostersync/pkg/reconciler"
)

// Vendor is the name used in API errors and log fields.
const Vendor = "lightspeed"

// Config holds the connection settings.
type Config struct {
	BaseURL     string
	AccountID   string
	AccessToken string

	// PageSize is the limit sent with collection requests.
	PageSize int

	// RateLimit caps requests per second. Zero uses the default.
	RateLimit float64
}

// Client talks to one Lightspeed account.
type Client struct {
	base     string
	pageSize int
	http     *transport.Client
	cache    *cache.Cache
}

// Compile-time interface checks.
var (
	_ reconciler.Target = (*Client)(nil)
	_ pruner.Target     = (*Client)(nil)
	_ ledger.Target     = (*Client)(nil)
)

// New creates a Lightspeed client. Reference lists are cached in c when it is
// non-nil.
func New(cfg Config, c *cache.Cache, opts ...transport.Option) (*Client, error) {
	if cfg.BaseURL == "" || cfg.AccountID == "" {
		return nil, errors.NewConfigError(Vendor, "base_url and account_id are required", nil)
	}
	if cfg.PageSize <= 0 || cfg.PageSize > constants.LightspeedPageSize {
		cfg.PageSize = constants.LightspeedPageSize
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = constants.DefaultLightspeedRate
	}

	opts = append([]transport.Option{
		transport.WithRateLimit(cfg.RateLimit, constants.DefaultLightspeedBurst),
	}, opts...)

	return &Client{
		base:     strings.TrimRight(cfg.BaseURL, "/") + "/API/Account/" + url.PathEscape(cfg.AccountID) + "/",
		pageSize: cfg.PageSize,
		http:     transport.New(Vendor, &transport.BearerAuth{Token: cfg.AccessToken}, opts...),
		cache:    c,
	}, nil
}

func (c *Client) endpoint(resource string, query url.Values) string {
	u := c.base + resource + ".json"
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// count decodes the string-encoded integers in "@attributes".
type count int

func (n *count) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*n = count(v)
	return nil
}

type attributes struct {
	Count  count `json:"count"`
	Offset count `json:"offset"`
	Limit  count `json:"limit"`
}

// decodeKey unmarshals envelope[key] into out. A missing key leaves out untouched.
func decodeKey(envelope map[string]json.RawMessage, key string, out any) error {
	raw, ok := envelope[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.WrapParse("json", Vendor+" "+key, err)
	}
	return nil
}

// list fetches every page of a collection.
func list[T any](ctx context.Context, c *Client, resource, key string, params url.Values) ([]T, error) {
	var all []T
	for offset := 0; ; {
		query := url.Values{}
		for k, v := range params {
			query[k] = v
		}
		query.Set("offset", strconv.Itoa(offset))
		if query.Get("limit") == "" {
			query.Set("limit", strconv.Itoa(c.pageSize))
		}

		var envelope map[string]json.RawMessage
		if err := c.http.Get(ctx, c.endpoint(resource, query), &envelope); err != nil {
			return nil, err
		}

		var attrs attributes
		if err := decodeKey(envelope, "@attributes", &attrs); err != nil {
			return nil, err
		}
		var page pos.List[T]
		if err := decodeKey(envelope, key, &page); err != nil {
			return nil, err
		}
		all = append(all, page...)

		logging.FromContext(ctx).Debug().
			Str("resource", resource).
			Int("offset", offset).
			Int("count", len(page)).
			Int("total", int(attrs.Count)).
			Msg("Fetched Lightspeed page")

		offset += len(page)
		if len(page) == 0 || offset >= int(attrs.Count) || params.Get("limit") != "" {
			return all, nil
		}
	}
}

// single sends a write and decodes the one record the API echoes back.
func single[T any](ctx context.Context, c *Client, method, resource, key string, body any) (*T, error) {
	var envelope map[string]json.RawMessage
	if err := c.http.Do(ctx, method, c.endpoint(resource, nil), body, &envelope); err != nil {
		return nil, err
	}
	var out pos.List[T]
	if err := decodeKey(envelope, key, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.NewParseError("json", Vendor+" "+resource, "response has no "+key, nil)
	}
	return &out[0], nil
}

func reference[T any](ctx context.Context, c *Client, resource, key string) ([]T, error) {
	return cache.Remember(c.cache, Vendor+":"+resource, func() ([]T, error) {
		return list[T](ctx, c, resource, key, nil)
	})
}

// CustomerTypes lists customer classifications.
func (c *Client) CustomerTypes(ctx context.Context) ([]pos.CustomerType, error) {
	return reference[pos.CustomerType](ctx, c, "CustomerType", "CustomerType")
}

// CustomFields lists customer custom field definitions.
func (c *Client) CustomFields(ctx context.Context) ([]pos.CustomField, error) {
	return reference[pos.CustomField](ctx, c, "Customer/CustomField", "CustomField")
}

// Shops lists store locations.
func (c *Client) Shops(ctx context.Context) ([]pos.Shop, error) {
	return reference[pos.Shop](ctx, c, "Shop", "Shop")
}

// PaymentTypes lists tender types.
func (c *Client) PaymentTypes(ctx context.Context) ([]pos.PaymentType, error) {
	return reference[pos.PaymentType](ctx, c, "PaymentType", "PaymentType")
}

// Employees lists point-of-sale users.
func (c *Client) Employees(ctx context.Context) ([]pos.Employee, error) {
	return reference[pos.Employee](ctx, c, "Employee", "Employee")
}

// FlushReferences drops cached reference lists.
func (c *Client) FlushReferences() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// DeleteCustomer archives one customer.
func (c *Client) DeleteCustomer(ctx context.Context, customerID string) error {
	if customerID == "" {
		return errors.NewValidationError("customerID", customerID, "is required")
	}
	return c.http.Do(ctx, http.MethodDelete, c.endpoint("Customer/"+url.PathEscape(customerID), nil), nil, nil)
}

// customerRelations are loaded with every customer read.
const customerRelations = `["Contact","CreditAccount","CustomFieldValues"]`

// Customers lists every customer with its relations loaded.
func (c *Client) Customers(ctx context.Context) ([]pos.Customer, error) {
	return list[pos.Customer](ctx, c, "Customer", "Customer", url.Values{
		"load_relations": {customerRelations},
	})
}

// FindCustomerByExternalID returns the first customer whose company
// registration number equals externalID, or a NotFoundError.
func (c *Client) FindCustomerByExternalID(ctx context.Context, externalID string) (*pos.Customer, error) {
	found, err := list[pos.Customer](ctx, c, "Customer", "Customer", url.Values{
		"companyRegistrationNumber": {externalID},
		"limit":                     {"1"},
		"load_relations":            {"all"},
	})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, errors.NewNotFoundError("customer", externalID)
	}
	return &found[0], nil
}

// CreateCustomer creates a customer and returns the stored record.
func (c *Client) CreateCustomer(ctx context.Context, customer *pos.Customer) (*pos.Customer, error) {
	if customer == nil {
		return nil, errors.NewValidationError("customer", nil, "is required")
	}
	return single[pos.Customer](ctx, c, http.MethodPost, "Customer", "Customer", customer)
}

// UpdateCustomer replaces the mutable fields of an existing customer.
func (c *Client) UpdateCustomer(ctx context.Context, customer *pos.Customer) (*pos.Customer, error) {
	if customer == nil || customer.CustomerID == "" {
		return nil, errors.NewValidationError("customerID", "", "is required for update")
	}
	return single[pos.Customer](ctx, c, http.MethodPut, "Customer/"+url.PathEscape(customer.CustomerID), "Customer", customer)
}
