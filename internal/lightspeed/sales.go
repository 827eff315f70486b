package lightspeed

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/pos"
)

const saleRelations = `["Customer","Customer.Contact","Customer.CustomFieldValues",` +
	`"SaleLines","SaleLines.Item","SaleLines.Note","SalePayments","SalePayments.PaymentType"]`

// Sales lists completed sales with from <= timeStamp <= to.
func (c *Client) Sales(ctx context.Context, from, to time.Time) ([]pos.Sale, error) {
	if to.Before(from) {
		return nil, errors.NewValidationError("to", to, "must not be before from")
	}
	return list[pos.Sale](ctx, c, "Sale", "Sale", url.Values{
		"completed":      {"true"},
		"timeStamp":      {"><," + from.Format(time.RFC3339) + "," + to.Format(time.RFC3339)},
		"load_relations": {saleRelations},
	})
}

// CreateSale posts a sale and returns the stored record.
func (c *Client) CreateSale(ctx context.Context, sale *pos.Sale) (*pos.Sale, error) {
	if sale == nil {
		return nil, errors.NewValidationError("sale", nil, "is required")
	}
	return single[pos.Sale](ctx, c, http.MethodPost, "Sale", "Sale", sale)
}
