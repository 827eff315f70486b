// Package veracross implements roster.Source against the Veracross v2 API.
package veracross

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/agentstation/utc"

	"github.com/agentstation/rostersync/internal/transport"
	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/logging"
	"github.com/agentstation/rostersync/pkg/roster"
)

// Vendor is the name used in API errors and log fields.
const Vendor = "veracross"

// Config holds the connection settings.
type Config struct {
	BaseURL  string
	School   string
	Username string
	Password string

	// PageSize is the page length the API returns; a shorter page ends a pull.
	PageSize int

	// RateLimit caps requests per second. Zero uses the default.
	RateLimit float64
}

// Client pages through Veracross resources.
type Client struct {
	base     string
	pageSize int
	http     *transport.Client
}

// Compile-time interface check.
var _ roster.Source = (*Client)(nil)

// New creates a Veracross client.
func New(cfg Config, opts ...transport.Option) (*Client, error) {
	if cfg.BaseURL == "" || cfg.School == "" {
		return nil, errors.NewConfigError(Vendor, "base_url and school are required", nil)
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = constants.VeracrossPageSize
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = constants.DefaultVeracrossRate
	}

	opts = append([]transport.Option{
		transport.WithRateLimit(cfg.RateLimit, constants.DefaultVeracrossBurst),
	}, opts...)

	return &Client{
		base:     strings.TrimRight(cfg.BaseURL, "/") + "/" + url.PathEscape(cfg.School) + "/v2/",
		pageSize: cfg.PageSize,
		http: transport.New(Vendor, &transport.BasicAuth{
			Username: cfg.Username,
			Password: cfg.Password,
		}, opts...),
	}, nil
}

type person struct {
	PersonPK      int64   `json:"person_pk"`
	LastName      string  `json:"last_name"`
	NickFirstName *string `json:"nick_first_name"`
	FirstNickName *string `json:"first_nick_name"`
	Email         *string `json:"email_1"`
	HouseholdFK   int64   `json:"household_fk"`
	UpdateDate    string  `json:"update_date"`
}

type household struct {
	HouseholdPK   int64   `json:"household_pk"`
	Address1      string  `json:"address_1"`
	Address2      *string `json:"address_2"`
	City          string  `json:"city"`
	StateProvince string  `json:"state_province"`
	PostalCode    string  `json:"postal_code"`
	Country       string  `json:"country"`
}

// People pulls every page of resource with params applied.
func (c *Client) People(ctx context.Context, resource string, params url.Values) ([]roster.Person, error) {
	logger := logging.FromContext(ctx)
	var people []roster.Person

	for page := 1; ; page++ {
		query := url.Values{}
		for k, v := range params {
			query[k] = v
		}
		query.Set("page", strconv.Itoa(page))

		var batch []person
		if err := c.http.Get(ctx, c.base+resource+".json?"+query.Encode(), &batch); err != nil {
			return nil, err
		}

		for _, p := range batch {
			converted, err := p.toPerson()
			if err != nil {
				logger.Warn().
					Err(err).
					Int64("person_id", p.PersonPK).
					Str("update_date", p.UpdateDate).
					Msg("Ignoring unparseable update date")
			}
			people = append(people, converted)
		}

		logger.Debug().
			Str("resource", resource).
			Int("page", page).
			Int("count", len(batch)).
			Msg("Fetched Veracross page")

		if len(batch) < c.pageSize {
			break
		}
	}
	return people, nil
}

// Household fetches one household. A 404 surfaces as a NotFoundError.
func (c *Client) Household(ctx context.Context, id int64) (*roster.Household, error) {
	idStr := strconv.FormatInt(id, 10)
	var envelope struct {
		Household *household `json:"household"`
	}
	if err := c.http.Get(ctx, c.base+"households/"+idStr+".json", &envelope); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewNotFoundError("household", idStr)
		}
		return nil, err
	}
	if envelope.Household == nil {
		return nil, errors.NewNotFoundError("household", idStr)
	}
	h := envelope.Household
	return &roster.Household{
		ID:            id,
		Address1:      h.Address1,
		Address2:      h.Address2,
		City:          h.City,
		StateProvince: h.StateProvince,
		PostalCode:    h.PostalCode,
		Country:       h.Country,
	}, nil
}

var updateDateLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// toPerson converts a wire record. A bad update_date yields an error next to
// a usable Person with a zero UpdatedAt.
func (p person) toPerson() (roster.Person, error) {
	out := roster.Person{
		ID:            p.PersonPK,
		LastName:      p.LastName,
		NickFirstName: p.NickFirstName,
		FirstNickName: p.FirstNickName,
		Email:         p.Email,
		HouseholdID:   p.HouseholdFK,
	}
	if p.UpdateDate == "" {
		return out, nil
	}
	var lastErr error
	for _, layout := range updateDateLayouts {
		t, err := utc.Parse(layout, p.UpdateDate)
		if err == nil {
			out.UpdatedAt = t
			return out, nil
		}
		lastErr = err
	}
	return out, errors.WrapParse("date", "update_date of person "+strconv.FormatInt(p.PersonPK, 10), lastErr)
}
