package veracross_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rostersync/internal/veracross"
	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/roster"
)

func newServer(t *testing.T, handler http.HandlerFunc) *veracross.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := veracross.New(veracross.Config{
		BaseURL:  server.URL,
		School:   "lincoln",
		Username: "api",
		Password: "secret",
		PageSize: 2,
	})
	require.NoError(t, err)
	return client
}

func TestNewRequiresSchool(t *testing.T) {
	_, err := veracross.New(veracross.Config{BaseURL: "http://x"})
	assert.True(t, errors.IsConfigError(err))
}

func TestPeoplePaging(t *testing.T) {
	var pages []string
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "api", user)
		assert.Equal(t, "secret", pass)
		assert.Equal(t, "/lincoln/v2/students.json", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("option"))

		page := r.URL.Query().Get("page")
		pages = append(pages, page)
		n, _ := strconv.Atoi(page)

		var body []map[string]any
		switch n {
		case 1:
			body = []map[string]any{
				{"person_pk": 1, "last_name": "Ng", "nick_first_name": "Al", "household_fk": 10, "update_date": "2024-05-01"},
				{"person_pk": 2, "last_name": "Ode", "first_nick_name": "Bo", "email_1": "bo@x.org", "household_fk": 11},
			}
		case 2:
			body = []map[string]any{
				{"person_pk": 3, "last_name": "Poe", "household_fk": 12, "update_date": "2024-05-02T10:00:00Z"},
			}
		}
		_ = json.NewEncoder(w).Encode(body)
	})

	people, err := client.People(context.Background(), "students", url.Values{"option": {"2"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, pages)
	require.Len(t, people, 3)

	assert.Equal(t, int64(1), people[0].ID)
	assert.Equal(t, "Al", people[0].FirstName())
	assert.Equal(t, 2024, people[0].UpdatedAt.Year())
	assert.Equal(t, "Bo", people[1].FirstName())
	require.NotNil(t, people[1].Email)
	assert.Equal(t, "bo@x.org", *people[1].Email)
	assert.Equal(t, int64(12), people[2].HouseholdID)
}

func TestPeopleFullLastPage(t *testing.T) {
	calls := 0
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Query().Get("page") == "1" {
			_, _ = fmt.Fprint(w, `[{"person_pk":1,"last_name":"A"},{"person_pk":2,"last_name":"B"}]`)
			return
		}
		_, _ = fmt.Fprint(w, `[]`)
	})

	people, err := client.People(context.Background(), "facstaff", nil)
	require.NoError(t, err)
	assert.Len(t, people, 2)
	assert.Equal(t, 2, calls, "an exactly full page needs one more request to end")
}

func TestPeopleBadDateKeepsRecord(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `[{"person_pk":1,"last_name":"A","update_date":"2024-01-01"},`+
			`{"person_pk":2,"last_name":"B","update_date":"01/02/2024"}]`)
	})

	people, err := client.People(context.Background(), "students", nil)
	require.NoError(t, err)
	require.Len(t, people, 2)
	assert.Equal(t, 2024, people[0].UpdatedAt.Year())
	assert.Equal(t, int64(2), people[1].ID)
	assert.Equal(t, "B", people[1].LastName)
	assert.True(t, people[1].UpdatedAt.IsZero())
}

func TestPeopleAPIError(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	})

	_, err := client.People(context.Background(), "students", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnauthorized))
}

func TestHousehold(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/lincoln/v2/households/10.json":
			_, _ = fmt.Fprint(w, `{"household":{"household_pk":10,"address_1":"1 Main St","address_2":null,"city":"Austin","state_province":"TX","postal_code":"78701","country":"US"}}`)
		default:
			http.NotFound(w, r)
		}
	})

	h, err := client.Household(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, &roster.Household{
		ID:            10,
		Address1:      "1 Main St",
		City:          "Austin",
		StateProvince: "TX",
		PostalCode:    "78701",
		Country:       "US",
	}, h)

	_, err = client.Household(context.Background(), 99)
	assert.True(t, errors.IsNotFound(err))
	var nf *errors.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "99", nf.ID)
}
