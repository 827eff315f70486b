package fake

import (
	"context"
	"net/url"
	"strconv"
	"sync"

	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/roster"
)

// Roster is an in-memory roster source.
type Roster struct {
	mu sync.Mutex

	Resources  map[string][]roster.Person
	Households map[int64]*roster.Household

	// HouseholdErr, when set, fails every household fetch for these ids.
	HouseholdErr map[int64]error

	// Calls records every People call.
	Calls          []RosterCall
	HouseholdCalls int
}

// RosterCall is one recorded People call.
type RosterCall struct {
	Resource string
	Params   url.Values
}

// NewRoster returns an empty roster.
func NewRoster() *Roster {
	return &Roster{
		Resources:    make(map[string][]roster.Person),
		Households:   make(map[int64]*roster.Household),
		HouseholdErr: make(map[int64]error),
	}
}

// Add appends people to a resource.
func (r *Roster) Add(resource string, people ...roster.Person) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Resources[resource] = append(r.Resources[resource], people...)
}

// People returns a copy of a resource's records. Params are recorded, not applied.
func (r *Roster) People(_ context.Context, resource string, params url.Values) ([]roster.Person, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, RosterCall{Resource: resource, Params: params})
	people := r.Resources[resource]
	out := make([]roster.Person, len(people))
	copy(out, people)
	return out, nil
}

// Household returns a stored household or a NotFoundError.
func (r *Roster) Household(_ context.Context, id int64) (*roster.Household, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.HouseholdCalls++
	if err := r.HouseholdErr[id]; err != nil {
		return nil, err
	}
	h, ok := r.Households[id]
	if !ok {
		return nil, errors.NewNotFoundError("household", strconv.FormatInt(id, 10))
	}
	cp := *h
	return &cp, nil
}
