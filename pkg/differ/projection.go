package differ

import (
	"github.com/agentstation/rostersync/pkg/pos"
	"github.com/agentstation/rostersync/pkg/roster"
)

// Projection is the flat set of fields compared to decide staleness. Missing
// values on either side are already normalized to "".
type Projection struct {
	ExternalID string
	LastName   string
	FirstName  string
	Email      string
	Address1   string
	Address2   string
	City       string
	Zip        string
	State      string
}

// fields returns the compared fields in a fixed order.
func (p Projection) fields() []field {
	return []field{
		{"external_id", p.ExternalID},
		{"last_name", p.LastName},
		{"first_name", p.FirstName},
		{"email", p.Email},
		{"address_1", p.Address1},
		{"address_2", p.Address2},
		{"city", p.City},
		{"zip", p.Zip},
		{"state", p.State},
	}
}

type field struct {
	name  string
	value string
}

// SourceProjection builds the projection of a roster person. A null email or
// address line 2 becomes "". A nil household projects to empty address fields.
func SourceProjection(person *roster.Person, household *roster.Household) Projection {
	p := Projection{
		ExternalID: person.ExternalID(),
		LastName:   person.LastName,
		FirstName:  person.FirstName(),
		Email:      deref(person.Email),
	}
	if household != nil {
		p.Address1 = household.Address1
		p.Address2 = deref(household.Address2)
		p.City = household.City
		p.Zip = household.PostalCode
		p.State = household.StateProvince
	}
	return p
}

// TargetProjection builds the projection of a stored customer. An absent
// emails block yields an empty email; an absent addresses block yields empty
// values for every address field at once.
func TargetProjection(customer *pos.Customer, externalIDField string) Projection {
	p := Projection{
		ExternalID: customer.ExternalID(externalIDField),
		LastName:   customer.LastName,
		FirstName:  customer.FirstName,
	}
	if email := customer.PrimaryEmail(); email != nil {
		p.Email = deref(email.Address)
	}
	if addr := customer.PrimaryAddress(); addr != nil {
		p.Address1 = addr.Address1
		p.Address2 = deref(addr.Address2)
		p.City = addr.City
		p.Zip = addr.Zip
		p.State = addr.State
	}
	return p
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
