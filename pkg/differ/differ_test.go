package differ_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rostersync/pkg/differ"
	"github.com/agentstation/rostersync/pkg/pos"
	"github.com/agentstation/rostersync/pkg/roster"
)

const externalIDField = "3"

func ptr(s string) *string { return &s }

func storedCustomer() *pos.Customer {
	return &pos.Customer{
		CustomerID: "88",
		FirstName:  "Sam",
		LastName:   "Smith",
		Contact: &pos.Contact{
			Custom: "501",
			Emails: &pos.Emails{ContactEmail: pos.List[pos.ContactEmail]{{Address: ptr("old@x.com"), UseType: "Primary"}}},
			Addresses: &pos.Addresses{ContactAddress: pos.List[pos.ContactAddress]{{
				Address1: "1 Main", Address2: ptr(""), City: "Town", State: "CA", Zip: "90000",
			}}},
		},
		CustomFieldValues: &pos.CustomFieldValues{CustomFieldValue: pos.List[pos.CustomFieldValue]{{CustomFieldID: externalIDField, Value: "501"}}},
	}
}

func sourcePerson() (*roster.Person, *roster.Household) {
	return &roster.Person{ID: 501, LastName: "Smith", NickFirstName: ptr("Sam"), Email: ptr("old@x.com")},
		&roster.Household{Address1: "1 Main", City: "Town", StateProvince: "CA", PostalCode: "90000"}
}

func TestCompareEqual(t *testing.T) {
	person, household := sourcePerson()
	d := differ.New(differ.WithExternalIDField(externalIDField))

	result := d.Compare(storedCustomer(), person, household)
	assert.False(t, result.NeedsUpdate)
	assert.False(t, result.HasChanges())
	if diff := cmp.Diff(result.Source, result.Target); diff != "" {
		t.Errorf("projection mismatch (-source +target):\n%s", diff)
	}
}

func TestCompareEmailChange(t *testing.T) {
	person, household := sourcePerson()
	person.Email = ptr("new@x.com")

	result := differ.New(differ.WithExternalIDField(externalIDField)).Compare(storedCustomer(), person, household)
	require.True(t, result.NeedsUpdate)
	require.Len(t, result.Changes, 1)
	assert.Equal(t, differ.FieldChange{Field: "email", Source: "new@x.com", Target: "old@x.com"}, result.Changes[0])
	assert.Equal(t, "changed: email", result.String())
}

func TestCompareForce(t *testing.T) {
	person, household := sourcePerson()
	d := differ.New(differ.WithExternalIDField(externalIDField), differ.WithForce(true))

	result := d.Compare(storedCustomer(), person, household)
	assert.True(t, result.NeedsUpdate)
	assert.True(t, result.Forced)
	assert.Empty(t, result.Changes)
}

func TestCompareNullNormalization(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *pos.Customer, p *roster.Person, h *roster.Household)
	}{
		{
			name: "null email on both sides",
			mutate: func(c *pos.Customer, p *roster.Person, _ *roster.Household) {
				p.Email = nil
				c.Contact.Emails.ContactEmail[0].Address = nil
			},
		},
		{
			name: "absent emails block vs null email",
			mutate: func(c *pos.Customer, p *roster.Person, _ *roster.Household) {
				p.Email = nil
				c.Contact.Emails = nil
			},
		},
		{
			name: "null address line 2 vs empty",
			mutate: func(c *pos.Customer, _ *roster.Person, h *roster.Household) {
				h.Address2 = nil
				c.Contact.Addresses.ContactAddress[0].Address2 = nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			person, household := sourcePerson()
			customer := storedCustomer()
			tt.mutate(customer, person, household)

			result := differ.New(differ.WithExternalIDField(externalIDField)).Compare(customer, person, household)
			assert.False(t, result.NeedsUpdate, result.String())
		})
	}
}

func TestCompareMissingAddressBlock(t *testing.T) {
	customer := storedCustomer()
	customer.Contact.Addresses = nil

	t.Run("blank household compares equal", func(t *testing.T) {
		person, _ := sourcePerson()
		result := differ.New(differ.WithExternalIDField(externalIDField)).Compare(customer, person, &roster.Household{})
		assert.False(t, result.NeedsUpdate)
		assert.True(t, result.MissingAddress)
	})

	t.Run("every address field defaults to empty", func(t *testing.T) {
		got := differ.TargetProjection(customer, externalIDField)
		want := differ.Projection{ExternalID: "501", LastName: "Smith", FirstName: "Sam", Email: "old@x.com"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("TargetProjection() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing contact entirely", func(t *testing.T) {
		got := differ.TargetProjection(&pos.Customer{LastName: "Smith"}, externalIDField)
		assert.Equal(t, differ.Projection{LastName: "Smith"}, got)
	})
}

func TestSourceProjectionNilHousehold(t *testing.T) {
	person, _ := sourcePerson()
	got := differ.SourceProjection(person, nil)
	assert.Empty(t, got.Address1)
	assert.Empty(t, got.City)
	assert.Equal(t, "501", got.ExternalID)
}
