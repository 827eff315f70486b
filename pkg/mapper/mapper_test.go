package mapper_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/mapper"
	"github.com/agentstation/rostersync/pkg/roster"
)

func ptr(s string) *string { return &s }

func fixedClock() utc.Time {
	return utc.Time{Time: time.Date(2024, 3, 1, 9, 30, 0, 123456000, time.UTC)}
}

func newMapper(t *testing.T) *mapper.Mapper {
	t.Helper()
	m, err := mapper.New(mapper.Config{
		CustomerTypeID:    "1",
		ExternalIDFieldID: "3",
		LastSyncFieldID:   "4",
		CreditLimit:       decimal.NewFromInt(50),
		Now:               fixedClock,
	})
	require.NoError(t, err)
	return m
}

func TestNewRequiresResolvedIDs(t *testing.T) {
	tests := []struct {
		name string
		cfg  mapper.Config
	}{
		{"missing external id field", mapper.Config{CustomerTypeID: "1", LastSyncFieldID: "4"}},
		{"missing last sync field", mapper.Config{CustomerTypeID: "1", ExternalIDFieldID: "3"}},
		{"missing customer type", mapper.Config{ExternalIDFieldID: "3", LastSyncFieldID: "4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mapper.New(tt.cfg)
			require.Error(t, err)
			assert.True(t, errors.IsConfigError(err))
		})
	}
}

func TestMap(t *testing.T) {
	m := newMapper(t)
	person := &roster.Person{ID: 501, LastName: "Smith", NickFirstName: ptr("Sam"), HouseholdID: 7}
	household := &roster.Household{Address1: "1 Main St", City: "Town", StateProvince: "CA", PostalCode: "90000", Country: "US"}

	c, err := m.Map(person, household)
	require.NoError(t, err)

	assert.Empty(t, c.CustomerID)
	assert.Equal(t, "Sam", c.FirstName)
	assert.Equal(t, "Smith", c.LastName)
	assert.Equal(t, "501", c.CompanyRegistrationNumber)
	assert.Equal(t, "1", c.CustomerTypeID)
	assert.Equal(t, "501", c.Contact.Custom)
	assert.Nil(t, c.PrimaryEmail().Address, "null email passes through")
	assert.Equal(t, "1 Main St", c.PrimaryAddress().Address1)
	assert.Nil(t, c.PrimaryAddress().Address2)
	assert.Equal(t, "50.00", c.CreditAccount.CreditLimit.StringFixed(2))

	assert.Equal(t, "501", c.ExternalID("3"))
	lastSync, ok := c.CustomField("4")
	require.True(t, ok)
	assert.Equal(t, "2024-03-01 09:30:00.123456", lastSync)
}

func TestMapPayloadShape(t *testing.T) {
	m := newMapper(t)
	c, err := m.Map(&roster.Person{ID: 9, LastName: "Lee", Email: ptr("lee@x.com")}, &roster.Household{})
	require.NoError(t, err)

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.NotContains(t, decoded, "customerID")
	assert.Equal(t, "50.00", decoded["CreditAccount"].(map[string]any)["creditLimit"])
	values := decoded["CustomFieldValues"].(map[string]any)["CustomFieldValue"].([]any)
	assert.Len(t, values, 2)
}

func TestMapFirstNameFallback(t *testing.T) {
	m := newMapper(t)
	c, err := m.Map(&roster.Person{ID: 1, LastName: "A", FirstNickName: ptr("Alt")}, &roster.Household{})
	require.NoError(t, err)
	assert.Equal(t, "Alt", c.FirstName)

	c, err = m.Map(&roster.Person{ID: 1, LastName: "A"}, &roster.Household{})
	require.NoError(t, err)
	assert.Empty(t, c.FirstName)
}

func TestMapRejectsBadRecords(t *testing.T) {
	m := newMapper(t)
	tests := []struct {
		name      string
		person    *roster.Person
		household *roster.Household
	}{
		{"nil person", nil, &roster.Household{}},
		{"zero id", &roster.Person{LastName: "A"}, &roster.Household{}},
		{"empty last name", &roster.Person{ID: 2}, &roster.Household{}},
		{"nil household", &roster.Person{ID: 2, LastName: "A"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Map(tt.person, tt.household)
			require.Error(t, err)
			assert.True(t, errors.IsMappingError(err))
		})
	}
}
