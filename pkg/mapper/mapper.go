// Package mapper converts a roster person and household into the nested
// point-of-sale customer payload used for both create and update calls.
package mapper

import (
	"strconv"

	"github.com/agentstation/utc"
	"github.com/shopspring/decimal"

	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/pos"
	"github.com/agentstation/rostersync/pkg/roster"
)

// Config holds the resolved target ids the mapper stamps onto every payload.
type Config struct {
	// CustomerTypeID is the classification id for the cohort being synced.
	CustomerTypeID string

	// ExternalIDFieldID is the custom field id that stores the roster person id.
	ExternalIDFieldID string

	// LastSyncFieldID is the custom field id that stores the last sync time.
	LastSyncFieldID string

	// CreditLimit is the default credit limit for every customer.
	CreditLimit decimal.Decimal

	// Now supplies the last sync timestamp. Defaults to utc.Now.
	Now func() utc.Time
}

// Mapper builds customer payloads. It has no side effects.
type Mapper struct {
	cfg Config
}

// New validates cfg and returns a Mapper.
func New(cfg Config) (*Mapper, error) {
	if cfg.ExternalIDFieldID == "" {
		return nil, errors.NewConfigError("mapper", "external id custom field is not resolved", nil)
	}
	if cfg.LastSyncFieldID == "" {
		return nil, errors.NewConfigError("mapper", "last sync custom field is not resolved", nil)
	}
	if cfg.CustomerTypeID == "" {
		return nil, errors.NewConfigError("mapper", "customer type is not resolved", nil)
	}
	if cfg.Now == nil {
		cfg.Now = utc.Now
	}
	return &Mapper{cfg: cfg}, nil
}

// ExternalIDFieldID returns the custom field id holding the roster id.
func (m *Mapper) ExternalIDFieldID() string {
	return m.cfg.ExternalIDFieldID
}

// Map converts one person and their household into a customer payload.
// The payload has no CustomerID; the reconciler sets it for updates.
func (m *Mapper) Map(person *roster.Person, household *roster.Household) (*pos.Customer, error) {
	if err := validate(person, household); err != nil {
		return nil, err
	}

	externalID := person.ExternalID()
	lastSync := m.cfg.Now().Format(constants.TimeFormatLastSync)

	return &pos.Customer{
		FirstName:                 person.FirstName(),
		LastName:                  person.LastName,
		CompanyRegistrationNumber: externalID,
		CustomerTypeID:            m.cfg.CustomerTypeID,
		Contact: &pos.Contact{
			Custom:  externalID,
			NoEmail: "false",
			NoPhone: "false",
			NoMail:  "false",
			Emails: &pos.Emails{
				ContactEmail: pos.List[pos.ContactEmail]{{
					Address: person.Email,
					UseType: constants.PrimaryEmailUseType,
				}},
			},
			Addresses: &pos.Addresses{
				ContactAddress: pos.List[pos.ContactAddress]{{
					Address1: household.Address1,
					Address2: household.Address2,
					City:     household.City,
					State:    household.StateProvince,
					Zip:      household.PostalCode,
					Country:  household.Country,
				}},
			},
		},
		CreditAccount: &pos.CreditAccount{
			CreditLimit: pos.NewMoney(m.cfg.CreditLimit.Round(2)),
		},
		CustomFieldValues: &pos.CustomFieldValues{
			CustomFieldValue: pos.List[pos.CustomFieldValue]{
				{CustomFieldID: m.cfg.ExternalIDFieldID, Value: externalID},
				{CustomFieldID: m.cfg.LastSyncFieldID, Value: lastSync},
			},
		},
	}, nil
}

func validate(person *roster.Person, household *roster.Household) error {
	if person == nil {
		return errors.NewMappingError("person", "", "record is nil")
	}
	id := strconv.FormatInt(person.ID, 10)
	if person.ID <= 0 {
		return errors.NewMappingError("person", id, "person id must be positive")
	}
	if person.LastName == "" {
		return errors.NewMappingError("person", id, "last name is empty")
	}
	if household == nil {
		return errors.NewMappingError("person", id, "household is missing")
	}
	return nil
}
