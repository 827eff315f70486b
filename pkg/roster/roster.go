// Package roster defines the source-of-truth person records pulled from the
// school information system, the cohorts they are grouped into, and the
// filter parameters used to select them.
package roster

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/agentstation/utc"

	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/errors"
)

// Person is one roster record. It is fetched fresh on every run and never
// mutated locally.
type Person struct {
	ID            int64
	LastName      string
	NickFirstName *string
	FirstNickName *string
	Email         *string
	HouseholdID   int64
	Cohort        Cohort
	UpdatedAt     utc.Time
}

// FirstName resolves the preferred first name. The two source fields carry
// the same value but only one is populated at a time, so the first present wins.
func (p *Person) FirstName() string {
	if p.NickFirstName != nil {
		return *p.NickFirstName
	}
	if p.FirstNickName != nil {
		return *p.FirstNickName
	}
	return ""
}

// ExternalID is the person id as stored on the point-of-sale record.
func (p *Person) ExternalID() string {
	return strconv.FormatInt(p.ID, 10)
}

// Household is the mailing address shared by one or more persons.
type Household struct {
	ID            int64
	Address1      string
	Address2      *string
	City          string
	StateProvince string
	PostalCode    string
	Country       string
}

// Source is the read side of the school information system.
type Source interface {
	// People pulls every record of a resource matching params.
	People(ctx context.Context, resource string, params url.Values) ([]Person, error)

	// Household fetches one household by id.
	Household(ctx context.Context, id int64) (*Household, error)
}

// Filter narrows a cohort pull.
type Filter struct {
	// AfterDate limits the pull to records updated after this date (YYYY-MM-DD).
	AfterDate string

	// GradeLevels is a comma separated allow-list of grade ids, or the
	// "other" sentinel. Only applies to students.
	GradeLevels string
}

// IsEmpty reports whether the filter selects the whole cohort.
func (f Filter) IsEmpty() bool {
	return strings.TrimSpace(f.AfterDate) == "" && strings.TrimSpace(f.GradeLevels) == ""
}

// ExpandGradeLevels turns a grade filter into the value sent to the source.
// The "other" sentinel anywhere in the list selects exactly the non-standard
// grade range.
func ExpandGradeLevels(levels string) string {
	levels = strings.TrimSpace(levels)
	if levels == "" {
		return ""
	}
	for _, level := range strings.Split(levels, ",") {
		if strings.EqualFold(strings.TrimSpace(level), constants.OtherGradeLevel) {
			return strings.Join(OtherGrades(), ",")
		}
	}
	return levels
}

// OtherGrades lists the non-standard grade ids in ascending order.
func OtherGrades() []string {
	grades := make([]string, 0, constants.OtherGradeMax-constants.OtherGradeMin+1)
	for g := constants.OtherGradeMin; g <= constants.OtherGradeMax; g++ {
		grades = append(grades, strconv.Itoa(g))
	}
	return grades
}

// Params builds the pull parameters for a cohort.
func (c Cohort) Params(filter Filter) url.Values {
	params := url.Values{}
	if after := strings.TrimSpace(filter.AfterDate); after != "" {
		params.Set("updated_after", after)
	}

	switch c {
	case Students:
		if grades := ExpandGradeLevels(filter.GradeLevels); grades != "" {
			params.Set("grade_level", grades)
		}
		params.Set("option", constants.CurrentStudentsOption)
	case FacultyStaff:
		params.Set("roles", constants.FacultyStaffRoles)
	}
	return params
}

// Pull fetches the cohort from the source with the filter applied and tags
// every record with the cohort.
func Pull(ctx context.Context, src Source, cohort Cohort, filter Filter) ([]Person, error) {
	if !cohort.Valid() {
		return nil, errors.NewConfigError("roster", "unknown cohort "+strconv.Quote(string(cohort)), nil)
	}
	people, err := src.People(ctx, cohort.Resource(), cohort.Params(filter))
	if err != nil {
		return nil, errors.WrapResource("fetch", cohort.Resource(), "", err)
	}
	for i := range people {
		people[i].Cohort = cohort
	}
	return people, nil
}
