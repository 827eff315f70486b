package roster

import (
	"fmt"
	"strings"

	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/errors"
)

// Cohort is a named group of roster records synced together.
type Cohort string

// Known cohorts.
const (
	Students     Cohort = "students"
	FacultyStaff Cohort = "facstaff"
)

// Cohorts returns every known cohort.
func Cohorts() []Cohort {
	return []Cohort{Students, FacultyStaff}
}

// String returns the string representation of a cohort.
func (c Cohort) String() string {
	return string(c)
}

// Valid reports whether c is a known cohort.
func (c Cohort) Valid() bool {
	return c == Students || c == FacultyStaff
}

// Resource is the source resource the cohort is pulled from.
func (c Cohort) Resource() string {
	return string(c)
}

// CustomerTypeName is the point-of-sale classification name for the cohort.
func (c Cohort) CustomerTypeName() string {
	switch c {
	case Students:
		return constants.StudentCustomerType
	case FacultyStaff:
		return constants.FacultyStaffCustomerType
	}
	return ""
}

// ParseCohort accepts the canonical names plus the spellings used in older
// sync files ("Students", "Faculty Staff", "faculty_staff").
func ParseCohort(s string) (Cohort, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	switch key {
	case "students", "student":
		return Students, nil
	case "facstaff", "facultystaff":
		return FacultyStaff, nil
	}
	return "", &errors.ValidationError{
		Field:   "sync.type",
		Value:   s,
		Message: fmt.Sprintf("unknown cohort %q, expected students or facstaff", s),
	}
}
