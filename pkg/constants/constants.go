// Package constants provides shared constants used throughout the rostersync codebase.
// This includes timeouts, file permissions, vendor defaults and the fixed values
// the reconciliation and ledger logic depend on.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for a single vendor API request
	DefaultHTTPTimeout = 30 * time.Second

	// ShutdownTimeout bounds cleanup after a command fails
	ShutdownTimeout = 5 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Paging and rate limiting constants
const (
	// VeracrossPageSize is the number of records Veracross returns per page
	VeracrossPageSize = 100

	// LightspeedPageSize is the maximum limit Lightspeed accepts per request
	LightspeedPageSize = 100

	// DefaultLightspeedRate is the sustained request rate (per second) for Lightspeed.
	// The Retail API drips one unit every half second from a bucket of 60.
	DefaultLightspeedRate = 2.0

	// DefaultLightspeedBurst is the bucket size for Lightspeed requests
	DefaultLightspeedBurst = 60

	// DefaultVeracrossRate is the sustained request rate (per second) for Veracross
	DefaultVeracrossRate = 5.0

	// DefaultVeracrossBurst is the bucket size for Veracross requests
	DefaultVeracrossBurst = 10
)

// Cache constants
const (
	// CacheTTL is the default time-to-live for cached lookups
	CacheTTL = 15 * time.Minute

	// CacheCleanupInterval is how often to clean expired cache entries
	CacheCleanupInterval = 5 * time.Minute
)

// Roster constants
const (
	// OtherGradeLevel is the grade filter sentinel that selects non-standard grades
	OtherGradeLevel = "other"

	// OtherGradeMin is the first non-standard grade level id (inclusive)
	OtherGradeMin = 20

	// OtherGradeMax is the last non-standard grade level id (inclusive)
	OtherGradeMax = 29

	// CurrentStudentsOption is the Veracross "option" value for current students only
	CurrentStudentsOption = "2"

	// FacultyStaffRoles limits the facstaff pull to faculty and staff roles
	FacultyStaffRoles = "1,2"
)

// Point-of-sale constants
const (
	// StudentCustomerType is the customer type name used for the students cohort
	StudentCustomerType = "Student"

	// FacultyStaffCustomerType is the customer type name used for the faculty/staff cohort
	FacultyStaffCustomerType = "FacultyStaff"

	// DefaultOnAccountCode is the payment type code for charges to a credit account
	DefaultOnAccountCode = "SCA"

	// DefaultClearingEmployeeID is used when the clearing employee name cannot be resolved
	DefaultClearingEmployeeID = "1"

	// DefaultCreditLimit is the credit limit applied when none is configured
	DefaultCreditLimit = 0

	// UnknownDescription is the ledger description when no item or note is found
	UnknownDescription = "Unknown"

	// PrimaryEmailUseType is the use type on the one contact email we manage
	PrimaryEmailUseType = "Primary"
)

// Format constants
const (
	// DateFormat is the export window bound and ledger item date format
	DateFormat = "2006-01-02"

	// DateFormatLength is the exact length of a DateFormat value
	DateFormatLength = 10

	// TimeFormatFilename is the format used in generated export filenames
	TimeFormatFilename = "20060102_150405"

	// TimeFormatLastSync is the format of the last-sync custom field value
	TimeFormatLastSync = "2006-01-02 15:04:05.000000"
)

// Default paths
const (
	// DefaultConfigName is the config file base name searched in $HOME and the working directory
	DefaultConfigName = ".rostersync"

	// DefaultOutputDir is the default export output directory
	DefaultOutputDir = "."
)
