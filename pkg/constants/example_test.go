package constants_test

import (
	"fmt"
	"time"

	"github.com/agentstation/rostersync/pkg/constants"
)

// Example demonstrates using the date constants for an export window bound.
func Example() {
	begin, err := time.Parse(constants.DateFormat, "2024-01-01")
	if err != nil {
		panic(err)
	}
	fmt.Println(begin.Format(constants.DateFormat), len(constants.DateFormat) == constants.DateFormatLength)
	// Output: 2024-01-01 true
}

// Example_gradeRange shows the non-standard grade range selected by the "other" filter.
func Example_gradeRange() {
	fmt.Println(constants.OtherGradeLevel, constants.OtherGradeMin, constants.OtherGradeMax)
	// Output: other 20 29
}
