package roster_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/roster"
)

func ptr(s string) *string { return &s }

func TestPersonFirstName(t *testing.T) {
	tests := []struct {
		name   string
		person roster.Person
		want   string
	}{
		{"nick first wins", roster.Person{NickFirstName: ptr("Sam"), FirstNickName: ptr("Samuel")}, "Sam"},
		{"falls back to first nick", roster.Person{FirstNickName: ptr("Samuel")}, "Samuel"},
		{"empty nick first still wins", roster.Person{NickFirstName: ptr(""), FirstNickName: ptr("Samuel")}, ""},
		{"neither present", roster.Person{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.person.FirstName())
		})
	}
}

func TestParseCohort(t *testing.T) {
	tests := []struct {
		input string
		want  roster.Cohort
	}{
		{"students", roster.Students},
		{"Students", roster.Students},
		{"facstaff", roster.FacultyStaff},
		{"Faculty Staff", roster.FacultyStaff},
		{"faculty_staff", roster.FacultyStaff},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := roster.ParseCohort(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := roster.ParseCohort("parents")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestCohortCustomerTypeName(t *testing.T) {
	assert.Equal(t, "Student", roster.Students.CustomerTypeName())
	assert.Equal(t, "FacultyStaff", roster.FacultyStaff.CustomerTypeName())
	assert.Empty(t, roster.Cohort("alumni").CustomerTypeName())
}

func TestExpandGradeLevels(t *testing.T) {
	assert.Equal(t, "", roster.ExpandGradeLevels(""))
	assert.Equal(t, "9,10", roster.ExpandGradeLevels("9,10"))
	assert.Equal(t, "20,21,22,23,24,25,26,27,28,29", roster.ExpandGradeLevels("other"))
	assert.Equal(t, "20,21,22,23,24,25,26,27,28,29", roster.ExpandGradeLevels("9, Other"))
}

func TestCohortParams(t *testing.T) {
	t.Run("students with filters", func(t *testing.T) {
		params := roster.Students.Params(roster.Filter{AfterDate: "2024-01-01", GradeLevels: "11,12"})
		assert.Equal(t, "2024-01-01", params.Get("updated_after"))
		assert.Equal(t, "11,12", params.Get("grade_level"))
		assert.Equal(t, "2", params.Get("option"))
		assert.Empty(t, params.Get("roles"))
	})

	t.Run("facstaff ignores grade levels", func(t *testing.T) {
		params := roster.FacultyStaff.Params(roster.Filter{GradeLevels: "11"})
		assert.Equal(t, "1,2", params.Get("roles"))
		assert.Empty(t, params.Get("grade_level"))
		assert.Empty(t, params.Get("updated_after"))
	})
}

type fakeSource struct {
	resource string
	params   url.Values
	people   []roster.Person
	err      error
}

func (f *fakeSource) People(_ context.Context, resource string, params url.Values) ([]roster.Person, error) {
	f.resource = resource
	f.params = params
	return f.people, f.err
}

func (f *fakeSource) Household(context.Context, int64) (*roster.Household, error) {
	return &roster.Household{}, nil
}

func TestPull(t *testing.T) {
	src := &fakeSource{people: []roster.Person{{ID: 1}, {ID: 2}}}

	people, err := roster.Pull(context.Background(), src, roster.Students, roster.Filter{})
	require.NoError(t, err)
	require.Len(t, people, 2)
	assert.Equal(t, "students", src.resource)
	for _, p := range people {
		assert.Equal(t, roster.Students, p.Cohort)
	}

	_, err = roster.Pull(context.Background(), src, roster.Cohort("alumni"), roster.Filter{})
	assert.True(t, errors.IsConfigError(err))

	src.err = errors.NewAPIError("veracross", 500, "boom")
	_, err = roster.Pull(context.Background(), src, roster.FacultyStaff, roster.Filter{})
	require.Error(t, err)
	assert.False(t, errors.IsWriteError(err), "fetch failures are not write failures")
}
