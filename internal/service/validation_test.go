package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStruct_Messages(t *testing.T) {
	verr := validateStruct(CreateTaskRequest{Status: "done", DueDate: "31/12/2025"})

	require.False(t, verr.empty())
	assert.Equal(t, []string{"The title field is required."}, verr.Fields["title"])
	assert.Equal(t, []string{"The selected status is invalid."}, verr.Fields["status"])
	assert.Equal(t, []string{"The due date field must be a valid date."}, verr.Fields["due_date"])
	assert.Equal(t, "The title field is required.", verr.Message())
	assert.Equal(t, verr.Message(), verr.Error())
}

func TestValidateStruct_Passes(t *testing.T) {
	verr := validateStruct(CreateTaskRequest{Title: "ok", DueDate: "2025-12-31T10:00:00Z"})
	assert.True(t, verr.empty())
	assert.NoError(t, verr.err())
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2025-02-28", want: "2025-02-28"},
		{in: "2025-02-28T23:30:00-02:00", want: "2025-03-01"},
		{in: " 2025-01-01 ", want: "2025-01-01"},
		{in: "2025-02-30", wantErr: true},
		{in: "tomorrow", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format(dateLayout))
		})
	}
}

func TestOptionalID(t *testing.T) {
	id := func(v int64) *int64 { return &v }

	tests := []struct {
		in      string
		want    *int64
		wantErr bool
	}{
		{in: ""},
		{in: "42", want: id(42)},
		{in: "9223372036854775807", want: id(9223372036854775807)},
		{in: "9223372036854775808", wantErr: true},
		{in: "-3", wantErr: true},
		{in: "+3", wantErr: true},
		{in: "4.2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := optionalID(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateStruct_IntegerOverflow(t *testing.T) {
	verr := validateStruct(CreateProjectRequest{Name: "Website", UserID: "99999999999999999999"})
	assert.Equal(t, []string{"The user id field must be an integer."}, verr.Fields["user_id"])

	verr = validateStruct(CreateTaskRequest{Title: "Draft", AssignedTo: "99999999999999999999"})
	assert.Equal(t, []string{"The assigned to field must be an integer."}, verr.Fields["assigned_to"])
}

func TestTruthy(t *testing.T) {
	for _, s := range []string{"1", "true", "TRUE"} {
		assert.True(t, truthy(s), s)
	}
	for _, s := range []string{"", "0", "false", "yes"} {
		assert.False(t, truthy(s), s)
	}
}
