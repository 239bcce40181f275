package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vistoria-app/vistoria/internal/models"
)

func TestFormatStartDate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{input: "2024-03-05T13:45:00.000Z", expected: "05/03/2024"},
		{input: "2024-12-31T23:59:59.5Z", expected: "31/12/2024"},
		{input: "2023-01-09T08:00:00.123456Z", expected: "09/01/2023"},
		{input: "2024-03-05T13:45:00Z", wantErr: true},
		{input: "2024-03-05T13:45:00.1234567Z", wantErr: true},
		{input: "2024-03-05T13:45:00.000", wantErr: true},
		{input: "2024-03-05", wantErr: true},
		{input: "05/03/2024", wantErr: true},
		{input: "2024-13-05T13:45:00.000Z", wantErr: true},
		{input: models.DateNotSpecified, wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := FormatStartDate(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStartDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestStartDateLineLenient(t *testing.T) {
	got, err := startDateLine("ontem", true)
	require.NoError(t, err)
	assert.Equal(t, "Data inválida: ontem", got)

	got, err = startDateLine(models.DateNotSpecified, true)
	require.NoError(t, err)
	assert.Equal(t, models.DateNotSpecified, got)

	_, err = startDateLine("ontem", false)
	assert.ErrorIs(t, err, ErrInvalidStartDate)
}
