package report

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/vistoria-app/vistoria/internal/models"
)

// ErrInvalidStartDate is returned when the start date is not in
// YYYY-MM-DDTHH:MM:SS.ffffffZ form.
var ErrInvalidStartDate = errors.New("invalid start date")

var startDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{1,6}Z$`)

// FormatStartDate converts "2024-03-05T13:45:00.000Z" to "05/03/2024".
func FormatStartDate(raw string) (string, error) {
	if !startDatePattern.MatchString(raw) {
		return "", fmt.Errorf("%w: %q", ErrInvalidStartDate, raw)
	}

	t, err := time.Parse("2006-01-02T15:04:05", raw[:19])
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidStartDate, raw, err)
	}

	return t.Format("02/01/2006"), nil
}

// startDateLine renders the "Data de Início" value. In lenient mode an
// unparseable date is shown as a visible placeholder instead of failing.
func startDateLine(raw string, lenient bool) (string, error) {
	formatted, err := FormatStartDate(raw)
	if err == nil {
		return formatted, nil
	}
	if !lenient {
		return "", err
	}
	if raw == models.DateNotSpecified {
		return raw, nil
	}
	return "Data inválida: " + raw, nil
}
