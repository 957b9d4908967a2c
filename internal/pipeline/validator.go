package pipeline

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/salespilot/salespilot/internal/schema"
)

// Reject reasons are logged and counted but never shown to the user; every
// rejection surfaces as the same help text.
var (
	errEmptyQuery         = errors.New("candidate query is empty")
	errNotSelect          = errors.New("candidate is not a select statement")
	errWrongTable         = errors.New("candidate does not read the sales table")
	errForbiddenKeyword   = errors.New("candidate contains a forbidden keyword")
	errMultipleStatements = errors.New("candidate contains multiple statements")
)

var (
	fromTablePattern = regexp.MustCompile(`(?i)\bfrom\s+"?` + schema.TableName + `"?\b`)
	forbiddenPattern = regexp.MustCompile(`(?i)\b(insert|update|delete|drop|alter|truncate|create|attach|copy|pragma|grant|revoke)\b`)
)

// validateQuery is the deterministic safety gate between the model and the
// executor. All checks are textual; the executor's own parser is the final
// arbiter of well-formedness.
func validateQuery(candidate string) error {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return errEmptyQuery
	}

	fields := strings.Fields(trimmed)
	if !strings.EqualFold(fields[0], "select") {
		return errNotSelect
	}
	if !fromTablePattern.MatchString(trimmed) {
		return errWrongTable
	}
	if forbiddenPattern.MatchString(trimmed) {
		return errForbiddenKeyword
	}
	if body := strings.TrimRight(trimmed, "; \t\r\n"); strings.Contains(body, ";") {
		return errMultipleStatements
	}
	return nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, errEmptyQuery):
		return "empty"
	case errors.Is(err, errNotSelect):
		return "not_select"
	case errors.Is(err, errWrongTable):
		return "wrong_table"
	case errors.Is(err, errForbiddenKeyword):
		return "forbidden_keyword"
	case errors.Is(err, errMultipleStatements):
		return "multiple_statements"
	default:
		return fmt.Sprintf("other: %v", err)
	}
}
