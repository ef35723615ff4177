// Package errs defines the error shapes returned to API clients.
//
// Handlers and services return *HTTPError values; the global error handler
// serializes them as-is. Anything else is translated by package sqlerr or
// reported as a generic 500.
package errs

import "strings"

// MakeUpperCaseWithUnderscores turns "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
