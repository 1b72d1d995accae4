package sdmx

import "statgate/internal/core/apperror"

// statusMessages mirrors the portal's documented status codes
// (https://data.ecb.europa.eu/help/api/status-codes).
var statusMessages = map[int]string{
	304: "No changes since the timestamp supplied in the If-Modified-Since header",
	400: "Syntax error: syntactic or semantic issue with the parameters supplied",
	404: "No results found: there are no results matching the query",
	406: "Not acceptable",
	500: "Internal server error",
	501: "Not implemented",
	503: "Service unavailable: web service is temporarily unavailable",
}

// statusError maps a non-200 response to a transport error. Remote statuses
// are never reinterpreted by the core; they pass through with the portal's
// documented meaning attached.
func statusError(status int, url string) *apperror.AppError {
	message := statusMessages[status]
	if message == "" {
		message = "unexpected response status"
	}
	return apperror.NewTransport(message, nil).
		WithDetail("status", status).
		WithDetail("url", url)
}
