package httputil

import (
	"net/http"
	"strconv"
	"strings"
)

// IsOKResponse returns true only when the status
// code in the HTTP response is exactly 200. The
// conformance backend reports every other code,
// including the rest of the 2xx range, as a failure.
func IsOKResponse(resp *http.Response) bool {
	return resp != nil && resp.StatusCode == http.StatusOK
}

// ReasonPhrase returns the status text of the response without
// the leading numeric code, e.g. "Not Found" for "404 Not Found".
func ReasonPhrase(resp *http.Response) string {
	if resp == nil {
		return ""
	}

	code := strconv.Itoa(resp.StatusCode)
	phrase := strings.TrimSpace(strings.TrimPrefix(resp.Status, code))

	if phrase == "" {
		return http.StatusText(resp.StatusCode)
	}

	return phrase
}
