package odata

import (
	"fmt"
	"io"
	"net/http"
)

// response holds a fully read HTTP response. The status code is kept for
// logging only; callers never branch on it.
type response struct {
	status int
	body   []byte
}

// readResponse drains and closes the body on every path.
func readResponse(resp *http.Response) (*response, error) {
	defer func() {
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	r := &response{status: resp.StatusCode}
	if resp.Body == nil {
		return r, nil
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	r.body = b
	return r, nil
}

func (r *response) object() (Object, error) {
	return DecodeObject(r.body)
}

// statusDiagnostic describes an error status for the logs. Statuses below 400
// report false.
func statusDiagnostic(status int) (string, bool) {
	switch {
	case status < http.StatusBadRequest:
		return "", false
	case status == http.StatusBadRequest:
		return "Bad Request - Missing parameters.", true
	case status == http.StatusUnauthorized:
		return "Unauthorized - Authentication failed.", true
	case status == http.StatusForbidden:
		return "Forbidden - User does not have access.", true
	case status == http.StatusNotFound:
		return "Not Found - Resource not found.", true
	case status == http.StatusInternalServerError:
		return "Internal Server Error.", true
	default:
		return fmt.Sprintf("HTTP Error %d.", status), true
	}
}
