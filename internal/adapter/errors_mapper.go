package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// serviceError is the error envelope the catalog service returns alongside
// non-2xx statuses.
type serviceError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
}

// reason extracts a human-readable failure description from the response
// body, preferring the service's structured envelope over the raw bytes.
func reason(resp *resty.Response) string {
	body := strings.TrimSpace(string(resp.Body()))

	var svcErr serviceError
	if err := json.Unmarshal(resp.Body(), &svcErr); err == nil && svcErr.Message != "" {
		if svcErr.Details != "" {
			return fmt.Sprintf("%s (code %d): %s", svcErr.Message, svcErr.Code, svcErr.Details)
		}
		return fmt.Sprintf("%s (code %d)", svcErr.Message, svcErr.Code)
	}

	if body == "" {
		return http.StatusText(resp.StatusCode())
	}
	return body
}

// mapHTTPError translates a service response into a sentinel error, or nil
// for a 2xx status. 401 is the dispatcher's renew trigger; 403 means the
// server rejected the action independently of the client-side permission
// check.
func mapHTTPError(resp *resty.Response) error {
	code := resp.StatusCode()

	switch {
	case code >= http.StatusOK && code < http.StatusMultipleChoices:
		return nil
	case code == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, reason(resp))
	case code == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, reason(resp))
	case code == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, reason(resp))
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, reason(resp))
	case code == http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, reason(resp))
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, reason(resp))
	case code >= http.StatusInternalServerError:
		return fmt.Errorf("%w: http %d: %s", ErrServerUnavailable, code, reason(resp))
	default:
		return fmt.Errorf("http %d: %s", code, reason(resp))
	}
}
