package providers

import (
	"context"
	"io"
	"net/http"
)

// readOrClassify drains resp's body on a 2xx status, or converts a
// non-2xx status / transport error into the httpStatusError/timeoutError
// shapes the base provider's mapError understands. Any transport-level
// error (timeout, connection refused, DNS failure) is treated uniformly
// as a timeoutError; the base provider folds it into TimeoutError.
func readOrClassify(ctx context.Context, resp *http.Response, err error) ([]byte, error) {
	if err != nil {
		return nil, &timeoutError{cause: err}
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &httpStatusError{
			StatusCode: resp.StatusCode,
			Reason:     resp.Status,
			RetryAfter: resp.Header.Get("Retry-After"),
		}
	}
	return body, nil
}
