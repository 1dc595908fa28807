package transport

import (
	"fmt"
	"io"
	"net/http"

	"github.com/agentstation/profilemerge/pkg/errors"
	"github.com/agentstation/profilemerge/pkg/logging"
)

// ReadBody reads and closes the response body, enforcing a status of 200
// and a maximum size.
func ReadBody(resp *http.Response, url string, maxBytes int64) ([]byte, error) {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Debug().Err(err).Str("url", url).Msg("failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.NewHTTPError(url, resp.StatusCode, string(msg))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, errors.WrapIO("read", "response body", err)
	}
	if int64(len(body)) > maxBytes {
		return nil, errors.NewIOError("read", url, fmt.Errorf("body exceeds %d bytes", maxBytes))
	}
	return body, nil
}
