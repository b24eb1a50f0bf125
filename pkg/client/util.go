package client

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
)

// decodeResponse consumes the body of res. A status of 400 and above becomes
// a *RemoteError, anything else is decoded into out. An empty body, as sent
// with 204, leaves out untouched.
func decodeResponse(res *http.Response, out interface{}) (string, error) {
	body, err := ioutil.ReadAll(res.Body)
	_ = res.Body.Close()
	if err != nil {
		return "", fmt.Errorf("io read: %w", err)
	}

	if res.StatusCode >= http.StatusBadRequest {
		return string(body), newRemoteError(body, res.StatusCode)
	}

	if len(body) == 0 || out == nil {
		return string(body), nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return string(body), fmt.Errorf("json decode: %w", err)
	}

	return string(body), nil
}

// newRemoteError prefers the message and field errors of the API error
// envelope and falls back to the raw body.
func newRemoteError(body []byte, statusCode int) *RemoteError {
	e := &RemoteError{StatusCode: statusCode, Message: string(body)}

	parsed := errorResponse{}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			e.Message = parsed.Message
		}
		e.Fields = parsed.Errors
	}

	return e
}
