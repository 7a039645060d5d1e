package telegram

import (
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newPost(t *testing.T) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, "http://api.local/botX/sendMessage", strings.NewReader(`{"chat_id":1}`))
	require.NoError(t, err)
	return req
}

func okResponse() *http.Response {
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(`{"ok":true}`))}
}

func TestRetryTransportSingleAttemptByDefault(t *testing.T) {
	var calls int
	rt := &retryTransport{base: roundTripFunc(func(*http.Request) (*http.Response, error) {
		calls++
		return nil, &net.OpError{Op: "dial", Err: errors.New("refused")}
	})}

	_, err := rt.RoundTrip(newPost(t))
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryTransportRetriesTransientErrors(t *testing.T) {
	var calls int
	var bodies []string
	rt := &retryTransport{maxRetries: 2, base: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		if calls < 3 {
			return nil, &net.OpError{Op: "dial", Err: errors.New("refused")}
		}
		return okResponse(), nil
	})}

	resp, err := rt.RoundTrip(newPost(t))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []string{`{"chat_id":1}`, `{"chat_id":1}`, `{"chat_id":1}`}, bodies)
}

func TestRetryTransportDoesNotRetryPermanentErrors(t *testing.T) {
	var calls int
	rt := &retryTransport{maxRetries: 3, base: roundTripFunc(func(*http.Request) (*http.Response, error) {
		calls++
		return nil, errors.New("x509: certificate signed by unknown authority")
	})}

	_, err := rt.RoundTrip(newPost(t))
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestStatusTransport(t *testing.T) {
	st := &statusTransport{base: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusUnauthorized,
			Body:       io.NopCloser(strings.NewReader(`{"ok":false,"error_code":401,"description":"Unauthorized"}`)),
		}, nil
	})}
	resp, err := st.RoundTrip(newPost(t))
	assert.Nil(t, resp)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 401, statusErr.Code)
	assert.Equal(t, "Unauthorized", statusErr.Description)

	st.base = roundTripFunc(func(*http.Request) (*http.Response, error) { return okResponse(), nil })
	resp, err = st.RoundTrip(newPost(t))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
