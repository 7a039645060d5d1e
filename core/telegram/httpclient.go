package telegram

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/m3rciful/quizbot/core/config"
	"github.com/m3rciful/quizbot/core/telegram/netutil"
)

const (
	defaultDialTimeout       = 5 * time.Second
	defaultTLSHandshake      = 5 * time.Second
	defaultIdleConnTimeout   = 30 * time.Second
	defaultResponseTimeout   = 10 * time.Second
	defaultClientTimeout     = 30 * time.Second
	defaultKeepAliveInterval = 30 * time.Second
	defaultRetryBackoff      = 500 * time.Millisecond

	maxErrorBody = 4 << 10
)

// BuildHTTPClient returns an HTTP client tuned for Bot API calls. Non-2xx
// responses surface as *StatusError. Transient transport failures are retried
// cfg.SendRetries times; the default of zero keeps single-attempt delivery.
func BuildHTTPClient(cfg config.TelegramConfig) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: defaultDialTimeout, KeepAlive: defaultKeepAliveInterval}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       defaultIdleConnTimeout,
		TLSHandshakeTimeout:   defaultTLSHandshake,
		ResponseHeaderTimeout: defaultResponseTimeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	timeout := defaultClientTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &statusTransport{
			base: &retryTransport{
				base:       transport,
				maxRetries: cfg.SendRetries,
				backoff:    defaultRetryBackoff,
			},
		},
	}
}

// StatusError reports a non-2xx Bot API response.
type StatusError struct {
	Code        int
	Description string
}

func (e *StatusError) Error() string {
	desc := e.Description
	if desc == "" {
		desc = http.StatusText(e.Code)
	}
	return fmt.Sprintf("telegram: %s (%d)", desc, e.Code)
}

// statusTransport turns non-2xx responses into errors. telebot only inspects
// the JSON body, so an HTML error page from a proxy would otherwise pass as success.
type statusTransport struct {
	base http.RoundTripper
}

func (t *statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	statusErr := &StatusError{Code: resp.StatusCode}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var apiErr struct {
		Description string `json:"description"`
	}
	if json.Unmarshal(body, &apiErr) == nil {
		statusErr.Description = apiErr.Description
	}
	return nil, statusErr
}

type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	backoff    time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	attempts := max(t.maxRetries, 0) + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		currReq := req
		if attempt > 1 {
			if req.Body != nil && req.GetBody == nil {
				return nil, lastErr
			}
			currReq = req.Clone(req.Context())
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, err
				}
				currReq.Body = body
			}
		}

		resp, err := base.RoundTrip(currReq)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !netutil.ShouldRetry(err) || attempt == attempts {
			break
		}

		timer := time.NewTimer(t.backoff * time.Duration(attempt))
		select {
		case <-req.Context().Done():
			timer.Stop()
			return nil, req.Context().Err()
		case <-timer.C:
		}
	}

	return nil, lastErr
}
