// Package workflow provides a client for the workflow runtime's task
// instance API.
package workflow

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/order-inbox/internal/resilience"
)

// APIPath is appended to the runtime URL to form the API base.
const APIPath = "/bpmworkflowruntime/v1"

const (
	csrfHeader = "X-CSRF-Token"
	csrfFetch  = "Fetch"
)

// Client defines the task instance operations used by the inbox.
type Client interface {
	// FetchContext returns the context of a task instance keyed by top-level field.
	FetchContext(ctx context.Context, instanceID string) (map[string]json.RawMessage, error)
	// FetchToken requests an anti-forgery token for a following write.
	FetchToken(ctx context.Context) (string, error)
	// CompleteTask sends body as a partial update of the task instance.
	CompleteTask(ctx context.Context, instanceID, token string, body any) error
}

// Option configures the workflow client.
type Option func(*httpClient)

// WithRateLimit sets a per-second limit for runtime calls.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRetryPolicy replaces the retry policy for transient failures.
func WithRetryPolicy(p resilience.Policy) Option {
	return func(c *httpClient) {
		c.policy = p
	}
}

type httpClient struct {
	baseURL string
	timeout time.Duration
	rc      *resty.Client
	limiter *rate.Limiter
	policy  resilience.Policy
}

// NewClient creates a client for the runtime at runtimeURL. The session
// cookie that binds the anti-forgery token is kept in the client's jar.
func NewClient(runtimeURL string, opts ...Option) Client {
	c := &httpClient{
		baseURL: strings.TrimRight(runtimeURL, "/") + APIPath,
		timeout: 30 * time.Second,
		policy:  resilience.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.rc = resty.New()
	c.rc.SetBaseURL(c.baseURL).
		SetTimeout(c.timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	return c
}

func (c *httpClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

func (c *httpClient) FetchContext(ctx context.Context, instanceID string) (map[string]json.RawMessage, error) {
	p := c.retryPolicy("fetch context")
	out, err := resilience.RetryValue(ctx, p, func(ctx context.Context) (map[string]json.RawMessage, error) {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}
		resp, err := c.rc.R().
			SetContext(ctx).
			SetPathParam("id", instanceID).
			Get("/task-instances/{id}/context")
		if err != nil {
			return nil, transportErr(err)
		}
		if err := checkStatus(resp); err != nil {
			return nil, err
		}

		var fields map[string]json.RawMessage
		if err := json.Unmarshal(resp.Body(), &fields); err != nil {
			return nil, eris.Wrap(err, "decode task context")
		}
		if fields == nil {
			fields = map[string]json.RawMessage{}
		}
		return fields, nil
	})
	if err != nil {
		return nil, eris.Wrapf(err, "workflow: fetch context %s", instanceID)
	}

	zap.L().Debug("workflow: fetched task context",
		zap.String("instance_id", instanceID),
		zap.Int("keys", len(out)),
	)
	return out, nil
}

func (c *httpClient) FetchToken(ctx context.Context) (string, error) {
	token, err := resilience.RetryValue(ctx, c.retryPolicy("fetch token"), func(ctx context.Context) (string, error) {
		if err := c.wait(ctx); err != nil {
			return "", err
		}
		resp, err := c.rc.R().
			SetContext(ctx).
			SetHeader(csrfHeader, csrfFetch).
			Get("/xsrf-token")
		if err != nil {
			return "", transportErr(err)
		}
		if err := checkStatus(resp); err != nil {
			return "", err
		}
		return resp.Header().Get(csrfHeader), nil
	})
	if err != nil {
		return "", eris.Wrap(err, "workflow: fetch token")
	}
	if token == "" {
		return "", eris.New("workflow: fetch token: runtime returned no token")
	}
	return token, nil
}

func (c *httpClient) CompleteTask(ctx context.Context, instanceID, token string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return eris.Wrap(err, "workflow: encode completion")
	}

	err = resilience.Retry(ctx, c.retryPolicy("complete task"), func(ctx context.Context) error {
		if err := c.wait(ctx); err != nil {
			return err
		}
		resp, err := c.rc.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetHeader(csrfHeader, token).
			SetPathParam("id", instanceID).
			SetBody(payload).
			Patch("/task-instances/{id}")
		if err != nil {
			return transportErr(err)
		}
		return checkStatus(resp)
	})
	if err != nil {
		return eris.Wrapf(err, "workflow: complete task %s", instanceID)
	}

	zap.L().Info("workflow: task completed", zap.String("instance_id", instanceID))
	return nil
}

func (c *httpClient) retryPolicy(operation string) resilience.Policy {
	p := c.policy
	if p.OnRetry == nil {
		p.OnRetry = resilience.LogRetry(operation)
	}
	return p
}

// transportErr marks network failures transient.
func transportErr(err error) error {
	if resilience.IsTransient(err) {
		return resilience.Transient(err, 0)
	}
	return err
}

func checkStatus(resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= http.StatusOK && code < http.StatusMultipleChoices {
		return nil
	}
	err := eris.Errorf("status %d: %s", code, truncate(strings.TrimSpace(resp.String()), 200))
	if resilience.TransientStatus(code) {
		return resilience.Transient(err, code)
	}
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
