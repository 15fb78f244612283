package kanbanflow

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultBaseURL is the production KanbanFlow API.
	DefaultBaseURL = "https://kanbanflow.com/api/v1"

	// DefaultTimeout bounds every remote call when no HTTP client is given.
	DefaultTimeout = 30 * time.Second

	tracerName = "github.com/HendryAvila/kanbanflow-mcp/internal/kanbanflow"
)

// Client calls the KanbanFlow API with a board-scoped API token.
// It is safe for concurrent use.
type Client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	tracer     trace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root (tests, proxies).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBreaker routes every call through cb. See NewBreaker.
func WithBreaker(cb *gobreaker.CircuitBreaker) Option {
	return func(c *Client) { c.breaker = cb }
}

// WithTracerProvider records spans on tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) { c.tracer = tp.Tracer(tracerName) }
}

// NewClient creates a Client. It fails with a *ConfigurationError when
// apiKey is empty.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, &ConfigurationError{Err: ErrMissingAPIKey}
	}

	c := &Client{
		baseURL:    DefaultBaseURL,
		authHeader: basicAuth(apiKey),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer(tracerName)
	}
	c.baseURL = strings.TrimRight(c.baseURL, "/")
	return c, nil
}

// basicAuth builds the header value KanbanFlow expects: the literal user
// "apiToken" and the API key as password.
func basicAuth(apiKey string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte("apiToken:"+apiKey))
}

// GetBoard fetches the board structure (columns, swimlanes, colors).
func (c *Client) GetBoard(ctx context.Context) (*Board, error) {
	return fetch(ctx, c, "getBoard", "/board", nil, ParseBoard)
}

// GetTasks fetches tasks grouped by column. A nil filter returns every
// column with the API's default page size.
func (c *Client) GetTasks(ctx context.Context, filter *TaskFilter) (TasksResponse, error) {
	return fetch(ctx, c, "getTasks", "/tasks", filter.Query(), ParseTasksResponse)
}

// GetTaskByID fetches a single task.
func (c *Client) GetTaskByID(ctx context.Context, taskID string, includePosition bool) (*Task, error) {
	var q url.Values
	if includePosition {
		q = url.Values{"includePosition": {"true"}}
	}
	return fetch(ctx, c, "getTaskById", "/tasks/"+url.PathEscape(taskID), q, ParseTask)
}

// GetUsers fetches every user on the board.
func (c *Client) GetUsers(ctx context.Context) ([]User, error) {
	return fetch(ctx, c, "getUsers", "/users", nil, ParseUsers)
}

// GetComments fetches the comments of a task. Comments the API returns
// without a task id are attributed to taskID.
func (c *Client) GetComments(ctx context.Context, taskID string) ([]Comment, error) {
	comments, err := fetch(ctx, c, "getComments", "/tasks/"+url.PathEscape(taskID)+"/comments", nil, ParseComments)
	if err != nil {
		return nil, err
	}
	for i := range comments {
		if comments[i].TaskID == "" {
			comments[i].TaskID = taskID
		}
	}
	return comments, nil
}

// fetch performs one GET and parses the body. The whole exchange,
// validation included, is one span.
func fetch[T any](ctx context.Context, c *Client, op, path string, query url.Values, parse func([]byte) (T, error)) (T, error) {
	ctx, span := c.tracer.Start(ctx, "kanbanflow."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("kanbanflow.op", op),
			attribute.String("http.request.method", http.MethodGet),
			attribute.String("url.path", path),
		),
	)
	defer span.End()

	var zero T
	data, err := c.get(ctx, op, path, query)
	if err == nil {
		var out T
		out, err = parse(data)
		if err == nil {
			return out, nil
		}
		var validErr *ValidationError
		if errors.As(err, &validErr) {
			validErr.Op = op
		}
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String("kanbanflow.error_kind", KindOf(err)))
	return zero, err
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("building request: %w", err)}
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.breaker == nil {
		return c.do(op, req)
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.do(op, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &TransportError{Op: op, Err: err}
		}
		return nil, err
	}
	return out.([]byte), nil
}

func (c *Client) do(op string, req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	trace.SpanFromContext(req.Context()).SetAttributes(
		attribute.Int("http.response.status_code", resp.StatusCode),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text := "Unknown error"
		if body, readErr := io.ReadAll(resp.Body); readErr == nil {
			text = string(body)
		}
		return nil, &RemoteError{Op: op, StatusCode: resp.StatusCode, Body: text}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("reading response: %w", err)}
	}
	return data, nil
}
