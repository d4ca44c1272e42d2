package wizard

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

// APIClient implements FeeCatalog, StudentDirectory and PaymentSubmitter
// against the cashier HTTP API.
type APIClient struct {
	BaseURL string // e.g. http://localhost:8080/api
	Token   string
	HTTP    *http.Client
}

func NewAPIClient(baseURL, token string) *APIClient {
	return &APIClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// APIError is a non-2xx answer from the server in its error envelope.
type APIError struct {
	Status    int
	Message   string              `json:"message"`
	ErrorCode string              `json:"error_code"`
	Errors    map[string][]string `json:"errors"`
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("%d %s: %s", e.Status, e.ErrorCode, e.Message)
	}
	parts := make([]string, 0, len(e.Errors))
	for field, msgs := range e.Errors {
		parts = append(parts, field+": "+strings.Join(msgs, "; "))
	}
	return fmt.Sprintf("%d %s: %s (%s)", e.Status, e.ErrorCode, e.Message, strings.Join(parts, ", "))
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func (c *APIClient) do(ctx context.Context, method, path string, body any, out any) error {
	var rd io.Reader
	if body != nil {
		raw, err := sonic.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := sonic.Unmarshal(raw, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return sonic.Unmarshal(raw, out)
}

func (c *APIClient) StudentFees(ctx context.Context, studentID uuid.UUID) (Catalog, error) {
	var env envelope[Catalog]
	if err := c.do(ctx, http.MethodGet, "/students/"+studentID.String()+"/fees", nil, &env); err != nil {
		return Catalog{}, err
	}
	if env.Data.Fees == nil {
		env.Data.Fees = []Fee{}
	}
	return env.Data, nil
}

func (c *APIClient) SearchStudents(ctx context.Context, query string) ([]StudentSummary, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("per_page", "10")
	var env envelope[[]StudentSummary]
	if err := c.do(ctx, http.MethodGet, "/students?"+q.Encode(), nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *APIClient) SubmitPayment(ctx context.Context, draft PaymentDraft) (Receipt, error) {
	var env envelope[struct {
		Payment Receipt `json:"payment"`
	}]
	if err := c.do(ctx, http.MethodPost, "/payments", draft, &env); err != nil {
		return Receipt{}, err
	}
	return env.Data.Payment, nil
}

// Login exchanges credentials for an access token and keeps it on the client.
func (c *APIClient) Login(ctx context.Context, email, password string) (string, error) {
	var env envelope[struct {
		AccessToken string `json:"access_token"`
	}]
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &env); err != nil {
		return "", err
	}
	c.Token = env.Data.AccessToken
	return c.Token, nil
}
