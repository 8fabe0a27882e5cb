// Package pocket wraps the bookmarking service: the request-token OAuth flow,
// saving and listing items, and the public collections catalog.
package pocket

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/pocketbot/internal/domain"
	"github.com/bnema/pocketbot/internal/ports"
)

const (
	maxResponseBytes = 4 << 20

	requestTokenPath = "/v3/oauth/request"
	authorizeAPIPath = "/v3/oauth/authorize"
	authorizePath    = "/auth/authorize"
	addPath          = "/v3/add"
	getPath          = "/v3/get"

	DefaultBaseURL = "https://getpocket.com"
)

const collectionsQuery = `query ($page: Int, $perPage: Int) {
  getCollections(page: $page, perPage: $perPage) {
    collections {
      slug
      title
      shortUrl
      intro
    }
  }
}`

type Config struct {
	// BaseURL serves the REST API and the user-facing consent page.
	BaseURL string
	// ClientURL is the GraphQL endpoint used for the collections catalog.
	ClientURL   string
	ConsumerKey string
	Timeout     time.Duration
}

type Client struct {
	base        *url.URL
	clientURL   string
	consumerKey string
	httpClient  *http.Client
}

var _ ports.Bookmarks = (*Client)(nil)

// StatusError reports a non-2xx answer. Pocket explains failures in the X-Error header.
type StatusError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
}

func NewClient(cfg Config) (*Client, error) {
	rawBase := cfg.BaseURL
	if rawBase == "" {
		rawBase = DefaultBaseURL
	}
	base, err := parseServiceURL("pocket url", rawBase)
	if err != nil {
		return nil, err
	}
	if cfg.ClientURL != "" {
		if _, err := parseServiceURL("pocket client url", cfg.ClientURL); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(cfg.ConsumerKey) == "" {
		return nil, errors.New("pocket consumer key is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		base:        base,
		clientURL:   cfg.ClientURL,
		consumerKey: cfg.ConsumerKey,
		httpClient:  &http.Client{Timeout: timeout},
	}, nil
}

type requestTokenResponse struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

// RequestToken starts the delegation flow and returns the request token the user must approve.
func (c *Client) RequestToken(ctx context.Context, redirectURI string) (string, error) {
	if redirectURI == "" {
		return "", errors.New("redirect uri is required")
	}

	body := map[string]string{
		"consumer_key": c.consumerKey,
		"redirect_uri": redirectURI,
	}
	var resp requestTokenResponse
	if err := c.postJSON(ctx, "request token", requestTokenPath, body, &resp); err != nil {
		return "", err
	}
	if resp.Code == "" {
		return "", errors.New("request token response missing code")
	}

	return resp.Code, nil
}

func (c *Client) AuthorizeURL(requestToken string, redirectURI string) (string, error) {
	if requestToken == "" {
		return "", errors.New("request token is required")
	}
	if redirectURI == "" {
		return "", errors.New("redirect uri is required")
	}

	consent := c.base.JoinPath(authorizePath)
	consent.RawQuery = url.Values{
		"request_token": {requestToken},
		"redirect_uri":  {redirectURI},
	}.Encode()

	return consent.String(), nil
}

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
}

// ExchangeToken trades an approved request token for a user access token.
func (c *Client) ExchangeToken(ctx context.Context, requestToken string) (string, error) {
	if requestToken == "" {
		return "", errors.New("request token is required")
	}

	body := map[string]string{
		"consumer_key": c.consumerKey,
		"code":         requestToken,
	}
	var resp accessTokenResponse
	if err := c.postJSON(ctx, "exchange token", authorizeAPIPath, body, &resp); err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", errors.New("token response missing access token")
	}

	return resp.AccessToken, nil
}

func (c *Client) Add(ctx context.Context, accessToken string, itemURL string) error {
	if accessToken == "" {
		return domain.ErrNotLoggedIn
	}
	if strings.TrimSpace(itemURL) == "" {
		return errors.New("item url is required")
	}

	body := map[string]string{
		"url":          itemURL,
		"consumer_key": c.consumerKey,
		"access_token": accessToken,
	}
	return c.postJSON(ctx, "add item", addPath, body, nil)
}

type itemPayload struct {
	ItemID        string `json:"item_id"`
	ResolvedURL   string `json:"resolved_url"`
	GivenURL      string `json:"given_url"`
	ResolvedTitle string `json:"resolved_title"`
	GivenTitle    string `json:"given_title"`
	Excerpt       string `json:"excerpt"`
}

func (p itemPayload) toDomain(key string) domain.Item {
	item := domain.Item{ID: p.ItemID, URL: p.ResolvedURL, Title: p.ResolvedTitle}
	if item.ID == "" {
		item.ID = key
	}
	if item.URL == "" {
		item.URL = p.GivenURL
	}
	if item.Title == "" {
		item.Title = p.GivenTitle
	}
	if item.Title == "" {
		item.Title = p.Excerpt
	}
	return item
}

type getResponse struct {
	Status int             `json:"status"`
	List   json.RawMessage `json:"list"`
}

// Get returns up to count saved items in the order the service listed them.
func (c *Client) Get(ctx context.Context, accessToken string, count int) ([]domain.Item, error) {
	if accessToken == "" {
		return nil, domain.ErrNotLoggedIn
	}
	if count <= 0 {
		return nil, errors.New("count must be positive")
	}

	body := map[string]any{
		"count":        count,
		"consumer_key": c.consumerKey,
		"access_token": accessToken,
	}
	var resp getResponse
	if err := c.postJSON(ctx, "get items", getPath, body, &resp); err != nil {
		return nil, err
	}

	return decodeItemList(resp.List)
}

// decodeItemList walks the list object token by token so the keys keep
// document order. An empty list is sent as [] rather than {}.
func decodeItemList(raw json.RawMessage) ([]domain.Item, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode item list: %w", err)
	}

	switch tok {
	case nil:
		return nil, nil
	case json.Delim('['):
		var items []itemPayload
		for dec.More() {
			var payload itemPayload
			if err := dec.Decode(&payload); err != nil {
				return nil, fmt.Errorf("decode item: %w", err)
			}
			items = append(items, payload)
		}
		out := make([]domain.Item, 0, len(items))
		for _, payload := range items {
			out = append(out, payload.toDomain(""))
		}
		return out, nil
	case json.Delim('{'):
	default:
		return nil, fmt.Errorf("decode item list: unexpected token %v", tok)
	}

	var out []domain.Item
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode item key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("decode item key: unexpected token %v", keyTok)
		}

		var payload itemPayload
		if err := dec.Decode(&payload); err != nil {
			return nil, fmt.Errorf("decode item %s: %w", key, err)
		}
		out = append(out, payload.toDomain(key))
	}

	return out, nil
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type collectionsResponse struct {
	Data struct {
		GetCollections struct {
			Collections []struct {
				Slug     string `json:"slug"`
				Title    string `json:"title"`
				ShortURL string `json:"shortUrl"`
				Intro    string `json:"intro"`
			} `json:"collections"`
		} `json:"getCollections"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Collections returns the first page of the public catalog.
func (c *Client) Collections(ctx context.Context, perPage int) ([]domain.Collection, error) {
	if c.clientURL == "" {
		return nil, errors.New("pocket client url is not configured")
	}
	if perPage <= 0 {
		return nil, errors.New("page size must be positive")
	}

	payload, err := json.Marshal(graphQLRequest{
		Query:     collectionsQuery,
		Variables: map[string]any{"page": 1, "perPage": perPage},
	})
	if err != nil {
		return nil, fmt.Errorf("encode collections query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.clientURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create collections request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Type", "GraphQL")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query collections: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus("query collections", resp); err != nil {
		return nil, err
	}

	var decoded collectionsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode collections response: %w", err)
	}
	if len(decoded.Errors) > 0 {
		messages := make([]error, 0, len(decoded.Errors))
		for _, e := range decoded.Errors {
			messages = append(messages, errors.New(e.Message))
		}
		return nil, fmt.Errorf("query collections: %w", errors.Join(messages...))
	}

	raw := decoded.Data.GetCollections.Collections
	out := make([]domain.Collection, 0, len(raw))
	for _, col := range raw {
		out = append(out, domain.Collection{Slug: col.Slug, Title: col.Title, ShortURL: col.ShortURL, Intro: col.Intro})
	}
	return out, nil
}

func (c *Client) postJSON(ctx context.Context, op string, path string, body any, out any) error {
	endpoint := c.base.JoinPath(path).String()

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("X-Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(op, resp); err != nil {
		return err
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

func checkStatus(op string, resp *http.Response) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}
	return &StatusError{Op: op, StatusCode: resp.StatusCode, Message: resp.Header.Get("X-Error")}
}

// parseServiceURL accepts an absolute http(s) URL. Any path on it is kept as a
// prefix for the API paths, which lets the client sit behind a proxy.
func parseServiceURL(name string, raw string) (*url.URL, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("%s must use http or https", name)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("%s host is required", name)
	}
	if parsed.RawQuery != "" || parsed.Fragment != "" {
		return nil, fmt.Errorf("%s must not carry a query or fragment", name)
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/")
	parsed.RawPath = ""
	return parsed, nil
}
