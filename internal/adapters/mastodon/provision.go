package mastodon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	appsPath              = "/api/v1/apps"
	verifyCredentialsPath = "/api/v1/apps/verify_credentials"
	authorizePath         = "/oauth/authorize"
	tokenPath             = "/oauth/token"

	// OutOfBandRedirectURI makes the instance display the code instead of redirecting.
	OutOfBandRedirectURI = "urn:ietf:wg:oauth:2.0:oob"
	DefaultScopes        = "read write push"
)

type App struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RedirectURI  string `json:"redirect_uri"`
}

type AppRegistration struct {
	BaseURL     string
	ClientName  string
	RedirectURI string
	Scopes      string
	Website     string
}

type TokenExchangeRequest struct {
	BaseURL string
	App     App
	Code    string
	Scopes  string
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
}

// RegisterApp creates the OAuth application the bot account authorizes.
func RegisterApp(ctx context.Context, client *http.Client, reg AppRegistration) (App, error) {
	if reg.ClientName == "" {
		return App{}, errors.New("client name is required")
	}
	endpoint, err := instanceEndpoint(reg.BaseURL, appsPath, nil)
	if err != nil {
		return App{}, err
	}

	values := url.Values{}
	values.Set("client_name", reg.ClientName)
	values.Set("redirect_uris", orDefault(reg.RedirectURI, OutOfBandRedirectURI))
	values.Set("scopes", orDefault(reg.Scopes, DefaultScopes))
	if reg.Website != "" {
		values.Set("website", reg.Website)
	}

	var app App
	if err := postForm(ctx, client, "register app", endpoint, values, &app); err != nil {
		return App{}, err
	}
	if app.ClientID == "" || app.ClientSecret == "" {
		return App{}, errors.New("app registration response missing client credentials")
	}
	if app.RedirectURI == "" {
		app.RedirectURI = orDefault(reg.RedirectURI, OutOfBandRedirectURI)
	}

	return app, nil
}

func AuthorizeURL(baseURL string, app App, scopes string) (string, error) {
	if app.ClientID == "" {
		return "", errors.New("client id is required")
	}

	return instanceEndpoint(baseURL, authorizePath, url.Values{
		"client_id":     {app.ClientID},
		"scope":         {orDefault(scopes, DefaultScopes)},
		"redirect_uri":  {orDefault(app.RedirectURI, OutOfBandRedirectURI)},
		"response_type": {"code"},
	})
}

func ExchangeCode(ctx context.Context, client *http.Client, req TokenExchangeRequest) (string, error) {
	if req.Code == "" {
		return "", errors.New("authorization code is required")
	}
	endpoint, err := instanceEndpoint(req.BaseURL, tokenPath, nil)
	if err != nil {
		return "", err
	}

	values := url.Values{}
	values.Set("client_id", req.App.ClientID)
	values.Set("client_secret", req.App.ClientSecret)
	values.Set("redirect_uri", orDefault(req.App.RedirectURI, OutOfBandRedirectURI))
	values.Set("grant_type", "authorization_code")
	values.Set("code", req.Code)
	values.Set("scope", orDefault(req.Scopes, DefaultScopes))

	var token tokenResponse
	if err := postForm(ctx, client, "exchange code", endpoint, values, &token); err != nil {
		return "", err
	}
	if token.AccessToken == "" {
		return "", errors.New("token response missing access token")
	}

	return token.AccessToken, nil
}

func VerifyCredentials(ctx context.Context, client *http.Client, baseURL string, accessToken string) error {
	endpoint, err := instanceEndpoint(baseURL, verifyCredentialsPath, nil)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := httpClient(client).Do(req)
	if err != nil {
		return fmt.Errorf("verify credentials: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	return checkStatus("verify credentials", resp)
}

func postForm(ctx context.Context, client *http.Client, op string, endpoint string, values url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("create %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httpClient(client).Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(op, resp); err != nil {
		return err
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

func httpClient(client *http.Client) *http.Client {
	if client != nil {
		return client
	}
	return http.DefaultClient
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
