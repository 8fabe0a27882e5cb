package mastodon

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAppAndExchangeCode(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc(appsPath, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "PocketBot", r.Form.Get("client_name"))
		assert.Equal(t, OutOfBandRedirectURI, r.Form.Get("redirect_uris"))
		assert.Equal(t, DefaultScopes, r.Form.Get("scopes"))
		_, _ = fmt.Fprint(w, `{"client_id":"cid","client_secret":"secret","redirect_uri":"urn:ietf:wg:oauth:2.0:oob"}`)
	})
	mux.HandleFunc(tokenPath, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.Form.Get("grant_type"))
		assert.Equal(t, "cid", r.Form.Get("client_id"))
		assert.Equal(t, "secret", r.Form.Get("client_secret"))
		assert.Equal(t, "the-code", r.Form.Get("code"))
		_, _ = fmt.Fprint(w, `{"access_token":"bot-token","token_type":"Bearer"}`)
	})
	mux.HandleFunc(verifyCredentialsPath, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer bot-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = fmt.Fprint(w, `{"name":"PocketBot"}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	ctx := context.Background()
	app, err := RegisterApp(ctx, server.Client(), AppRegistration{BaseURL: server.URL, ClientName: "PocketBot", Website: server.URL})
	require.NoError(t, err)
	assert.Equal(t, "cid", app.ClientID)

	authURL, err := AuthorizeURL(server.URL, app, "")
	require.NoError(t, err)
	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	assert.Equal(t, authorizePath, parsed.Path)
	assert.Equal(t, "cid", parsed.Query().Get("client_id"))
	assert.Equal(t, "code", parsed.Query().Get("response_type"))

	token, err := ExchangeCode(ctx, server.Client(), TokenExchangeRequest{BaseURL: server.URL, App: app, Code: "the-code"})
	require.NoError(t, err)
	assert.Equal(t, "bot-token", token)

	require.NoError(t, VerifyCredentials(ctx, server.Client(), server.URL, token))
	assert.Error(t, VerifyCredentials(ctx, server.Client(), server.URL, "wrong"))
}

func TestExchangeCodeRequiresCode(t *testing.T) {
	t.Parallel()

	_, err := ExchangeCode(context.Background(), nil, TokenExchangeRequest{BaseURL: "https://example.com"})
	assert.ErrorContains(t, err, "authorization code is required")
}
