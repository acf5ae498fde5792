// Package github provides authenticated GitHub API clients.
package github

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bradleyfalzon/ghinstallation/v2"
	gogithub "github.com/google/go-github/v68/github"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
)

// NewClient creates a GitHub API client authenticated as a GitHub App installation.
// The ghinstallation transport automatically handles token renewal.
func NewClient(appID, installationID int64, privateKeyPEM string) (*gogithub.Client, error) {
	transport, err := ghinstallation.New(baseTransport(), appID, installationID, []byte(privateKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("creating github installation transport: %w", err)
	}

	return gogithub.NewClient(&http.Client{Transport: transport}), nil
}

// NewTokenClient creates a GitHub API client authenticated with a static
// token, such as the GITHUB_TOKEN an Actions workflow provides.
func NewTokenClient(token string) (*gogithub.Client, error) {
	if token == "" {
		return nil, errors.New("github token is empty")
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	transport := &oauth2.Transport{Source: ts, Base: baseTransport()}
	return gogithub.NewClient(&http.Client{Transport: transport}), nil
}

// baseTransport traces outbound API calls.
func baseTransport() http.RoundTripper {
	return otelhttp.NewTransport(http.DefaultTransport)
}
