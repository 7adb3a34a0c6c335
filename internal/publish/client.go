// Package publish uploads generated artifacts to GitHub gists.
package publish

import (
	"github.com/cli/go-gh/v2/pkg/api"
)

// Client wraps the GitHub API for gist uploads.
type Client struct {
	rest *api.RESTClient
}

// NewClient creates a GitHub client from the resolved auth chain.
func NewClient() (*Client, error) {
	token, err := GetToken()
	if err != nil {
		return nil, err
	}
	return NewClientWithToken(token)
}

// NewClientWithToken creates a GitHub client with explicit token.
func NewClientWithToken(token string) (*Client, error) {
	return NewClientWithOptions(api.ClientOptions{
		AuthToken: token,
	})
}

// NewClientWithOptions creates a GitHub client from go-gh options.
func NewClientWithOptions(opts api.ClientOptions) (*Client, error) {
	client, err := api.NewRESTClient(opts)
	if err != nil {
		return nil, err
	}
	return &Client{rest: client}, nil
}
