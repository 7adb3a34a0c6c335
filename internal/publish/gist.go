package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/HartBrook/figstyle/internal/errors"
)

const gistDescription = "Design tokens generated by figstyle"

// GistResult describes a created gist.
type GistResult struct {
	ID     string
	URL    string
	RawURL string
}

type gistFile struct {
	Content string `json:"content"`
}

type createGistRequest struct {
	Description string              `json:"description"`
	Public      bool                `json:"public"`
	Files       map[string]gistFile `json:"files"`
}

type gistResponse struct {
	ID      string `json:"id"`
	HTMLURL string `json:"html_url"`
	Files   map[string]struct {
		RawURL string `json:"raw_url"`
	} `json:"files"`
}

// Gist uploads content as a single-file gist named filename.
func Gist(ctx context.Context, client *Client, filename, content string, public bool) (*GistResult, error) {
	filename = filepath.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." || filename == "/" {
		return nil, errors.PublishFailed(fmt.Errorf("gist filename is required"))
	}
	if strings.TrimSpace(content) == "" {
		return nil, errors.PublishFailed(fmt.Errorf("refusing to publish empty content"))
	}

	body, err := json.Marshal(createGistRequest{
		Description: gistDescription,
		Public:      public,
		Files:       map[string]gistFile{filename: {Content: content}},
	})
	if err != nil {
		return nil, errors.PublishFailed(err)
	}

	var response gistResponse
	if err := client.rest.DoWithContext(ctx, http.MethodPost, "gists", bytes.NewReader(body), &response); err != nil {
		return nil, errors.PublishFailed(err)
	}

	result := &GistResult{ID: response.ID, URL: response.HTMLURL}
	if f, ok := response.Files[filename]; ok {
		result.RawURL = f.RawURL
	}
	return result, nil
}
