package figma

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/HartBrook/figstyle/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFileKey(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{name: "file URL", url: "https://www.figma.com/file/ABC123XYZ/Design-Name", want: "ABC123XYZ"},
		{name: "design URL", url: "https://www.figma.com/design/ABC123XYZ/Design-Name", want: "ABC123XYZ"},
		{name: "node-id parameter", url: "https://www.figma.com/design/4gkABR5gEZnIvlCaXmA4KI/File?node-id=11933-305884", want: "4gkABR5gEZnIvlCaXmA4KI"},
		{name: "no www", url: "https://figma.com/file/ABC123XYZ/Design-Name", want: "ABC123XYZ"},
		{name: "http", url: "http://www.figma.com/file/ABC123XYZ/Design-Name", want: "ABC123XYZ"},
		{name: "trailing slash", url: "https://www.figma.com/file/ABC123XYZ/", want: "ABC123XYZ"},
		{name: "query directly after key", url: "https://www.figma.com/file/ABC123XYZ?t=1", want: "ABC123XYZ"},
		{name: "bare key", url: "4gkABR5gEZnIvlCaXmA4KI", want: "4gkABR5gEZnIvlCaXmA4KI"},
		{name: "missing key", url: "https://www.figma.com/file/", wantErr: true},
		{name: "wrong domain", url: "https://www.example.com/file/ABC123XYZ", wantErr: true},
		{name: "wrong path", url: "https://www.figma.com/dashboard/ABC123XYZ", wantErr: true},
		{name: "lookalike domain", url: "https://figma.com.evil.io/file/ABC123XYZ", wantErr: true},
		{name: "empty", url: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractFileKey(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.ErrInvalidFileURL))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func newTestClient(url string) *Client {
	return NewClient("figd_test", WithBaseURL(url), WithBackoff(time.Millisecond))
}

func TestGetFileStyles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files/FILEKEY1234/styles", r.URL.Path)
		assert.Equal(t, "figd_test", r.Header.Get("X-Figma-Token"))
		fmt.Fprint(w, `{"status":200,"error":false,"meta":{"styles":[
			{"key":"k1","file_key":"FILEKEY1234","node_id":"1:2","style_type":"FILL","name":"Primary Blue","description":"Brand"}
		]}}`)
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).GetFileStyles(context.Background(), "FILEKEY1234")

	require.NoError(t, err)
	require.Len(t, resp.Meta.Styles, 1)
	assert.Equal(t, "1:2", resp.Meta.Styles[0].NodeID)
	assert.Equal(t, "FILL", resp.Meta.Styles[0].StyleType)
	assert.Equal(t, "Brand", resp.Meta.Styles[0].Description)
}

func TestGetNodes_Batches(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		ids := strings.Split(r.URL.Query().Get("ids"), ",")
		assert.LessOrEqual(t, len(ids), nodesPerBatch)

		var parts []string
		for _, id := range ids {
			parts = append(parts, fmt.Sprintf(`%q:{"document":{"id":%q}}`, id, id))
		}
		fmt.Fprintf(w, `{"name":"Kit","lastModified":"2025-01-01T00:00:00Z","nodes":{%s}}`, strings.Join(parts, ","))
	}))
	defer server.Close()

	ids := make([]string, 250)
	for i := range ids {
		ids[i] = fmt.Sprintf("1:%d", i)
	}

	resp, err := newTestClient(server.URL).GetNodes(context.Background(), "FILEKEY1234", ids)

	require.NoError(t, err)
	assert.Equal(t, int32(3), requests.Load())
	assert.Len(t, resp.Nodes, 250)
	assert.Equal(t, "Kit", resp.Name)
	assert.Equal(t, "1:249", resp.Nodes["1:249"].Document["id"])
}

func TestGet_RetriesTransientFailures(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch requests.Add(1) {
		case 1:
			w.WriteHeader(http.StatusTooManyRequests)
		case 2:
			w.WriteHeader(http.StatusBadGateway)
		default:
			fmt.Fprint(w, `{"meta":{"styles":[]}}`)
		}
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetFileStyles(context.Background(), "FILEKEY1234")

	require.NoError(t, err)
	assert.Equal(t, int32(3), requests.Load())
}

func TestGet_GivesUpAfterMaxAttempts(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"status":500,"err":"Internal error"}`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetFileStyles(context.Background(), "FILEKEY1234")

	require.Error(t, err)
	assert.Equal(t, int32(maxAttempts), requests.Load())
	assert.True(t, errors.HasCode(err, errors.ErrFigmaFetchFailed))
	assert.Contains(t, err.Error(), "status 500: Internal error")
}

func TestGet_AuthFailureIsNotRetried(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"status":403,"err":"Invalid token"}`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetFileStyles(context.Background(), "FILEKEY1234")

	require.Error(t, err)
	assert.Equal(t, int32(1), requests.Load())
	assert.True(t, errors.HasCode(err, errors.ErrFigmaAuthFailed))
}

func TestGet_NotFoundIsNotRetried(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetFileStyles(context.Background(), "FILEKEY1234")

	require.Error(t, err)
	assert.Equal(t, int32(1), requests.Load())
	assert.True(t, errors.HasCode(err, errors.ErrFigmaFetchFailed))
	assert.Contains(t, err.Error(), "status 404")
}

func TestGet_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient("figd_test", WithBaseURL(server.URL), WithBackoff(time.Hour))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.GetFileStyles(ctx, "FILEKEY1234")

	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}
