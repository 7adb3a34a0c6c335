package generate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"

	"github.com/HartBrook/figstyle/internal/prompt"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemoSize is the number of responses a Memo keeps.
const DefaultMemoSize = 256

// Memo wraps a Generator and remembers successful responses by request, so
// retrying a run does not resend chunks that already succeeded. Failed
// calls are not remembered.
type Memo struct {
	next  Generator
	cache *lru.Cache[string, string]
}

// NewMemo wraps next with a response cache of the given size.
func NewMemo(next Generator, size int) (*Memo, error) {
	if size <= 0 {
		size = DefaultMemoSize
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &Memo{next: next, cache: cache}, nil
}

// Name returns the wrapped generator's name.
func (m *Memo) Name() string {
	return m.next.Name()
}

// Len returns the number of remembered responses.
func (m *Memo) Len() int {
	return m.cache.Len()
}

// GenerateText returns the remembered response for req or calls through.
func (m *Memo) GenerateText(ctx context.Context, req prompt.Request) (string, error) {
	key, err := m.key("text", req)
	if err != nil {
		return "", err
	}
	if text, ok := m.cache.Get(key); ok {
		slog.Debug("reusing generated chunk", "generator", m.Name(), "chunk", req.ChunkIndex)
		return text, nil
	}

	text, err := m.next.GenerateText(ctx, req)
	if err != nil {
		return "", err
	}
	m.cache.Add(key, text)
	return text, nil
}

// GenerateStructured returns the remembered object for req or calls
// through. Each call returns a fresh copy.
func (m *Memo) GenerateStructured(ctx context.Context, req prompt.Request) (map[string]any, error) {
	key, err := m.key("structured", req)
	if err != nil {
		return nil, err
	}
	if data, ok := m.cache.Get(key); ok {
		var obj map[string]any
		if err := json.Unmarshal([]byte(data), &obj); err == nil {
			return obj, nil
		}
		m.cache.Remove(key)
	}

	obj, err := m.next.GenerateStructured(ctx, req)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(obj); err == nil {
		m.cache.Add(key, string(data))
	}
	return obj, nil
}

func (m *Memo) key(kind string, req prompt.Request) (string, error) {
	data, err := encodeRequest(m.next.Name(), kind, req)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
