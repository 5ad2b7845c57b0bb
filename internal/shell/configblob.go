package shell

import (
	"bytes"
	"encoding/json"
	"sync"
)

var emptyObject = json.RawMessage(`{}`)

// ConfigBlob holds the window's settings document in memory. No schema is
// enforced and nothing is persisted across restarts.
type ConfigBlob struct {
	mu  sync.Mutex
	val json.RawMessage
}

// Get returns a copy of the stored document, or {} before the first write.
func (c *ConfigBlob) Get() json.RawMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.val == nil {
		return append(json.RawMessage(nil), emptyObject...)
	}
	return append(json.RawMessage(nil), c.val...)
}

// Set replaces the stored document. An empty or null value resets it to {}.
func (c *ConfigBlob) Set(v json.RawMessage) error {
	trimmed := bytes.TrimSpace(v)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		c.mu.Lock()
		c.val = nil
		c.mu.Unlock()
		return nil
	}
	if !json.Valid(trimmed) {
		return InvalidRequest("config is not valid JSON")
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return InvalidRequest("config is not valid JSON: %v", err)
	}

	c.mu.Lock()
	c.val = buf.Bytes()
	c.mu.Unlock()
	return nil
}
