package shell

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/taskdesk/internal/deployment/mocks"
)

func TestHandlePopulateOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	first := mocks.NewMockDeployment(ctrl)
	second := mocks.NewMockDeployment(ctrl)

	h := NewHandle()
	_, ok := h.Get()
	assert.False(t, ok)

	_, err := h.Require()
	require.Error(t, err)
	assert.True(t, errors.Is(err, &CommandError{Kind: KindNotInitialized}))

	assert.False(t, h.Populate(nil))
	assert.True(t, h.Populate(first))
	assert.False(t, h.Populate(second))

	d, err := h.Require()
	require.NoError(t, err)
	assert.Same(t, first, d)
}

func TestHandleConcurrentPopulate(t *testing.T) {
	ctrl := gomock.NewController(t)

	h := NewHandle()
	const n = 16
	candidates := make([]*mocks.MockDeployment, n)
	for i := range candidates {
		candidates[i] = mocks.NewMockDeployment(ctrl)
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if h.Populate(candidates[i]) {
				mu.Lock()
				wins++
				mu.Unlock()
			}
			_, _ = h.Get()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.True(t, h.IsInitialized())
	<-h.Ready()
}

func TestConfigBlob(t *testing.T) {
	var c ConfigBlob
	assert.JSONEq(t, `{}`, string(c.Get()))

	require.NoError(t, c.Set(json.RawMessage(` {"a": 1} `)))
	assert.Equal(t, `{"a":1}`, string(c.Get()))

	got := c.Get()
	got[1] = 'X'
	assert.Equal(t, `{"a":1}`, string(c.Get()), "Get must return a copy")

	err := c.Set(json.RawMessage(`{"a":`))
	assert.Equal(t, KindInvalidRequest, KindOf(err))
	assert.Equal(t, `{"a":1}`, string(c.Get()), "rejected writes leave the blob unchanged")

	require.NoError(t, c.Set(json.RawMessage(`null`)))
	assert.JSONEq(t, `{}`, string(c.Get()))

	require.NoError(t, c.Set(json.RawMessage(`[1,2,3]`)))
	assert.Equal(t, `[1,2,3]`, string(c.Get()))
}

func TestCommandErrorShape(t *testing.T) {
	b, err := json.Marshal(NotFound("Project not found: %s", "abc"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"not_found","message":"Project not found: abc"}`, string(b))

	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
	assert.Equal(t, "not_initialized: Deployment not initialized", NotInitialized().Error())
}
