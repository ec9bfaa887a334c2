package ai

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type staticProvider struct{ reply string }

func (p *staticProvider) Predict(ctx context.Context, message string) (string, error) {
	return p.reply, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRegistryReturnsSameHandle(t *testing.T) {
	reg := NewRegistry(&staticProvider{reply: "hi"}, testLogger())

	h1 := reg.GetOrCreate(42)
	h2 := reg.GetOrCreate(42)
	assert.Same(t, h1, h2)
	assert.Equal(t, int64(42), h1.TenantID)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryIsolatesTenants(t *testing.T) {
	reg := NewRegistry(&staticProvider{reply: "hi"}, testLogger())

	h1 := reg.GetOrCreate(1)
	h2 := reg.GetOrCreate(2)
	assert.NotSame(t, h1, h2)
	assert.Equal(t, 2, reg.Len())
}

func TestRegistryConcurrentAccess(t *testing.T) {
	reg := NewRegistry(&staticProvider{reply: "hi"}, testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			reg.GetOrCreate(id % 5)
		}(int64(i))
	}
	wg.Wait()

	assert.Equal(t, 5, reg.Len())
}

func TestHandlePredictDelegates(t *testing.T) {
	reg := NewRegistry(&staticProvider{reply: "canned"}, testLogger())

	got, err := reg.GetOrCreate(7).Predict(context.Background(), "hello")
	assert.NoError(t, err)
	assert.Equal(t, "canned", got)
}
