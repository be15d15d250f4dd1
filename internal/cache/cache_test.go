package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// The wrapper must behave as a permanent miss when no Redis connection
// exists; a request must never fail because the cache is gone.
func TestClient_FailSafeWithoutConnection(t *testing.T) {
	ctx := context.Background()

	for name, c := range map[string]*Client{
		"nil client":  nil,
		"zero client": {},
	} {
		t.Run(name, func(t *testing.T) {
			val, err := c.Get(ctx, "dashboard:lab:someone")
			assert.NoError(t, err)
			assert.Nil(t, val)

			assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
			assert.NoError(t, c.SetJSON(ctx, "k", map[string]int{"total": 1}, time.Minute))
			assert.NoError(t, c.Delete(ctx, "k"))
		})
	}
}

func TestClient_SetJSONReportsMarshalErrors(t *testing.T) {
	var c *Client
	err := c.SetJSON(context.Background(), "k", make(chan int), time.Minute)
	assert.Error(t, err)
}
