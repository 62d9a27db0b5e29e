package snowflake

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewIDGenerator(t *testing.T) {
	g, err := NewIDGenerator(1)
	assert.NoError(t, err)
	assert.NotNil(t, g)

	_, err = NewIDGenerator(-1)
	assert.Error(t, err)

	_, err = NewIDGenerator(1024)
	assert.Error(t, err)
}

func TestNextID_Unique(t *testing.T) {
	g, _ := NewIDGenerator(1)

	seen := make(map[int64]bool)
	for i := 0; i < 10000; i++ {
		id := g.NextID()
		assert.False(t, seen[id], "duplicate ID %d", id)
		seen[id] = true
	}
}

func TestNextID_Monotonic(t *testing.T) {
	g, _ := NewIDGenerator(1)

	prev := g.NextID()
	for i := 0; i < 1000; i++ {
		id := g.NextID()
		assert.Greater(t, id, prev)
		prev = id
	}
}

func TestNextID_Concurrent(t *testing.T) {
	g, _ := NewIDGenerator(1)

	var mu sync.Mutex
	seen := make(map[int64]bool)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				id := g.NextID()
				mu.Lock()
				assert.False(t, seen[id])
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
}

func TestParseID(t *testing.T) {
	g, _ := NewIDGenerator(7)

	before := time.Now().UnixMilli()
	id := g.NextID()
	after := time.Now().UnixMilli()

	ts, nodeID, _ := ParseID(id)
	assert.Equal(t, int64(7), nodeID)
	assert.GreaterOrEqual(t, ts, before)
	assert.LessOrEqual(t, ts, after)
}
