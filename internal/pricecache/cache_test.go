package pricecache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agri-assist-api/internal/model"
)

func quoteFor(crop string, price int) model.PriceQuote {
	return model.PriceQuote{
		Success: true,
		Data: model.PriceData{
			CropName:    crop,
			MandiPrices: []model.MandiPrice{{MandiName: "Test Mandi", PricePerQuintal: price}},
		},
	}
}

func TestKeyNormalization(t *testing.T) {
	assert.Equal(t, Key("hubli", "wheat"), Key("  Hubli ", " WHEAT"))
	assert.NotEqual(t, Key("hubli", "wheat"), Key("hubli", "rice"))
}

func TestCacheGetPut(t *testing.T) {
	base := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

	t.Run("hit within ttl returns stored payload", func(t *testing.T) {
		c := New(3 * time.Hour)
		now := base
		c.SetClock(func() time.Time { return now })

		c.Put(Key("Hubli", "Wheat"), quoteFor("wheat", 2100))

		now = base.Add(2*time.Hour + 59*time.Minute)
		got, ok := c.Get(Key("hubli", "wheat"))
		require.True(t, ok)
		assert.Equal(t, 2100, got.Data.MandiPrices[0].PricePerQuintal)
	})

	t.Run("entry aged exactly ttl is stale", func(t *testing.T) {
		c := New(3 * time.Hour)
		now := base
		c.SetClock(func() time.Time { return now })

		c.Put(Key("hubli", "wheat"), quoteFor("wheat", 2100))

		now = base.Add(3 * time.Hour)
		_, ok := c.Get(Key("hubli", "wheat"))
		assert.False(t, ok)
	})

	t.Run("put replaces rather than appends", func(t *testing.T) {
		c := New(3 * time.Hour)
		now := base
		c.SetClock(func() time.Time { return now })

		c.Put(Key("hubli", "wheat"), quoteFor("wheat", 2100))
		c.Put(Key("hubli", "wheat"), quoteFor("wheat", 2250))

		got, ok := c.Get(Key("hubli", "wheat"))
		require.True(t, ok)
		assert.Equal(t, 2250, got.Data.MandiPrices[0].PricePerQuintal)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("miss on absent key", func(t *testing.T) {
		c := New(3 * time.Hour)
		_, ok := c.Get(Key("nowhere", "nothing"))
		assert.False(t, ok)
	})

	t.Run("invalidate drops a fresh entry", func(t *testing.T) {
		c := New(3 * time.Hour)
		c.Put(Key("hubli", "wheat"), quoteFor("wheat", 2100))

		c.Invalidate(Key("hubli", "wheat"))

		_, ok := c.Get(Key("hubli", "wheat"))
		assert.False(t, ok)
		assert.Equal(t, 0, c.Len())
	})
}
