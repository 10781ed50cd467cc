package pricestore

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedInsertsSentinel(t *testing.T) {
	s := New()
	s.Seed([]string{"BTCUSDT", "ETHUSDT"})

	p, ok := s.Get("BTCUSDT")
	require.True(t, ok)
	assert.Equal(t, 0.0, p)
	assert.Equal(t, 2, s.Len())
}

func TestSeedDoesNotOverwriteExisting(t *testing.T) {
	s := New()
	s.Set("BTCUSDT", 43000.5)
	s.Seed([]string{"BTCUSDT", "ETHUSDT"})

	p, ok := s.Get("BTCUSDT")
	require.True(t, ok)
	assert.Equal(t, 43000.5, p)
}

func TestGetAbsentSymbol(t *testing.T) {
	s := New()
	_, ok := s.Get("DOGEUSDT")
	assert.False(t, ok)
}

func TestSetThenGet(t *testing.T) {
	s := New()
	s.Set("AXSUSDT", 7.25)
	s.Set("AXSUSDT", 7.30)

	p, ok := s.Get("AXSUSDT")
	require.True(t, ok)
	assert.Equal(t, 7.30, p)
}

func TestConcurrentReadersAndWriter(t *testing.T) {
	s := New()
	s.Seed([]string{"BTCUSDT"})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				if p, ok := s.Get("BTCUSDT"); ok {
					// The reader must only ever see a value some writer
					// actually stored.
					assert.True(t, p == 0 || p == 100)
				}
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 1000; j++ {
			s.Set("BTCUSDT", 100)
		}
	}()
	wg.Wait()
}
