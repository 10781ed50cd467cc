// Package pricestore implements the per-venue concurrent price table. One
// Store exists per venue; it is mutated exclusively by that venue's feed
// connector and read by the comparator.
package pricestore

import "sync"

// Store maps canonical symbols to their most recent validated price. Readers
// never observe a torn value: reads take a shared lock, writes an exclusive
// one.
type Store struct {
	mu     sync.RWMutex
	prices map[string]float64
}

// New creates an empty Store.
func New() *Store {
	return &Store{prices: make(map[string]float64)}
}

// Seed pre-populates the store with the 0 sentinel ("not yet priced") for
// every given symbol. Called once at startup with the tradable intersection.
func (s *Store) Seed(symbols []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sym := range symbols {
		if _, ok := s.prices[sym]; !ok {
			s.prices[sym] = 0
		}
	}
}

// Get returns the last stored price for symbol and whether the symbol is
// present. A returned price of 0 means the symbol is known but not yet priced.
func (s *Store) Get(symbol string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prices[symbol]
	return p, ok
}

// Set stores price as the most recent value for symbol. Validation of the
// price (finite, positive) is the caller's responsibility; the store itself
// only guarantees isolation.
func (s *Store) Set(symbol string, price float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[symbol] = price
}

// Len returns the number of tracked symbols.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.prices)
}
