package engine

// TrailingStore tracks the best-ever profit ratio per open symbol. The
// engine goroutine is its only user; it is not safe for concurrent access
// and the watchdog must never touch it.
type TrailingStore struct {
	peaks map[string]float64
}

func NewTrailingStore() *TrailingStore {
	return &TrailingStore{
		peaks: make(map[string]float64),
	}
}

// Observe records profitPct for symbol and returns the high-water mark. The
// first observation after a create/evict/reset seeds the mark; later ones
// only ever raise it.
func (s *TrailingStore) Observe(symbol string, profitPct float64) float64 {
	peak, ok := s.peaks[symbol]
	if !ok || profitPct > peak {
		peak = profitPct
		s.peaks[symbol] = peak
	}
	return peak
}

// Peak returns the current high-water mark for symbol, if any.
func (s *TrailingStore) Peak(symbol string) (float64, bool) {
	peak, ok := s.peaks[symbol]
	return peak, ok
}

// Symbols returns every symbol currently holding a mark.
func (s *TrailingStore) Symbols() []string {
	symbols := make([]string, 0, len(s.peaks))
	for symbol := range s.peaks {
		symbols = append(symbols, symbol)
	}
	return symbols
}

// Evict drops the entry for a symbol whose position is confirmed closed.
func (s *TrailingStore) Evict(symbol string) {
	delete(s.peaks, symbol)
}

// ResetAll clears every mark. Called when a cycle confirms the account is
// flat, so marks from before a restart or a full close cannot survive.
func (s *TrailingStore) ResetAll() {
	clear(s.peaks)
}

func (s *TrailingStore) Len() int {
	return len(s.peaks)
}
