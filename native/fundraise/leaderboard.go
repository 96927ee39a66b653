package fundraise

import "math"

// LeaderboardEntry is one (address, cumulative amount) pair.
type LeaderboardEntry struct {
	Address [20]byte `json:"address"`
	Amount  uint64   `json:"amount"`
}

// Leaderboard is the fixed-capacity list of largest contributors. It is an
// approximate top-K: the scan stops at the contributor's own entry, so the
// minimum it tracks only covers the entries visited before that point.
type Leaderboard struct {
	Entries [MaxLeaderboardEntries]LeaderboardEntry
	Count   uint8
}

// Len returns the number of occupied entries.
func (l *Leaderboard) Len() int {
	return int(l.Count)
}

// List returns the occupied entries in list order.
func (l *Leaderboard) List() []LeaderboardEntry {
	out := make([]LeaderboardEntry, l.Count)
	copy(out, l.Entries[:l.Count])
	return out
}

// Clone returns a copy of the leaderboard.
func (l *Leaderboard) Clone() *Leaderboard {
	if l == nil {
		return nil
	}
	clone := *l
	return &clone
}

// Update applies a contributor's new cumulative amount.
//
// The scan tracks the minimum entry and stops at the first entry matching
// addr, which is updated in place. Without a match the entry is appended when
// there is room, or replaces the tracked minimum when that minimum is strictly
// below amount. Returns true when the board changed.
func (l *Leaderboard) Update(addr [20]byte, amount uint64) bool {
	minAmount, minIndex := uint64(math.MaxUint64), -1
	for i := 0; i < int(l.Count); i++ {
		entry := &l.Entries[i]
		if entry.Amount < minAmount {
			minAmount, minIndex = entry.Amount, i
		}
		if entry.Address == addr {
			changed := entry.Amount != amount
			entry.Amount = amount
			return changed
		}
	}
	if int(l.Count) < MaxLeaderboardEntries {
		l.Entries[l.Count] = LeaderboardEntry{Address: addr, Amount: amount}
		l.Count++
		return true
	}
	if minIndex >= 0 && minAmount < amount {
		l.Entries[minIndex] = LeaderboardEntry{Address: addr, Amount: amount}
		return true
	}
	return false
}

// Drain removes every entry from the front of the list, in order, and returns them.
func (l *Leaderboard) Drain() []LeaderboardEntry {
	drained := l.List()
	l.Entries = [MaxLeaderboardEntries]LeaderboardEntry{}
	l.Count = 0
	return drained
}
