package fundraise

import (
	"sort"

	"github.com/holiman/uint256"
)

// CampaignBalanceEntry is the raised amount attributed to a campaign id.
type CampaignBalanceEntry struct {
	CampaignID uint64 `json:"campaignId"`
	Amount     uint64 `json:"amount"`
}

// CampaignBalances is a fixed-capacity list kept strictly sorted by campaign
// id so closures can locate entries by binary search.
type CampaignBalances struct {
	Entries [MaxCampaignBalances]CampaignBalanceEntry
	Count   uint8
}

// Len returns the number of occupied entries.
func (c *CampaignBalances) Len() int {
	return int(c.Count)
}

// List returns the occupied entries in ascending campaign id order.
func (c *CampaignBalances) List() []CampaignBalanceEntry {
	out := make([]CampaignBalanceEntry, c.Count)
	copy(out, c.Entries[:c.Count])
	return out
}

func (c *CampaignBalances) search(id uint64) (int, bool) {
	n := int(c.Count)
	i := sort.Search(n, func(i int) bool { return c.Entries[i].CampaignID >= id })
	return i, i < n && c.Entries[i].CampaignID == id
}

// Get returns the entry for id.
func (c *CampaignBalances) Get(id uint64) (CampaignBalanceEntry, bool) {
	i, ok := c.search(id)
	if !ok {
		return CampaignBalanceEntry{}, false
	}
	return c.Entries[i], true
}

// Set overwrites the amount of an existing entry.
func (c *CampaignBalances) Set(id, amount uint64) bool {
	i, ok := c.search(id)
	if !ok {
		return false
	}
	c.Entries[i].Amount = amount
	return true
}

// Insert adds (id, amount) at its sorted position when no entry for id exists.
// An existing entry is left untouched.
func (c *CampaignBalances) Insert(id, amount uint64) (bool, error) {
	i, ok := c.search(id)
	if ok {
		return false, nil
	}
	if int(c.Count) >= MaxCampaignBalances {
		return false, ErrCampaignBalancesFull
	}
	copy(c.Entries[i+1:c.Count+1], c.Entries[i:c.Count])
	c.Entries[i] = CampaignBalanceEntry{CampaignID: id, Amount: amount}
	c.Count++
	return true, nil
}

// CanInsert reports whether Insert(id, ...) would succeed.
func (c *CampaignBalances) CanInsert(id uint64) bool {
	if _, ok := c.search(id); ok {
		return true
	}
	return int(c.Count) < MaxCampaignBalances
}

// Remove deletes the entry for id, keeping the remaining entries sorted.
func (c *CampaignBalances) Remove(id uint64) (CampaignBalanceEntry, bool) {
	i, ok := c.search(id)
	if !ok {
		return CampaignBalanceEntry{}, false
	}
	removed := c.Entries[i]
	copy(c.Entries[i:c.Count-1], c.Entries[i+1:c.Count])
	c.Entries[c.Count-1] = CampaignBalanceEntry{}
	c.Count--
	return removed, true
}

// Redistribute spreads amount over the remaining entries in proportion to
// their balances: each entry gains floor(amount * entry / total). The sums and
// products are computed in 256 bits. Nothing changes when an error is returned.
func (c *CampaignBalances) Redistribute(amount uint64) (uint64, error) {
	if c.Count == 0 || amount == 0 {
		return 0, nil
	}
	total := new(uint256.Int)
	for i := 0; i < int(c.Count); i++ {
		total.Add(total, uint256.NewInt(c.Entries[i].Amount))
	}
	if total.IsZero() {
		return 0, ErrEmptyRedistributionBase
	}
	redistribute := uint256.NewInt(amount)
	next := c.Entries
	var credited uint64
	for i := 0; i < int(c.Count); i++ {
		share := new(uint256.Int).Mul(redistribute, uint256.NewInt(next[i].Amount))
		share.Div(share, total)
		updated := new(uint256.Int).Add(share, uint256.NewInt(next[i].Amount))
		if !updated.IsUint64() {
			return 0, ErrArithmeticOverflow
		}
		next[i].Amount = updated.Uint64()
		credited += share.Uint64()
	}
	c.Entries = next
	return credited, nil
}
