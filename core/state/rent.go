package state

import "math"

// AccountStorageOverhead is the fixed per-record metadata charged on top of the
// record's own size.
const AccountStorageOverhead uint64 = 128

// Rent describes the reserve floor an address must keep for its record to
// stay allocated.
type Rent struct {
	LamportsPerByteYear uint64 `toml:"LamportsPerByteYear" yaml:"lamportsPerByteYear"`
	ExemptionYears      uint64 `toml:"ExemptionYears" yaml:"exemptionYears"`
}

// DefaultRent is the reserve schedule used when none is configured.
func DefaultRent() Rent {
	return Rent{LamportsPerByteYear: 3480, ExemptionYears: 2}
}

// MinimumBalance returns the reserve floor for a record of size bytes. The
// result saturates at MaxUint64 instead of wrapping.
func (r Rent) MinimumBalance(size uint64) uint64 {
	total := size + AccountStorageOverhead
	if total < size {
		return math.MaxUint64
	}
	perYear := total * r.LamportsPerByteYear
	if r.LamportsPerByteYear != 0 && perYear/r.LamportsPerByteYear != total {
		return math.MaxUint64
	}
	floor := perYear * r.ExemptionYears
	if r.ExemptionYears != 0 && floor/r.ExemptionYears != perYear {
		return math.MaxUint64
	}
	return floor
}
