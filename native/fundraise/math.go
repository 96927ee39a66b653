package fundraise

import "math"

// commissionFor returns floor(amount/100) * rate. rate is at most 100 so the
// product never exceeds amount.
func commissionFor(amount, rate uint64) uint64 {
	return (amount / 100) * rate
}

func checkedAdd(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, ErrArithmeticOverflow
	}
	return a + b, nil
}

func checkedMul(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > math.MaxUint64/b {
		return 0, ErrArithmeticOverflow
	}
	return a * b, nil
}

func saturatingSub(a, b uint64) uint64 {
	if b >= a {
		return 0
	}
	return a - b
}

func addSeconds(now, period int64) int64 {
	if period > 0 && now > math.MaxInt64-period {
		return math.MaxInt64
	}
	return now + period
}
