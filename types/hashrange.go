package types

import "fmt"

// HashRange is a half-open [Low, High) interval on the partitioning hash ring.
//
// Low > High wraps around the end of the ring, Low == High covers the whole
// ring.
type HashRange struct {
	Low  int64
	High int64
}

func NewHashRange(low, high int64) HashRange {
	return HashRange{Low: low, High: high}
}

// Contains reports whether the hash falls inside the range
func (r HashRange) Contains(hash int64) bool {
	switch {
	case r.Low < r.High:
		return hash >= r.Low && hash < r.High
	case r.Low > r.High:
		return hash >= r.Low || hash < r.High
	default:
		return true
	}
}

// Wraps reports whether the range crosses the end of the ring
func (r HashRange) Wraps() bool {
	return r.Low >= r.High
}

func (r HashRange) String() string {
	return fmt.Sprintf("[%d, %d)", r.Low, r.High)
}
