package elastic

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dogechain-lab/elasticdb/types"
)

var (
	ErrPredicateCount  = errors.New("expects exactly one hash range predicate")
	ErrInvalidRange    = errors.New("hash range predicate must be <low>:<high>")
	ErrInvalidRangeEnd = errors.New("hash range bound is not a signed 64-bit integer")
)

// ParseHashRange parses the single "<low>:<high>" predicate of an index read
// stream. The bounds are not checked against each other.
func ParseHashRange(predicates []string) (types.HashRange, error) {
	if len(predicates) != 1 {
		return types.HashRange{}, fmt.Errorf("%w: got %d", ErrPredicateCount, len(predicates))
	}

	parts := strings.Split(predicates[0], ":")
	if len(parts) != 2 {
		return types.HashRange{}, fmt.Errorf("%w: %q", ErrInvalidRange, predicates[0])
	}

	low, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return types.HashRange{}, fmt.Errorf("%w: low %q", ErrInvalidRangeEnd, parts[0])
	}

	high, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return types.HashRange{}, fmt.Errorf("%w: high %q", ErrInvalidRangeEnd, parts[1])
	}

	return types.NewHashRange(low, high), nil
}

// FormatHashRange is the inverse of ParseHashRange
func FormatHashRange(r types.HashRange) string {
	return strconv.FormatInt(r.Low, 10) + ":" + strconv.FormatInt(r.High, 10)
}
