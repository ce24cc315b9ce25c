package payment

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// The composite reference joins order ids with a character that can never
// occur inside a positive integer, so splitting is unambiguous. Order ids
// are used, never order numbers, which may contain arbitrary characters.
const refSeparator = "-"

// BuildGroupReference encodes an order group as the gateway transaction
// reference. Ids are sorted ascending so the reference is stable no matter
// what order the group was loaded in.
func BuildGroupReference(orderIDs []uint) string {
	ids := make([]uint, len(orderIDs))
	copy(ids, orderIDs)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, refSeparator)
}

// ParseGroupReference recovers the exact ordered id set from a composite
// reference echoed back by the gateway. Every token must be a positive
// integer; anything else fails parsing as a whole.
func ParseGroupReference(ref string) ([]uint, error) {
	if ref == "" {
		return nil, ErrBadReference
	}

	tokens := strings.Split(ref, refSeparator)
	ids := make([]uint, 0, len(tokens))
	for _, tok := range tokens {
		id, err := strconv.ParseUint(tok, 10, 64)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("%w: %q", ErrBadReference, tok)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
