package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSizeBucket parses a cluster bucket key such as "5" or "8+"
func ParseSizeBucket(key string) (SizeBucket, error) {
	raw := strings.TrimSpace(key)
	open := strings.HasSuffix(raw, "+")
	raw = strings.TrimSuffix(raw, "+")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return SizeBucket{}, fmt.Errorf("%w: bad cluster bucket %q", ErrInvalidConfig, key)
	}
	return SizeBucket{Size: n, Open: open}, nil
}
