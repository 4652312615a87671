package challenge

import (
	"fmt"
	"strconv"
	"strings"
)

// Challenge keys travel through browser sessions as "ch{id}" strings.
// The format is a compatibility contract with sessions written before
// this service existed, so it is never changed.

// Key returns the session key for a challenge id, e.g. "ch3".
func Key(id int) string {
	return fmt.Sprintf("ch%d", id)
}

// ParseKey extracts the challenge id from a "ch{id}" key.
func ParseKey(key string) (int, error) {
	raw := strings.TrimPrefix(key, "ch")
	if raw == key || raw == "" {
		return 0, fmt.Errorf("malformed challenge key %q", key)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("malformed challenge key %q", key)
	}
	return id, nil
}
