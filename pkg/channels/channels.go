// Package channels builds the ordered, collision-free list of channel names
// of an acquisition.
package channels

import (
	"fmt"
	"strconv"
)

// DefaultRepeatSuffix marks the second acquisition of the same nominal
// channel, e.g. a phase image taken before and after the fluorescence ones
const DefaultRepeatSuffix = "_after"

// Lookup returns the raw name of the plane at index i
type Lookup func(i int) (string, error)

// Name builds the channel list for count planes.
//
// A name already present in the list is renamed to name+suffix. Later
// repeats get a number appended (name+suffix+"2", name+suffix+"3", ...),
// skipping any candidate that is already taken, so the result never holds
// duplicates.
func Name(count int, lookup Lookup, suffix string) ([]string, error) {
	if suffix == "" {
		suffix = DefaultRepeatSuffix
	}

	names := make([]string, 0, count)
	seen := make(map[string]bool, count)

	for i := 0; i < count; i++ {
		raw, err := lookup(i)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", i, err)
		}

		name := raw
		for n := 1; seen[name]; n++ {
			name = raw + suffix
			if n > 1 {
				name += strconv.Itoa(n)
			}
		}

		seen[name] = true
		names = append(names, name)
	}

	return names, nil
}

// FromSlice adapts a fixed list of raw names to a Lookup
func FromSlice(raw []string) Lookup {
	return func(i int) (string, error) {
		if i < 0 || i >= len(raw) {
			return "", fmt.Errorf("no plane %d (have %d)", i, len(raw))
		}
		return raw[i], nil
	}
}
