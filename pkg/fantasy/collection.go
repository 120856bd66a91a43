package fantasy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Collection is the normalized form of the upstream's shape-inconsistent
// containers: sometimes a plain JSON array, sometimes an object keyed by
// numeric-string indices with a sibling "count" field.
type Collection[T any] struct {
	Count int `json:"count" yaml:"count"`
	Items []T `json:"items" yaml:"items"`
}

// UnmarshalCollection decodes either container shape into a Collection,
// preserving index order. Every resource parser goes through this instead of
// sniffing shapes at the call site.
func UnmarshalCollection[T any](data []byte) (*Collection[T], error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &Collection[T]{}, nil
	}

	if trimmed[0] == '[' {
		var items []T

		err := json.Unmarshal(trimmed, &items)
		if err != nil {
			return nil, fmt.Errorf("decoding collection array: %w", err)
		}

		return &Collection[T]{Count: len(items), Items: items}, nil
	}

	var indexed map[string]json.RawMessage

	err := json.Unmarshal(trimmed, &indexed)
	if err != nil {
		return nil, fmt.Errorf("decoding indexed collection: %w", err)
	}

	count := countEntries(indexed)

	items := make([]T, 0, count)

	for i := 0; i < count; i++ {
		raw, ok := indexed[strconv.Itoa(i)]
		if !ok {
			break
		}

		var item T

		err = json.Unmarshal(raw, &item)
		if err != nil {
			return nil, fmt.Errorf("decoding collection item %d: %w", i, err)
		}

		items = append(items, item)
	}

	return &Collection[T]{Count: len(items), Items: items}, nil
}

// countEntries reads the sibling "count" field, falling back to counting
// numeric keys when it is absent.
func countEntries(indexed map[string]json.RawMessage) int {
	if raw, ok := indexed["count"]; ok {
		var count int
		if json.Unmarshal(raw, &count) == nil {
			return count
		}
	}

	count := 0

	for key := range indexed {
		if _, err := strconv.Atoi(key); err == nil {
			count++
		}
	}

	return count
}
