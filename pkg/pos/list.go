package pos

import (
	"bytes"
	"encoding/json"
)

// List is a collection that Lightspeed encodes as a bare object when it has
// one element and as an array otherwise. It always encodes as an array.
type List[T any] []T

// UnmarshalJSON implements json.Unmarshaler for both shapes.
func (l *List[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
		*l = nil
		return nil
	case trimmed[0] == '[':
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		var item T
		if err := json.Unmarshal(trimmed, &item); err != nil {
			return err
		}
		*l = List[T]{item}
		return nil
	}
}
