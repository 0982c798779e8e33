// Package selection models the dropdown-style option lists forms are built
// from: each option pairs a display label and a stable key with the value it
// stands for.
package selection

// Item is one selectable option.
type Item[T any] struct {
	Label string `json:"label"`
	Key   string `json:"key"`
	Value T      `json:"value"`
}

// List is an ordered set of options with unique keys.
type List[T any] []Item[T]

// ByKey finds the option with the given key.
func (l List[T]) ByKey(key string) (Item[T], bool) {
	for _, item := range l {
		if item.Key == key {
			return item, true
		}
	}
	var zero Item[T]
	return zero, false
}

// Keys returns the option keys in list order.
func (l List[T]) Keys() []string {
	keys := make([]string, 0, len(l))
	for _, item := range l {
		keys = append(keys, item.Key)
	}
	return keys
}

// Upsert replaces the option sharing the item's key, or appends the item when
// the key is new. Returns a fresh list; the receiver is left alone.
func Upsert[T any](l List[T], item Item[T]) List[T] {
	out := make(List[T], len(l))
	copy(out, l)
	for i, existing := range out {
		if existing.Key == item.Key {
			out[i] = item
			return out
		}
	}
	return append(out, item)
}
