package core

import "encoding/json"

// Optional is a field of a partial update. Set reports whether the field was provided at all,
// which lets a nullable column be cleared by providing a null Value.
type Optional[T any] struct {
	Set   bool
	Value T
}

func Set[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Or returns the optional value when set and def otherwise.
func (o Optional[T]) Or(def T) T {
	if o.Set {
		return o.Value
	}
	return def
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value)
}
