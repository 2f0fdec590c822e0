package codec

import "encoding/json"

// JSON uses the record's json tags (kinFit_m, SVfit_p4, ...). Slowest of
// the codecs; handy for fixtures and debugging dumps.
type JSON[V any] struct{}

func (JSON[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }
func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}
