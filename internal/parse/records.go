package parse

import (
	"encoding/json"
)

// Records extracts an array of objects from raw model output.
// Objects that fail to decode into T, or that keep rejects, are discarded.
// When no array can be recovered, each balanced {...} object in the text is
// decoded on its own as a last resort.
func Records[T any](raw string, keep func(T) bool) Result[[]T] {
	decode := func(text string) ([]T, bool) {
		items, ok := decodeArray(text)
		if !ok {
			return nil, false
		}
		return decodeRecords(items, keep), true
	}

	chain := append(ArrayChain(decode), Strategy[[]T]{
		Name: "salvage_objects",
		Try: func(text string) ([]T, bool) {
			var items []json.RawMessage
			for _, span := range Spans(text, '{') {
				items = append(items, json.RawMessage(span))
			}
			records := decodeRecords(items, keep)
			return records, len(records) > 0
		},
	})

	res := chain.Run(raw)
	if res.OK() && res.Value == nil {
		res.Value = []T{}
	}
	return res
}

func decodeRecords[T any](items []json.RawMessage, keep func(T) bool) []T {
	var out []T
	for _, item := range items {
		var rec T
		if err := json.Unmarshal(item, &rec); err != nil {
			continue
		}
		if keep != nil && !keep(rec) {
			continue
		}
		out = append(out, rec)
	}
	return out
}
