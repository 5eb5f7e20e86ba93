package parse

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

var scoreChain = ArrayChain(decodeScores)

// Scores extracts exactly expected similarity scores from raw model output.
// Elements are clamped to [0,1]; non-numeric elements and missing tail
// entries become neutral, extra entries are dropped. Any length or element
// repair marks the result as recovered.
func Scores(raw string, expected int, neutral float64) Result[[]float64] {
	res := scoreChain.Run(raw)
	if !res.OK() {
		return res
	}

	scores, repaired := fitScores(res.Value, expected, neutral)
	res.Value = scores
	if repaired != "" {
		res.Status = StatusRecovered
		res.Strategy += "+" + repaired
	}
	return res
}

// decodeScores accepts a JSON array of numbers (or numeric strings), or an
// object wrapping exactly one such array, e.g. {"scores": [...]}.
func decodeScores(text string) ([]float64, bool) {
	items, ok := decodeArray(text)
	if !ok {
		return nil, false
	}

	scores := make([]float64, len(items))
	for i, item := range items {
		scores[i] = toScore(item)
	}
	return scores, true
}

func toScore(item json.RawMessage) float64 {
	if bytes.Equal(bytes.TrimSpace(item), []byte("null")) {
		return math.NaN()
	}
	var f float64
	if err := json.Unmarshal(item, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(item, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return math.NaN()
}

func fitScores(scores []float64, expected int, neutral float64) ([]float64, string) {
	var notes []string

	cleaned := false
	out := make([]float64, 0, expected)
	for i, s := range scores {
		if i >= expected {
			break
		}
		switch {
		case math.IsNaN(s):
			s = neutral
			cleaned = true
		case s < 0:
			s = 0
			cleaned = true
		case s > 1:
			s = 1
			cleaned = true
		}
		out = append(out, s)
	}
	if cleaned {
		notes = append(notes, "clamp")
	}

	switch {
	case len(scores) < expected:
		for len(out) < expected {
			out = append(out, neutral)
		}
		notes = append(notes, "pad")
	case len(scores) > expected:
		notes = append(notes, "truncate")
	}

	return out, strings.Join(notes, "+")
}

// decodeArray decodes a JSON array, unwrapping a single-array object
func decodeArray(text string) ([]json.RawMessage, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(text), &items); err == nil {
		return items, true
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &wrapper); err != nil {
		return nil, false
	}
	var found []json.RawMessage
	arrays := 0
	for _, v := range wrapper {
		var inner []json.RawMessage
		if err := json.Unmarshal(v, &inner); err == nil {
			found = inner
			arrays++
		}
	}
	if arrays != 1 {
		return nil, false
	}
	return found, true
}
