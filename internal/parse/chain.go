package parse

// Strategy is one pure recovery step: text in, value out if it worked
type Strategy[T any] struct {
	Name string
	Try  func(text string) (T, bool)
}

// Chain runs strategies in order and keeps the first success
type Chain[T any] []Strategy[T]

// Run strips code fences, then tries each strategy in order.
// The first strategy counts as a clean parse; later ones as recoveries.
func (c Chain[T]) Run(raw string) Result[T] {
	text := StripFences(raw)
	if text == "" {
		return failed[T]("empty input")
	}

	for i, s := range c {
		v, ok := s.Try(text)
		if !ok {
			continue
		}
		if i == 0 {
			return parsed(v, s.Name)
		}
		return recovered(v, s.Name)
	}
	return failed[T]("all extraction strategies failed")
}

// ArrayChain builds the standard chain for JSON arrays around a decoder:
// direct decode, first balanced [...] span, truncation repair, separator cleanup.
func ArrayChain[T any](decode func(string) (T, bool)) Chain[T] {
	return Chain[T]{
		{Name: "direct", Try: decode},
		{Name: "array_span", Try: func(text string) (T, bool) {
			return firstDecoded(Spans(text, '['), decode)
		}},
		{Name: "close_truncated", Try: func(text string) (T, bool) {
			fixed, ok := CloseTruncated(text)
			if !ok {
				var zero T
				return zero, false
			}
			return decode(fixed)
		}},
		{Name: "normalize_separators", Try: func(text string) (T, bool) {
			normalized := NormalizeSeparators(text)
			if v, ok := decode(normalized); ok {
				return v, true
			}
			if v, ok := firstDecoded(Spans(normalized, '['), decode); ok {
				return v, true
			}
			if fixed, ok := CloseTruncated(normalized); ok {
				return decode(NormalizeSeparators(fixed))
			}
			var zero T
			return zero, false
		}},
	}
}

func firstDecoded[T any](candidates []string, decode func(string) (T, bool)) (T, bool) {
	for _, c := range candidates {
		if v, ok := decode(c); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
