package parse

// Status classifies how a value was obtained
type Status int

const (
	StatusParsed    Status = iota // Decoded on the first attempt
	StatusRecovered               // Decoded after a repair strategy
	StatusFailed                  // Every strategy failed
)

func (s Status) String() string {
	switch s {
	case StatusParsed:
		return "parsed"
	case StatusRecovered:
		return "recovered"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the tagged outcome of a parse: Parsed(value), Recovered(value, strategy) or Failed(reason)
type Result[T any] struct {
	Value    T
	Status   Status
	Strategy string // Strategy that produced Value; empty on failure
	Reason   string // Set only when Status is StatusFailed
}

// OK reports whether a value was extracted
func (r Result[T]) OK() bool {
	return r.Status != StatusFailed
}

func parsed[T any](v T, strategy string) Result[T] {
	return Result[T]{Value: v, Status: StatusParsed, Strategy: strategy}
}

func recovered[T any](v T, strategy string) Result[T] {
	return Result[T]{Value: v, Status: StatusRecovered, Strategy: strategy}
}

func failed[T any](reason string) Result[T] {
	return Result[T]{Status: StatusFailed, Reason: reason}
}
