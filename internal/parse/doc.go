// Package parse recovers structured values from free-form language model output.
//
// Model responses are not strict JSON: they arrive wrapped in code fences,
// surrounded by prose, cut off mid-array, or sprinkled with stray commas.
// A Chain runs an ordered list of pure strategies and keeps the first that
// decodes. The Result records whether the value was a clean parse, a
// recovery (and which strategy recovered it), or a failure with a reason.
// Parsing never panics and never returns an error; callers decide the fallback.
package parse
