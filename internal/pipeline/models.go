package pipeline

// Window is one bounded slice of statement text submitted to the
// extraction model in a single call.
type Window struct {
	Content    string
	ChunkIndex int
}

// RawRecord is one candidate transaction as returned by the extraction
// model. The model was asked for a schema but nothing about the result is
// trusted: fields may be missing, mistyped, or outside the category enum.
// The normalizer re-validates everything.
type RawRecord map[string]any
