package pipeline

import (
	"context"
)

// RecordExtractor turns one window of statement text into zero or more
// raw candidate records. Implementations make exactly one external call
// per invocation and do not retry; the orchestrator treats a failed call
// as "this window yielded no records".
type RecordExtractor interface {
	ExtractRecords(ctx context.Context, windowText string) ([]RawRecord, error)
}
