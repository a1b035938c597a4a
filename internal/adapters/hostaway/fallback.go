package hostaway

import (
	_ "embed"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

// The fixed dataset served when the channel source is unreachable. Shipped
// inside the binary so the fallback path is deterministic and has no I/O of
// its own.
//
//go:embed fallback_reviews.json
var fallbackJSON []byte

var (
	fallbackOnce sync.Once
	fallbackRaws []map[string]any
)

// Fallback returns the embedded review batch. Callers must treat the records
// as read-only; the normalizer never mutates its input.
func Fallback() []map[string]any {
	fallbackOnce.Do(func() {
		var env envelope
		if err := json.Unmarshal(fallbackJSON, &env); err != nil {
			// A broken embedded file is a build defect, not a runtime
			// condition; fail loudly at first use.
			log.Fatal().Err(err).Msg("embedded fallback dataset is invalid")
		}
		fallbackRaws = env.Result
	})
	return fallbackRaws
}
