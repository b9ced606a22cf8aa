package archive

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Store archives turn logs. Writes are best-effort: callers log failures and
// carry on; a missing archive never aborts a turn.
type Store interface {
	Put(ctx context.Context, name string, payload []byte) error
}

// HashName derives a compact, collision-resistant object name from the turn
// input and its timestamp.
func HashName(input string, ts time.Time) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s%s", input, ts.UTC().Format(time.RFC3339Nano))))
	return hex.EncodeToString(sum[:])[:16]
}
