package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync/atomic"
	"time"
)

var idCounter uint64

// GenerateSearchID generates a search ID with a timestamp prefix,
// e.g. "col-20250101-120000-1a2b3c4d".
func GenerateSearchID() string {
	timestamp := time.Now().Format("20060102-150405")
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		count := atomic.AddUint64(&idCounter, 1)
		return fmt.Sprintf("col-%s-%x", timestamp, count)
	}
	return fmt.Sprintf("col-%s-%s", timestamp, hex.EncodeToString(b))
}
