// Package id mints the identifiers for sessions and trades. ULIDs sort
// by creation time, so journal rows come back in entry order without a
// separate sequence column.
package id

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy io.Reader = newEntropy()
)

// newEntropy seeds a monotonic ULID source from crypto/rand, so ids
// generated within the same millisecond still sort in creation order.
func newEntropy() io.Reader {
	var seed int64
	if err := binary.Read(cryptorand.Reader, binary.LittleEndian, &seed); err != nil || seed == 0 {
		seed = time.Now().UnixNano()
	}
	return ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// New returns the next ULID string. Safe for concurrent use.
func New() string {
	mu.Lock()
	defer mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), entropy).String()
}
