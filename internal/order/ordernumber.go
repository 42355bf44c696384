package order

import (
	"fmt"
	"math/rand"
	"time"
)

const orderNumberPrefix = "RP"

// GenerateOrderNumber builds a short human-presentable identifier: a fixed
// prefix, the last six digits of the millisecond clock so nearby numbers sort
// roughly by creation time, and three random digits to break same-millisecond
// ties. Uniqueness is probabilistic; the caller retries on collision.
func GenerateOrderNumber() string {
	ts := time.Now().UnixMilli() % 1_000_000
	return fmt.Sprintf("%s%06d%03d", orderNumberPrefix, ts, rand.Intn(1000))
}
