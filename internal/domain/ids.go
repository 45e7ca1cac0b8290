package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces session-unique node and edge identifiers. Ids embed a
// monotonically increasing counter for human traceability plus a short random
// suffix so concurrent calls never need coordination.
type IDGenerator struct {
	counter atomic.Int64
}

// NewIDGenerator returns a generator with the counter at zero.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// Next returns a fresh identifier of the form prefix<counter>_<suffix>.
func (g *IDGenerator) Next(prefix string) string {
	n := g.counter.Add(1)
	suffix := uuid.NewString()[:4]
	return fmt.Sprintf("%s%d_%s", prefix, n, suffix)
}

// Reset returns the counter to zero. Called when a session starts over.
func (g *IDGenerator) Reset() {
	g.counter.Store(0)
}

// Leading non-digits are stripped wholesale, so prefixes with underscores
// (the generator's own format) still yield their counter component.
var idNumber = regexp.MustCompile(`^\D*(\d+)`)

// AdvancePast moves the counter beyond the largest numeric component found
// in the given identifiers, so ids minted after loading preloaded data never
// collide with ids carried in by that data.
func (g *IDGenerator) AdvancePast(ids ...string) {
	max := g.counter.Load()
	for _, id := range ids {
		m := idNumber.FindStringSubmatch(id)
		if m == nil {
			continue
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	for {
		cur := g.counter.Load()
		if cur >= max || g.counter.CompareAndSwap(cur, max) {
			return
		}
	}
}
