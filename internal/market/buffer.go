package market

import "github.com/guttosm/coffeepulse/internal/domain/models"

// TickBuffer is the authoritative log of recent ticks, kept in arrival order.
//
// It is a fixed-capacity ring: once full, appending evicts the oldest tick.
// Read windows (web history, e-mail chart, tables) are slices taken at read
// time via Recent. TickBuffer is not safe for concurrent use; State guards it.
type TickBuffer struct {
	ring  []models.Tick
	head  int // index of the oldest retained tick
	size  int
	total int
}

// NewTickBuffer creates a buffer retaining at most capacity ticks.
// Non-positive capacities fall back to models.DefaultTickRetention.
func NewTickBuffer(capacity int) *TickBuffer {
	if capacity <= 0 {
		capacity = models.DefaultTickRetention
	}
	return &TickBuffer{ring: make([]models.Tick, capacity)}
}

// Append stores t with Change/ChangePercent derived from the previously
// retained tick and returns the stored value.
func (b *TickBuffer) Append(t models.Tick) models.Tick {
	prev, ok := b.Last()
	t = t.WithChange(prev.Price, ok)

	idx := (b.head + b.size) % len(b.ring)
	b.ring[idx] = t
	if b.size < len(b.ring) {
		b.size++
	} else {
		b.head = (b.head + 1) % len(b.ring)
	}
	b.total++
	return t
}

// Recent returns a copy of the last min(n, Len()) ticks, oldest first.
func (b *TickBuffer) Recent(n int) []models.Tick {
	if n <= 0 || b.size == 0 {
		return []models.Tick{}
	}
	if n > b.size {
		n = b.size
	}
	out := make([]models.Tick, n)
	start := b.head + b.size - n
	for i := 0; i < n; i++ {
		out[i] = b.ring[(start+i)%len(b.ring)]
	}
	return out
}

// Last returns the most recently appended tick.
func (b *TickBuffer) Last() (models.Tick, bool) {
	if b.size == 0 {
		return models.Tick{}, false
	}
	return b.ring[(b.head+b.size-1)%len(b.ring)], true
}

// Len is the number of retained ticks.
func (b *TickBuffer) Len() int { return b.size }

// Total is the number of ticks ever appended, including evicted ones.
func (b *TickBuffer) Total() int { return b.total }

// Cap is the retention limit.
func (b *TickBuffer) Cap() int { return len(b.ring) }
