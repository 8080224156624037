package track

// DefaultBuckets is the bucket count used when Options.Buckets is zero.
const DefaultBuckets = 2048

// Table is a fixed-size hash table of allocation records keyed by block
// address. The bucket for an address is addr & (buckets-1), so the bucket
// count must be a power of two. Buckets never rehash or resize; each bucket
// owns a chain of records ordered newest-first.
//
// Table is a passive structure with no locking and no logging; a Tracker
// wraps it with both.
type Table struct {
	buckets [][]Record
	mask    uintptr
	count   int
	max     int // 0 = unbounded
}

// NewTable builds a table with the given bucket count, which must be a
// power of two (DefaultBuckets when zero). maxRecords bounds the number of
// live records the table will accept; 0 means unbounded.
func NewTable(buckets, maxRecords int) (*Table, error) {
	if buckets == 0 {
		buckets = DefaultBuckets
	}
	if buckets < 0 || buckets&(buckets-1) != 0 {
		return nil, ErrBadBuckets
	}
	return &Table{
		buckets: make([][]Record, buckets),
		mask:    uintptr(buckets - 1),
		max:     maxRecords,
	}, nil
}

func (t *Table) bucket(addr uintptr) int {
	return int(addr & t.mask)
}

// Register inserts a record keyed by rec.Addr. It reports false without
// inserting when the address is zero or the record budget is exhausted;
// address zero is reserved as "no block" and is never stored.
func (t *Table) Register(rec Record) bool {
	if rec.Addr == 0 {
		return false
	}
	if t.max > 0 && t.count >= t.max {
		return false
	}
	b := t.bucket(rec.Addr)
	t.buckets[b] = append(t.buckets[b], rec)
	t.count++
	return true
}

// Unregister removes and returns the record for addr. It reports false when
// the address is not tracked; the table is unchanged in that case.
func (t *Table) Unregister(addr uintptr) (Record, bool) {
	if addr == 0 {
		return Record{}, false
	}
	b := t.bucket(addr)
	chain := t.buckets[b]
	// Scan newest-first: frees tend to target recent allocations.
	for i := len(chain) - 1; i >= 0; i-- {
		if chain[i].Addr != addr {
			continue
		}
		rec := chain[i]
		t.buckets[b] = append(chain[:i], chain[i+1:]...)
		t.count--
		return rec, true
	}
	return Record{}, false
}

// Lookup returns the record for addr without removing it.
func (t *Table) Lookup(addr uintptr) (Record, bool) {
	if addr == 0 {
		return Record{}, false
	}
	chain := t.buckets[t.bucket(addr)]
	for i := len(chain) - 1; i >= 0; i-- {
		if chain[i].Addr == addr {
			return chain[i], true
		}
	}
	return Record{}, false
}

// Walk visits every live record in bucket order, newest-first within each
// bucket. The visitor returning false stops the walk. Each call is a fresh
// pass over the table; the table must not be mutated during a walk.
func (t *Table) Walk(fn func(Record) bool) {
	for _, chain := range t.buckets {
		for i := len(chain) - 1; i >= 0; i-- {
			if !fn(chain[i]) {
				return
			}
		}
	}
}

// Len reports the number of live records.
func (t *Table) Len() int { return t.count }

// Buckets reports the configured bucket count.
func (t *Table) Buckets() int { return len(t.buckets) }

// Reset discards every record, keeping the bucket array.
func (t *Table) Reset() {
	for i := range t.buckets {
		t.buckets[i] = nil
	}
	t.count = 0
}
