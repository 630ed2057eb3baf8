package cache

import (
	"sort"
	"strconv"
	"strings"
)

// Len returns the number of cached signatures.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Signatures returns the human-readable form of every cached signature,
// sorted. The table lock is held only to copy the entry set; formatting
// happens outside it. Signatures are immutable, so no entry lock is
// needed.
func (c *Cache) Signatures() []string {
	c.mu.Lock()
	sigs := make([]*Signature, 0, len(c.entries))
	for _, e := range c.entries {
		sigs = append(sigs, e.sig)
	}
	c.mu.Unlock()

	rendered := make([]string, len(sigs))
	for i, sig := range sigs {
		rendered[i] = sig.String()
	}
	sort.Strings(rendered)
	return rendered
}

// DebugString renders the whole cache for operator tooling: an entry
// count followed by one line per signature. Read-only; not used by any
// correctness path.
func (c *Cache) DebugString() string {
	sigs := c.Signatures()
	var sb strings.Builder
	sb.WriteString("compilation cache: ")
	sb.WriteString(strconv.Itoa(len(sigs)))
	sb.WriteString(" entries")
	for _, sig := range sigs {
		sb.WriteByte('\n')
		sb.WriteString("  ")
		sb.WriteString(sig)
	}
	return sb.String()
}
