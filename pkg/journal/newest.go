package journal

// Newest returns up to limit entries from the end of an oldest-first slice,
// newest first. A limit <= 0 returns everything.
func Newest(entries []Entry, limit int) []Entry {
	if limit <= 0 || limit > len(entries) {
		limit = len(entries)
	}

	out := make([]Entry, 0, limit)
	for i := len(entries) - 1; i >= len(entries)-limit; i-- {
		out = append(out, entries[i])
	}

	return out
}
