package domain

import "time"

// ActivityLogCap bounds the retained allocation history. Entries beyond the
// cap are silently dropped, oldest first.
const ActivityLogCap = 100

type ActivityEntry struct {
	ID             string
	UserID         UserID
	UserName       string
	Count1         int
	Count2         int
	TotalGenerated int
	Timestamp      time.Time
}

// PrependBounded puts entry at the head of a most-recent-first list and
// truncates the result to ActivityLogCap.
func PrependBounded(entries []ActivityEntry, entry ActivityEntry) []ActivityEntry {
	out := make([]ActivityEntry, 0, len(entries)+1)
	out = append(out, entry)
	out = append(out, entries...)
	if len(out) > ActivityLogCap {
		out = out[:ActivityLogCap]
	}

	return out
}
