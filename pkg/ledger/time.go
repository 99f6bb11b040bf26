package ledger

import "time"

// rfc3339Micro is the storage layout for every timestamp column: RFC-3339
// UTC strings, per spec §4.1 "Storage encoding", fixed at microsecond
// precision so lexicographic and chronological order coincide.
const rfc3339Micro = "2006-01-02T15:04:05.000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(rfc3339Micro)
}

func parseRFC3339Micro(s string) (time.Time, error) {
	return time.Parse(rfc3339Micro, s)
}
