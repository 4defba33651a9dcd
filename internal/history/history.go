// Package history tracks which boards a client has visited. The log is an
// explicit value passed in and out of pure functions, so callers own
// persistence (a browser client would keep it in local storage).
package history

import "time"

// MaxEntries bounds the log; the oldest entries fall off the end.
const MaxEntries = 20

// AccessLevel mirrors the server-side levels without importing them, since
// the log lives entirely on the client.
const (
	LevelAdmin = "admin"
	LevelView  = "view"
	LevelNone  = "none"
)

// Visit is one board visit, keyed by (BoardID, Token).
type Visit struct {
	BoardID   string    `json:"board_id"`
	Title     string    `json:"title"`
	Token     string    `json:"token,omitempty"`
	Level     string    `json:"level"`
	VisitedAt time.Time `json:"visited_at"`
}

// Log is an ordered visit log, most recent first.
type Log []Visit

// AddVisit prepends a visit, replacing any existing entry with the same
// board and token, and truncates the log to MaxEntries.
func AddVisit(log Log, v Visit) Log {
	out := make(Log, 0, len(log)+1)
	out = append(out, v)
	for _, existing := range log {
		if existing.BoardID == v.BoardID && existing.Token == v.Token {
			continue
		}
		out = append(out, existing)
	}
	if len(out) > MaxEntries {
		out = out[:MaxEntries]
	}
	return out
}

// Remove drops every entry for the given board.
func Remove(log Log, boardID string) Log {
	out := make(Log, 0, len(log))
	for _, v := range log {
		if v.BoardID == boardID {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Clear returns an empty log.
func Clear() Log {
	return Log{}
}

// UniqueByBoard deduplicates the log by board id, keeping the most
// privileged entry per board and breaking privilege ties by recency (the
// log is already most-recent-first).
func UniqueByBoard(log Log) []Visit {
	best := make(map[string]int, len(log))
	var order []string

	for i, v := range log {
		prev, seen := best[v.BoardID]
		if !seen {
			best[v.BoardID] = i
			order = append(order, v.BoardID)
			continue
		}
		if rank(v.Level) > rank(log[prev].Level) {
			best[v.BoardID] = i
		}
	}

	out := make([]Visit, 0, len(order))
	for _, boardID := range order {
		out = append(out, log[best[boardID]])
	}
	return out
}

func rank(level string) int {
	switch level {
	case LevelAdmin:
		return 2
	case LevelView:
		return 1
	}
	return 0
}
