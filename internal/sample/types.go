package sample

// Counters holds the three cumulative counters carried by every log line.
type Counters struct {
	Molts int64 `json:"molts"`
	Likes int64 `json:"likes"`
	Views int64 `json:"views"`
}

// Sub returns c - o per counter. Results may be negative when a counter went backwards.
func (c Counters) Sub(o Counters) Counters {
	return Counters{
		Molts: c.Molts - o.Molts,
		Likes: c.Likes - o.Likes,
		Views: c.Views - o.Views,
	}
}

// Sample is one parsed log line.
type Sample struct {
	Timestamp string `json:"timestamp"` // as written in the log, used for display
	Epoch     int64  `json:"epoch"`     // unix seconds, used for all arithmetic
	Counters
}
