package hourly

// Counts is a per-counter value set. The external producer may emit integral
// deltas or fractional rates, so every field is decoded as float64.
type Counts struct {
	Molts float64 `json:"molts"`
	Likes float64 `json:"likes"`
	Views float64 `json:"views"`
}

// Record is one pre-aggregated hour bucket as emitted by the hourly producer.
type Record struct {
	Hour        string `json:"hour"`
	Samples     int    `json:"samples"`
	Delta       Counts `json:"delta"`
	RatePerMin  Counts `json:"rate_per_min"`
	RatePerHour Counts `json:"rate_per_hour"`
}

// Document is the top-level hourly-aggregate file.
type Document struct {
	Hours []Record `json:"hours"`
}
