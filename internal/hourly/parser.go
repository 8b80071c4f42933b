package hourly

import (
	"encoding/json"
	"fmt"
	"os"
)

// Parse decodes hourly aggregate JSON. A missing or null "hours" key yields an
// empty, non-nil record list.
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}
	if doc.Hours == nil {
		doc.Hours = []Record{}
	}
	return doc, nil
}

// Load reads and parses the hourly aggregate file at path.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}
	return Parse(data)
}
