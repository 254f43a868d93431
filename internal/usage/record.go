package usage

import (
	"encoding/json"
	"time"

	"github.com/phrazzld/trend-finder/internal/domain"
)

// StorageKey is the key the usage record is stored under.
const StorageKey = "trendFinderApiUsage"

// storedRecord is the persisted JSON shape. Both fields are pointers so a
// missing field can be told apart from a zero value.
type storedRecord struct {
	Count     *float64 `json:"count"`
	LastReset *float64 `json:"lastReset"` // unix milliseconds
}

func encodeRecord(r domain.UsageRecord) (string, error) {
	count := float64(r.Count)
	lastReset := float64(r.WindowStart.UnixMilli())
	b, err := json.Marshal(storedRecord{Count: &count, LastReset: &lastReset})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeRecord parses a stored record. ok is false when the value is not
// JSON, or either field is missing or not a number.
func decodeRecord(raw string) (domain.UsageRecord, bool) {
	var sr storedRecord
	if err := json.Unmarshal([]byte(raw), &sr); err != nil {
		return domain.UsageRecord{}, false
	}
	if sr.Count == nil || sr.LastReset == nil || *sr.Count < 0 {
		return domain.UsageRecord{}, false
	}
	return domain.UsageRecord{
		Count:       int(*sr.Count),
		WindowStart: time.UnixMilli(int64(*sr.LastReset)).UTC(),
	}, true
}
