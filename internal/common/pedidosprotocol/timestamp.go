package pedidosprotocol

import (
	"bytes"
	"fmt"
	"time"
)

// layouts without an offset, as sent by backends that store local wall-clock time
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Timestamp is a backend date. Values without an offset are kept as wall-clock time and marked
// Naive, so that they are shown as sent instead of being shifted.
type Timestamp struct {
	time.Time
	Naive bool
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("timestamp %s is not a string", data)
	}
	raw := string(data[1 : len(data)-1])
	if raw == "" {
		*t = Timestamp{}
		return nil
	}

	if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		*t = Timestamp{Time: parsed}
		return nil
	}
	for _, layout := range naiveLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			*t = Timestamp{Time: parsed, Naive: true}
			return nil
		}
	}
	return fmt.Errorf("unsupported timestamp %q", raw)
}

// In returns the instant as seen in loc. A naive value is read as wall-clock time in loc.
func (t Timestamp) In(loc *time.Location) time.Time {
	if !t.Naive {
		return t.Time.In(loc)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}
