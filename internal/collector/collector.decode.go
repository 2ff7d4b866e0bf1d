// FilePath: internal/collector/collector.decode.go
package collector

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// record is one loosely typed object from the remote API. Field names vary
// between API versions, so every accessor takes a list of aliases and uses
// the first one present.
type record map[string]any

func decodeRecords(raw []json.RawMessage) []record {
	out := make([]record, 0, len(raw))
	for _, r := range raw {
		var rec record
		if err := json.Unmarshal(r, &rec); err != nil || rec == nil {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (r record) lookup(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (r record) str(keys ...string) string {
	v, ok := r.lookup(keys...)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

func (r record) num(keys ...string) float64 {
	v, ok := r.lookup(keys...)
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return t
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		// ParseFloat accepts "NaN" and "Inf", which json cannot encode.
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	case bool:
		if t {
			return 1
		}
	}
	return 0
}

func (r record) flag(keys ...string) bool {
	v, ok := r.lookup(keys...)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(t))
		return b
	}
	return false
}

// timestamp accepts RFC 3339 strings and unix seconds or milliseconds.
func (r record) timestamp(keys ...string) (time.Time, bool) {
	v, ok := r.lookup(keys...)
	if !ok {
		return time.Time{}, false
	}
	switch t := v.(type) {
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts, true
			}
		}
		if n, err := strconv.ParseFloat(t, 64); err == nil {
			return fromUnix(n), true
		}
	case float64:
		return fromUnix(t), true
	}
	return time.Time{}, false
}

func fromUnix(n float64) time.Time {
	// Values past year 2286 in seconds are milliseconds.
	if n > 1e10 {
		return time.UnixMilli(int64(n)).UTC()
	}
	return time.Unix(int64(n), 0).UTC()
}
