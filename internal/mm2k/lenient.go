package mm2k

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// stored profiles were written by several client versions, so numbers can
// show up as strings, nulls or garbage; decoding defaults instead of failing

var jsonNull = []byte("null")

func lenientFloat(data []byte) (float64, bool) {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, jsonNull) {
		return 0, false
	}
	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// lenientArray splits a JSON array into its elements, anything else is empty
func lenientArray(data []byte) []json.RawMessage {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	return items
}

func lenientString(data []byte) string {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, jsonNull) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	}
	if v, ok := lenientFloat(raw); ok {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func lenientBool(data []byte) bool {
	raw := bytes.TrimSpace(data)
	switch string(raw) {
	case "true", `"true"`, "1", `"1"`:
		return true
	default:
		return false
	}
}

// lenientTime accepts RFC 3339 strings and unix milliseconds
func lenientTime(data []byte) *time.Time {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, jsonNull) {
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || s == "" {
			return nil
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil
		}
		return &t
	}
	ms, ok := lenientFloat(raw)
	if !ok || ms <= 0 {
		return nil
	}
	t := time.UnixMilli(int64(ms)).UTC()
	return &t
}

func floatPtr(v float64) *float64 {
	return &v
}

func intPtr(v int) *int {
	return &v
}
