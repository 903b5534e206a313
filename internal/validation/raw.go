package validation

import (
	"net/url"
	"strings"
	"time"
)

// DateLayout is the wire format for date-only fields.
const DateLayout = "2006-01-02"

// Raw is loosely typed submission input, as decoded from a JSON body or a
// parsed form. Values are strings, bools, dates or nil.
type Raw map[string]any

// FromForm flattens a submitted form into Raw, keeping the first value of
// each key.
func FromForm(values url.Values) Raw {
	raw := make(Raw, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			raw[key] = vals[0]
		}
	}
	return raw
}

// text returns the string value of key. present is false when the key is
// missing or nil; ok is false when the value is not a string.
func (r Raw) text(key string) (value string, present, ok bool) {
	v, exists := r[key]
	if !exists || v == nil {
		return "", false, true
	}
	s, isString := v.(string)
	if !isString {
		return "", true, false
	}
	return s, true, true
}

// date parses a date value. Strings must use DateLayout; timestamps are
// rejected so an offset cannot shift the calendar day. An empty string
// counts as absent.
func (r Raw) date(key string) (value time.Time, present, ok bool) {
	v, exists := r[key]
	if !exists || v == nil {
		return time.Time{}, false, true
	}
	switch d := v.(type) {
	case time.Time:
		return d, !d.IsZero(), true
	case *time.Time:
		if d == nil || d.IsZero() {
			return time.Time{}, false, true
		}
		return *d, true, true
	case string:
		d = strings.TrimSpace(d)
		if d == "" {
			return time.Time{}, false, true
		}
		if t, err := time.Parse(DateLayout, d); err == nil {
			return t, true, true
		}
		return time.Time{}, true, false
	default:
		return time.Time{}, true, false
	}
}

// boolean accepts JSON booleans and the usual form checkbox encodings.
func (r Raw) boolean(key string) (value, present, ok bool) {
	v, exists := r[key]
	if !exists || v == nil {
		return false, false, true
	}
	switch b := v.(type) {
	case bool:
		return b, true, true
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "on", "1", "yes":
			return true, true, true
		case "false", "off", "0", "no", "":
			return false, true, true
		}
	}
	return false, true, false
}
