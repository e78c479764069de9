package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// timestampLayouts lists the text forms a DATETIME column may come back
// in.  MySQL with parseTime=true yields time.Time directly; SQLite stores
// text written with _time_format=sqlite.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

// timestamp scans a DATETIME column into a UTC time.Time.
type timestamp struct {
	t *time.Time
}

func (ts timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*ts.t = v.UTC()
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	case nil:
		return fmt.Errorf("timestamp: unexpected NULL")
	}
	return fmt.Errorf("timestamp: unsupported type %T", src)
}

func (ts timestamp) parse(s string) error {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*ts.t = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("timestamp: cannot parse %q", s)
}

// nullable converts an optional string into a value for a NULL-able
// column.  Blank strings are stored as NULL.
func nullable(s *string) sql.NullString {
	if s == nil || strings.TrimSpace(*s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// optional converts a scanned NULL-able column back into *string.
func optional(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

// likePattern builds a case-insensitive substring pattern for LIKE ... ESCAPE '!'.
// Wildcards typed by the user match literally.
func likePattern(term string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}
