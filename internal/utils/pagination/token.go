package pagination

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

const timeFormat = "2006-01-02"

// Cursor identifies the last journal row of a page. Rows are ordered by
// (date, group id, seq), so the next page starts strictly after it.
type Cursor struct {
	Date    time.Time
	GroupID string
	Seq     int
}

type cursorPayload struct {
	Date    string `json:"d"`
	GroupID string `json:"g"`
	Seq     int    `json:"s"`
}

// EncodeToken creates an opaque base64 token from a cursor.
func EncodeToken(c Cursor) string {
	b, _ := json.Marshal(cursorPayload{Date: c.Date.Format(timeFormat), GroupID: c.GroupID, Seq: c.Seq})
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeToken parses a token produced by EncodeToken.
func DecodeToken(token string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	var p cursorPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (payload): %w", err)
	}
	date, err := time.Parse(timeFormat, p.Date)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}
	return Cursor{Date: date, GroupID: p.GroupID, Seq: p.Seq}, nil
}
