package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// DefaultLimit and MaxLimit bound page sizes for every cursor-paginated listing.
const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// ClampLimit normalises a caller-supplied page size.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// EncodeCursor creates an opaque keyset cursor from a creation time and a row id.
// Rows are ordered by (created_at, id), so the pair uniquely positions a page.
func EncodeCursor(createdAt time.Time, id string) string {
	tokenStr := fmt.Sprintf("%s|%s", createdAt.UTC().Format(timeFormat), id)
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeCursor parses a cursor produced by EncodeCursor.
func DecodeCursor(token string) (time.Time, string, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (split)")
	}
	createdAt, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}
	return createdAt, parts[1], nil
}

// EncodeDateBasedToken creates a token for single date field pagination.
func EncodeDateBasedToken(date time.Time) string {
	return base64.URLEncoding.EncodeToString([]byte(date.UTC().Format(timeFormat)))
}

// DecodeDateBasedToken decodes a token for single date field pagination.
func DecodeDateBasedToken(token string) (time.Time, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	date, err := time.Parse(timeFormat, string(decodedBytes))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}
	return date, nil
}
