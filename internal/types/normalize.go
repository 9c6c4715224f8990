package types

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Sentinel values substituted when a source record is absent or malformed.
// Normalization is a recoverable degradation, never an error.
const (
	SentinelBody = "(comment unavailable)"
	SystemAuthor = "system"

	// AnonymousAuthor fills in for records that arrive without an author.
	AnonymousAuthor = "anonymous"
)

// timeLayouts are tried in order when parsing store timestamps. Stores
// emit anything from full RFC 3339 down to a bare calendar date.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseWhen returns the first parseable candidate, or the current instant
// if none parses. Bare dates resolve to midnight UTC.
func parseWhen(candidates ...string) time.Time {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, c); err == nil {
				return t.UTC()
			}
		}
	}
	return time.Now().UTC()
}

// NormalizeComment converts a raw store record into the canonical Comment
// shape. It is pure up to clock reads and idempotent: normalizing an
// already-normalized comment yields an equivalent comment.
//
// Resolution rules:
//   - nil or empty record → sentinel comment (fresh id, SentinelBody, SystemAuthor, now)
//   - body: content field, then text field, then empty string
//   - id: provided, else a synthesized time-based token (not stable across calls)
//   - timestamp: updatedAt, then createdAt, then date, then now
//   - author: provided, else AnonymousAuthor
//
// A JSON null inside a comment array decodes to the zero record, so the
// empty check catches it alongside a genuinely nil pointer.
func NormalizeComment(raw *RawComment) Comment {
	if raw == nil || *raw == (RawComment{}) {
		return Comment{
			ID:      ID("missing-" + uuid.NewString()),
			Text:    SentinelBody,
			Content: SentinelBody,
			Author:  SystemAuthor,
			Date:    time.Now().UTC(),
		}
	}

	body := raw.Content
	if body == "" {
		body = raw.Text
	}

	id := raw.ID
	if id == "" {
		id = ID(strconv.FormatInt(time.Now().UnixNano(), 10))
	}

	author := raw.Author
	if author == "" {
		author = AnonymousAuthor
	}

	return Comment{
		ID:      id,
		Text:    body,
		Content: body,
		Author:  author,
		Date:    parseWhen(raw.UpdatedAt, raw.CreatedAt, raw.Date),
	}
}

// NormalizeComments maps NormalizeComment over a slice, tagging each
// result with the owning memo identifier.
func NormalizeComments(memoID ID, raws []RawComment) []Comment {
	out := make([]Comment, 0, len(raws))
	for i := range raws {
		c := NormalizeComment(&raws[i])
		c.MemoID = memoID
		out = append(out, c)
	}
	return out
}

// NormalizeMemo converts a raw memo record into the canonical shape.
// Timestamp precedence matches NormalizeComment. Embedded comments are
// not returned here; use raw.Comments with NormalizeComments when the
// first fetch embeds them.
func NormalizeMemo(raw *RawMemo) Memo {
	if raw == nil {
		return Memo{
			ID:     ID("missing-" + uuid.NewString()),
			Author: SystemAuthor,
			Date:   time.Now().UTC(),
		}
	}
	id := raw.ID
	if id == "" {
		id = ID(strconv.FormatInt(time.Now().UnixNano(), 10))
	}
	return Memo{
		ID:      id,
		Title:   raw.Title,
		Content: raw.Content,
		Author:  raw.Author,
		Date:    parseWhen(raw.UpdatedAt, raw.CreatedAt, raw.Date),
	}
}
