package timeline

import (
	"fmt"
	"strconv"
	"strings"

	"Murmur/internal/core/feedindex"
)

const maxCursorLength = 64

// EncodeCursor renders the ordering key of the last entry seen as an opaque token
func EncodeCursor(b feedindex.Bound) string {
	return strconv.FormatInt(b.Score, 10) + ":" + strconv.FormatInt(b.PostID, 10)
}

// ParseCursor decodes a token produced by EncodeCursor.
// An empty token (or "+inf") means "start from the newest entry" and yields nil.
// A bare score such as "1700000000000" is accepted and excludes every entry at that score.
func ParseCursor(cursor string) (*feedindex.Bound, error) {
	cursor = strings.TrimSpace(cursor)
	if cursor == "" || cursor == "+inf" {
		return nil, nil
	}
	if len(cursor) > maxCursorLength {
		return nil, fmt.Errorf("%w: exceeds maximum length", ErrInvalidCursor)
	}

	scorePart, idPart, hasID := strings.Cut(cursor, ":")

	score, err := strconv.ParseInt(scorePart, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid score", ErrInvalidCursor)
	}

	bound := &feedindex.Bound{Score: score}
	if hasID {
		postID, err := strconv.ParseInt(idPart, 10, 64)
		if err != nil || postID < 0 {
			return nil, fmt.Errorf("%w: invalid post id", ErrInvalidCursor)
		}
		bound.PostID = postID
	}
	return bound, nil
}
