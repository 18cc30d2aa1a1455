package index

import (
	"context"
	"fmt"
	"strings"

	"vidindex/internal/textutil"
)

// SearchTranscript returns the segments of videoID whose text contains query
// as a substring, ordered by start time. Matching is case-insensitive under
// Unicode case folding; SQLite's LIKE only folds ASCII, so the comparison
// happens here after an ordered fetch. A blank query returns ErrInvalidQuery;
// an unknown video returns ErrNotFound; no match returns an empty slice.
func (s *Store) SearchTranscript(ctx context.Context, videoID, query string) ([]Segment, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrInvalidQuery
	}

	segments, err := s.ListSegments(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("search transcript: %w", err)
	}

	matches := make([]Segment, 0)
	for _, seg := range segments {
		if textutil.ContainsFold(seg.Text, query) {
			matches = append(matches, seg)
		}
	}
	return matches, nil
}
