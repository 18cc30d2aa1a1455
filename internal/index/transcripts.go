package index

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// ReplaceTranscript atomically substitutes the full segment set for videoID.
// Prior segments are deleted and the new list inserted in one transaction;
// input ordering is normalized by start time. Returns ErrNotFound when the
// video row is absent.
func (s *Store) ReplaceTranscript(ctx context.Context, videoID string, segments []Segment) error {
	if strings.TrimSpace(videoID) == "" {
		return fmt.Errorf("%w: video id required", ErrInvalidRecord)
	}
	for _, seg := range segments {
		if seg.Start >= seg.End {
			return fmt.Errorf("%w: segment start %.3f must precede end %.3f", ErrInvalidRecord, seg.Start, seg.End)
		}
		if strings.TrimSpace(seg.Text) == "" {
			return fmt.Errorf("%w: segment text must not be blank", ErrInvalidRecord)
		}
	}

	ordered := make([]Segment, len(segments))
	copy(ordered, segments)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Start < ordered[j].Start })

	ctx = ensureContext(ctx)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		exists, err := videoExists(ctx, tx, videoID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: %s", ErrNotFound, videoID)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM transcript_segments WHERE video_id = ?", videoID); err != nil {
			return fmt.Errorf("delete prior segments: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO transcript_segments (video_id, start_time, end_time, text, confidence)
             VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare segment insert: %w", err)
		}
		defer stmt.Close()

		for _, seg := range ordered {
			if _, err := stmt.ExecContext(ctx, videoID, seg.Start, seg.End, strings.TrimSpace(seg.Text), seg.Confidence); err != nil {
				return fmt.Errorf("insert segment: %w", err)
			}
		}
		return nil
	})
}

// ListSegments returns the stored transcript for videoID ordered by start
// time. Returns ErrNotFound when the video row is absent; a video with no
// transcript yields an empty slice.
func (s *Store) ListSegments(ctx context.Context, videoID string) ([]Segment, error) {
	ctx = ensureContext(ctx)
	exists, err := videoExists(ctx, s.db, videoID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, videoID)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT start_time, end_time, text, confidence
         FROM transcript_segments WHERE video_id = ?
         ORDER BY start_time, id`, videoID)
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}
	defer rows.Close()

	segments := make([]Segment, 0)
	for rows.Next() {
		var seg Segment
		if err := rows.Scan(&seg.Start, &seg.End, &seg.Text, &seg.Confidence); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		segments = append(segments, seg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate segments: %w", err)
	}
	return segments, nil
}
