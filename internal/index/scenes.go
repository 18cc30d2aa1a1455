package index

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// ReplaceScenes atomically substitutes the full scene set for videoID with
// the same semantics as ReplaceTranscript. Scene numbers are reassigned
// densely from the start-time order, so callers may pass detector output in
// arrival order.
func (s *Store) ReplaceScenes(ctx context.Context, videoID string, scenes []Scene) error {
	if strings.TrimSpace(videoID) == "" {
		return fmt.Errorf("%w: video id required", ErrInvalidRecord)
	}
	for _, scene := range scenes {
		if scene.End <= scene.Start {
			return fmt.Errorf("%w: scene end %.3f must follow start %.3f", ErrInvalidRecord, scene.End, scene.Start)
		}
	}

	ordered := make([]Scene, len(scenes))
	copy(ordered, scenes)
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

		if _, err := tx.ExecContext(ctx, "DELETE FROM scenes WHERE video_id = ?", videoID); err != nil {
			return fmt.Errorf("delete prior scenes: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO scenes (video_id, scene_number, start_time, end_time, frame_path)
             VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare scene insert: %w", err)
		}
		defer stmt.Close()

		for i, scene := range ordered {
			if _, err := stmt.ExecContext(ctx, videoID, i, scene.Start, scene.End, scene.FramePath); err != nil {
				return fmt.Errorf("insert scene %d: %w", i, err)
			}
		}
		return nil
	})
}

// ListScenes returns the stored scenes for videoID ordered by start time.
// Returns ErrNotFound when the video row is absent; a video with no scenes
// yields an empty slice.
func (s *Store) ListScenes(ctx context.Context, videoID string) ([]Scene, error) {
	ctx = ensureContext(ctx)
	exists, err := videoExists(ctx, s.db, videoID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, videoID)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT scene_number, start_time, end_time, frame_path
         FROM scenes WHERE video_id = ?
         ORDER BY start_time, scene_number`, videoID)
	if err != nil {
		return nil, fmt.Errorf("list scenes: %w", err)
	}
	defer rows.Close()

	scenes := make([]Scene, 0)
	for rows.Next() {
		var scene Scene
		if err := rows.Scan(&scene.Number, &scene.Start, &scene.End, &scene.FramePath); err != nil {
			return nil, fmt.Errorf("scan scene: %w", err)
		}
		scenes = append(scenes, scene)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scenes: %w", err)
	}
	return scenes, nil
}
