package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// UpsertVideo inserts or fully replaces the metadata row for v.ID. A second
// upload with the same id overwrites the prior metadata; derived rows are
// untouched here and replaced by their own stages.
func (s *Store) UpsertVideo(ctx context.Context, v Video) error {
	if strings.TrimSpace(v.ID) == "" {
		return fmt.Errorf("%w: video id required", ErrInvalidRecord)
	}
	if strings.TrimSpace(v.Filename) == "" {
		return fmt.Errorf("%w: filename required", ErrInvalidRecord)
	}
	created := v.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO videos (id, filename, duration, fps, width, height, created_at)
             VALUES (?, ?, ?, ?, ?, ?, ?)
             ON CONFLICT(id) DO UPDATE SET
                 filename = excluded.filename,
                 duration = excluded.duration,
                 fps = excluded.fps,
                 width = excluded.width,
                 height = excluded.height,
                 created_at = excluded.created_at`,
			v.ID, v.Filename, v.Duration, v.FPS, v.Width, v.Height,
			created.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("upsert video: %w", err)
		}
		return nil
	})
}

// GetVideo returns the metadata row for id or ErrNotFound.
func (s *Store) GetVideo(ctx context.Context, id string) (Video, error) {
	ctx = ensureContext(ctx)
	var (
		v       Video
		created string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, filename, duration, fps, width, height, created_at
         FROM videos WHERE id = ?`, id,
	).Scan(&v.ID, &v.Filename, &v.Duration, &v.FPS, &v.Width, &v.Height, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Video{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Video{}, fmt.Errorf("get video: %w", err)
	}
	if parsed, parseErr := time.Parse(time.RFC3339Nano, created); parseErr == nil {
		v.CreatedAt = parsed
	}
	return v, nil
}

// DeleteVideo removes the video row and, through cascading foreign keys, its
// transcript segments and scenes. Missing ids are not an error.
func (s *Store) DeleteVideo(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM videos WHERE id = ?", id); err != nil {
			return fmt.Errorf("delete video: %w", err)
		}
		return nil
	})
}

// ListVideos returns all videos ordered by creation time then id.
func (s *Store) ListVideos(ctx context.Context) ([]Video, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, duration, fps, width, height, created_at
         FROM videos ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var videos []Video
	for rows.Next() {
		var (
			v       Video
			created string
		)
		if err := rows.Scan(&v.ID, &v.Filename, &v.Duration, &v.FPS, &v.Width, &v.Height, &created); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		if parsed, parseErr := time.Parse(time.RFC3339Nano, created); parseErr == nil {
			v.CreatedAt = parsed
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}
	return videos, nil
}
