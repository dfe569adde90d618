package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fleetboard/internal/interfaces"
	"fleetboard/internal/models"
)

type videoRepository struct {
	db *sql.DB
}

func NewVideoRepository(db *sql.DB) interfaces.VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Create(ctx context.Context, video *models.Video) error {
	query := `
		INSERT INTO videos (
			title, object_key, url, checksum, duration_sec, size_bytes, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		video.Title,
		video.ObjectKey,
		video.URL,
		video.Checksum,
		video.DurationSec,
		video.SizeBytes,
		video.Status,
	).Scan(&video.ID, &video.CreatedAt, &video.UpdatedAt)
	return err
}

func (r *videoRepository) GetByID(ctx context.Context, id string) (*models.Video, error) {
	query := `
		SELECT id, title, object_key, url, checksum, duration_sec, size_bytes,
			status, created_at, updated_at
		FROM videos
		WHERE id = $1
	`

	var video models.Video
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&video.ID,
		&video.Title,
		&video.ObjectKey,
		&video.URL,
		&video.Checksum,
		&video.DurationSec,
		&video.SizeBytes,
		&video.Status,
		&video.CreatedAt,
		&video.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("get video: %w", err)
	}
	return &video, nil
}

func (r *videoRepository) List(ctx context.Context, limit, offset int) ([]*models.Video, error) {
	query := `
		SELECT id, title, object_key, url, checksum, duration_sec, size_bytes,
			status, created_at, updated_at
		FROM videos
		ORDER BY created_at DESC
	`

	args := []interface{}{}
	argPos := 1
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argPos)
		args = append(args, limit)
		argPos++
	}
	if offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argPos)
		args = append(args, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var videos []*models.Video
	for rows.Next() {
		var video models.Video
		err := rows.Scan(
			&video.ID,
			&video.Title,
			&video.ObjectKey,
			&video.URL,
			&video.Checksum,
			&video.DurationSec,
			&video.SizeBytes,
			&video.Status,
			&video.CreatedAt,
			&video.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		videos = append(videos, &video)
	}
	return videos, rows.Err()
}
