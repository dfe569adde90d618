package services

import (
	"context"
	"fmt"
	"strings"

	"fleetboard/internal/config"
	"fleetboard/internal/models"
)

// S3VideoResolver maps a video's stored object key onto the public bucket
// base URL. Videos ingested with an external URL pass through untouched.
type S3VideoResolver struct {
	publicBaseURL string
}

func NewS3VideoResolver(s3cfg *config.S3Config) *S3VideoResolver {
	return &S3VideoResolver{publicBaseURL: s3cfg.PublicBaseURL}
}

func (r *S3VideoResolver) ResolveURL(_ context.Context, video *models.Video) (string, error) {
	if video.ObjectKey == "" {
		if video.URL == "" {
			return "", fmt.Errorf("video %s has neither object key nor url", video.ID)
		}
		return video.URL, nil
	}
	return strings.TrimRight(r.publicBaseURL, "/") + "/" + video.ObjectKey, nil
}
