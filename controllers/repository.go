package controllers

import (
	"blog-app/models"
	"context"
)

// PostRepository is the post store the handlers work against.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (models.Post, error)
	FindPublished(ctx context.Context, slugOrID string) (models.Post, error)
	ListPublished(ctx context.Context, page, perPage int) ([]models.Post, int, error)
	ListAll(ctx context.Context, filter models.PostFilter) ([]models.Post, error)
	Stats(ctx context.Context) (models.PostStats, error)
}
