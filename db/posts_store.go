package db

import (
	"blog-app/models"
	"blog-app/utils"
	"blog-app/validation"
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const postColumns = "id, title, content, summary, slug, published, created_at, updated_at"

// maxSlugAttempts bounds the retries when a concurrent writer claims the
// same slug between the availability check and the insert.
const maxSlugAttempts = 3

// PostStore persists posts in PostgreSQL.
type PostStore struct {
	DB         *sqlx.DB
	SlugSource models.SlugSource
	now        func() time.Time
}

func NewPostStore(conn *sqlx.DB, source models.SlugSource) *PostStore {
	return &PostStore{DB: conn, SlugSource: source, now: func() time.Time { return time.Now().UTC() }}
}

// Create validates the post, derives a unique slug and inserts it. On
// success the post carries its id, slug and timestamps.
func (s *PostStore) Create(ctx context.Context, post *models.Post) error {
	validation.NormalizePost(post)
	if err := validation.ValidatePost(*post); err != nil {
		return err
	}

	now := s.now()
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		slug, err := s.uniqueSlug(ctx, post.SlugBase(s.SlugSource), 0)
		if err != nil {
			return err
		}

		err = s.DB.QueryRowxContext(ctx,
			`INSERT INTO posts (title, content, summary, slug, published, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING id, created_at, updated_at`,
			post.Title, post.Content, post.Summary, slug, post.Published, now).
			Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
		if isUniqueViolation(err) {
			continue
		}
		if err != nil {
			return errors.Wrap(err, "failed to insert post")
		}
		post.Slug = slug
		return nil
	}
	return &validation.ValidationError{Errors: []string{validation.MsgSlugTaken}}
}

// Update rewrites every editable field of an existing post. The slug is
// regenerated from its source field each time.
func (s *PostStore) Update(ctx context.Context, post *models.Post) error {
	validation.NormalizePost(post)
	if err := validation.ValidatePost(*post); err != nil {
		return err
	}

	now := s.now()
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		slug, err := s.uniqueSlug(ctx, post.SlugBase(s.SlugSource), post.ID)
		if err != nil {
			return err
		}

		err = s.DB.QueryRowxContext(ctx,
			`UPDATE posts SET title = $1, content = $2, summary = $3, slug = $4, published = $5, updated_at = $6
			 WHERE id = $7 RETURNING created_at, updated_at`,
			post.Title, post.Content, post.Summary, slug, post.Published, now, post.ID).
			Scan(&post.CreatedAt, &post.UpdatedAt)
		if isUniqueViolation(err) {
			continue
		}
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrPostNotFound
		}
		if err != nil {
			return errors.Wrapf(err, "failed to update post %d", post.ID)
		}
		post.Slug = slug
		return nil
	}
	return &validation.ValidationError{Errors: []string{validation.MsgSlugTaken}}
}

func (s *PostStore) Delete(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, "DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return errors.Wrapf(err, "failed to delete post %d", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if n == 0 {
		return models.ErrPostNotFound
	}
	return nil
}

// FindByID returns a post in any published state.
func (s *PostStore) FindByID(ctx context.Context, id int64) (models.Post, error) {
	var post models.Post
	err := s.DB.GetContext(ctx, &post, "SELECT "+postColumns+" FROM posts WHERE id = $1", id)
	return post, notFound(err, "failed to query post by id")
}

// FindPublished looks a published post up by slug, falling back to the
// numeric id when no slug matches.
func (s *PostStore) FindPublished(ctx context.Context, slugOrID string) (models.Post, error) {
	var post models.Post
	err := s.DB.GetContext(ctx, &post,
		"SELECT "+postColumns+" FROM posts WHERE slug = $1 AND published = true", slugOrID)
	if err == nil {
		return post, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return post, errors.Wrap(err, "failed to query post by slug")
	}

	id, convErr := strconv.ParseInt(slugOrID, 10, 64)
	if convErr != nil {
		return post, models.ErrPostNotFound
	}
	err = s.DB.GetContext(ctx, &post,
		"SELECT "+postColumns+" FROM posts WHERE id = $1 AND published = true", id)
	return post, notFound(err, "failed to query published post by id")
}

// ListPublished returns one page of published posts in id order together
// with the total number of published posts.
func (s *PostStore) ListPublished(ctx context.Context, page, perPage int) ([]models.Post, int, error) {
	pagination := utils.NewPagination(page, perPage, 0)

	var total int
	if err := s.DB.GetContext(ctx, &total, "SELECT count(*) FROM posts WHERE published = true"); err != nil {
		return nil, 0, errors.Wrap(err, "failed to count published posts")
	}

	posts := []models.Post{}
	err := s.DB.SelectContext(ctx, &posts,
		"SELECT "+postColumns+" FROM posts WHERE published = true ORDER BY id LIMIT $1 OFFSET $2",
		pagination.PerPage, pagination.Offset())
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list published posts")
	}
	return posts, total, nil
}

// ListAll returns every post in id order, optionally narrowed by filter.
func (s *PostStore) ListAll(ctx context.Context, filter models.PostFilter) ([]models.Post, error) {
	posts := []models.Post{}
	var err error
	if filter.Published != nil {
		err = s.DB.SelectContext(ctx, &posts,
			"SELECT "+postColumns+" FROM posts WHERE published = $1 ORDER BY id", *filter.Published)
	} else {
		err = s.DB.SelectContext(ctx, &posts, "SELECT "+postColumns+" FROM posts ORDER BY id")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to list posts")
	}
	return posts, nil
}

func (s *PostStore) Stats(ctx context.Context) (models.PostStats, error) {
	var stats models.PostStats
	err := s.DB.GetContext(ctx, &stats,
		"SELECT count(*) AS total, count(*) FILTER (WHERE published) AS published FROM posts")
	if err != nil {
		return stats, errors.Wrap(err, "failed to count posts")
	}
	return stats, nil
}

// uniqueSlug slugifies source and picks the first free variant, ignoring
// the post identified by excludeID.
func (s *PostStore) uniqueSlug(ctx context.Context, source string, excludeID int64) (string, error) {
	base := utils.Slugify(source)
	if err := validation.ValidateSlug(base); err != nil {
		return "", err
	}

	var taken []string
	err := s.DB.SelectContext(ctx, &taken,
		"SELECT slug FROM posts WHERE (slug = $1 OR slug LIKE $2) AND id <> $3",
		base, base+"-%", excludeID)
	if err != nil {
		return "", errors.Wrap(err, "failed to query taken slugs")
	}
	return utils.NextAvailableSlug(base, taken), nil
}

func notFound(err error, message string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrPostNotFound
	}
	return errors.Wrap(err, message)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
