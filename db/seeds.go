package db

import (
	"blog-app/models"
	"context"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// SeedFile is the YAML layout read by LoadSeedFile.
type SeedFile struct {
	Posts []models.Post `yaml:"posts"`
}

// PostCreator is the part of the store the seeder needs.
type PostCreator interface {
	Create(ctx context.Context, post *models.Post) error
}

func LoadSeedFile(path string) ([]models.Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read seed file")
	}
	var file SeedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrapf(err, "failed to parse seed file %s", path)
	}
	return file.Posts, nil
}

// SeedPosts creates posts in order and stops at the first failure.
func SeedPosts(ctx context.Context, store PostCreator, posts []models.Post) (int, error) {
	for i := range posts {
		if err := store.Create(ctx, &posts[i]); err != nil {
			return i, errors.Wrapf(err, "seed post %d (%q)", i, posts[i].Title)
		}
	}
	return len(posts), nil
}
