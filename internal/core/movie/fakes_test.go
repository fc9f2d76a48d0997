// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

// memoryRepository is an in-memory [Repository] keyed by ID.
type memoryRepository struct {
	movies map[string]*Movie
	err    error
}

func newMemoryRepository(movies ...*Movie) *memoryRepository {
	repo := &memoryRepository{movies: map[string]*Movie{}}
	for _, movie := range movies {
		repo.movies[movie.ID] = movie
	}
	return repo
}

func (repo *memoryRepository) Create(_ context.Context, movie *Movie) (bool, error) {
	if repo.err != nil {
		return false, repo.err
	}
	copied := *movie
	repo.movies[movie.ID] = &copied
	return true, nil
}

func (repo *memoryRepository) GetByID(_ context.Context, id, _ string) (*Movie, error) {
	if repo.err != nil {
		return nil, repo.err
	}
	return repo.movies[id], nil
}

func (repo *memoryRepository) GetBySlug(_ context.Context, slug, _ string) (*Movie, error) {
	if repo.err != nil {
		return nil, repo.err
	}
	for _, movie := range repo.movies {
		if movie.Slug() == slug {
			return movie, nil
		}
	}
	return nil, nil
}

func (repo *memoryRepository) GetAll(_ context.Context, _ GetAllOptions) ([]*Movie, error) {
	all := make([]*Movie, 0, len(repo.movies))
	for _, movie := range repo.movies {
		all = append(all, movie)
	}
	return all, repo.err
}

func (repo *memoryRepository) GetCount(_ context.Context, _ *string, _ *int) (int, error) {
	return len(repo.movies), repo.err
}

func (repo *memoryRepository) Update(_ context.Context, movie *Movie) (bool, error) {
	if repo.err != nil {
		return false, repo.err
	}
	if _, ok := repo.movies[movie.ID]; !ok {
		return false, nil
	}
	copied := *movie
	repo.movies[movie.ID] = &copied
	return true, nil
}

func (repo *memoryRepository) DeleteByID(_ context.Context, id string) (bool, error) {
	if repo.err != nil {
		return false, repo.err
	}
	_, ok := repo.movies[id]
	delete(repo.movies, id)
	return ok, nil
}

func (repo *memoryRepository) ExistsByID(_ context.Context, id string) (bool, error) {
	_, ok := repo.movies[id]
	return ok, repo.err
}

// freezeYear pins currentYear for the duration of a test.
func freezeYear(t *testing.T, year int) {
	t.Helper()
	previous := currentYear
	currentYear = func() int { return year }
	t.Cleanup(func() { currentYear = previous })
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
