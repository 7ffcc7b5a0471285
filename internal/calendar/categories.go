package calendar

import (
	"context"
	"fmt"
	"slices"

	"github.com/runnerr0/montycal/internal/model"
)

// SeedCategories persists defaults, with fresh ids, when the category list
// is empty. It reports whether seeding happened. Run it once at startup.
func (s *Store) SeedCategories(ctx context.Context, defaults []model.Category) (bool, error) {
	if err := s.ensureLoaded(); err != nil {
		return false, err
	}
	if len(s.categories) > 0 || len(defaults) == 0 {
		return false, nil
	}

	seeded := make([]model.Category, len(defaults))
	for i, c := range defaults {
		c.ID = s.newID()
		seeded[i] = c
	}

	if err := s.saveCategories(ctx, seeded); err != nil {
		return false, err
	}
	s.logger.Info("seeded default categories", "count", len(seeded))
	return true, nil
}

// Categories returns the category list ordered by sort order, then name.
func (s *Store) Categories() []model.Category {
	out := slices.Clone(s.categories)
	model.SortCategories(out)
	return out
}

// Category returns the category with the given id.
func (s *Store) Category(id string) (model.Category, bool) {
	return model.FindCategory(s.categories, id)
}

// AddCategory appends a category at the end of the sort order.
func (s *Store) AddCategory(ctx context.Context, name, color string) (model.Category, error) {
	if err := s.ensureLoaded(); err != nil {
		return model.Category{}, err
	}

	c := model.Category{
		ID:        s.newID(),
		Name:      name,
		Color:     color,
		SortOrder: len(s.categories),
	}
	next := append(slices.Clone(s.categories), c)
	if err := s.saveCategories(ctx, next); err != nil {
		return model.Category{}, err
	}
	return c, nil
}

// UpdateCategory merges patch into the category with the given id. Unknown
// ids are a no-op.
func (s *Store) UpdateCategory(ctx context.Context, id string, patch model.CategoryPatch) error {
	if err := s.ensureLoaded(); err != nil {
		return err
	}

	idx := slices.IndexFunc(s.categories, func(c model.Category) bool { return c.ID == id })
	if idx < 0 {
		return nil
	}
	next := slices.Clone(s.categories)
	next[idx] = patch.Apply(next[idx])
	return s.saveCategories(ctx, next)
}

// DeleteCategory removes the category. Events and days that reference it
// keep the dangling id and fall back to default colours when rendered.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	if err := s.ensureLoaded(); err != nil {
		return err
	}

	if !slices.ContainsFunc(s.categories, func(c model.Category) bool { return c.ID == id }) {
		return nil
	}
	next := slices.DeleteFunc(slices.Clone(s.categories), func(c model.Category) bool { return c.ID == id })
	return s.saveCategories(ctx, next)
}

func (s *Store) saveCategories(ctx context.Context, categories []model.Category) error {
	if err := s.repo.SaveCategories(ctx, categories); err != nil {
		return fmt.Errorf("save categories: %w", err)
	}
	s.categories = categories
	return nil
}
