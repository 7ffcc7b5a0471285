package config

import "github.com/runnerr0/montycal/internal/model"

func defaultCategories() []CategoryConfig {
	return []CategoryConfig{
		{Name: "Dad", Color: "#3b82f6"},
		{Name: "Mom", Color: "#ec4899"},
		{Name: "Kids", Color: "#8b5cf6"},
		{Name: "Family", Color: "#10b981"},
		{Name: "Travel", Color: "#f59e0b"},
		{Name: "School", Color: "#ef4444"},
		{Name: "Work", Color: "#6366f1"},
		{Name: "Holiday", Color: "#14b8a6"},
	}
}

// SeedCategories returns the categories to seed an empty store with, or nil
// when seeding is disabled. IDs are left empty for the store to assign.
func (c *Config) SeedCategories() []model.Category {
	if !c.Calendar.SeedDefaultCategories {
		return nil
	}
	out := make([]model.Category, len(c.Calendar.DefaultCategories))
	for i, cc := range c.Calendar.DefaultCategories {
		out[i] = model.Category{Name: cc.Name, Color: cc.Color, SortOrder: i}
	}
	return out
}
