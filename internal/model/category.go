package model

import "sort"

// Category groups events and days under a name and colour.
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	SortOrder int    `json:"sortOrder"`
}

// CategoryPatch is a partial category update; nil fields are unchanged.
type CategoryPatch struct {
	Name      *string
	Color     *string
	SortOrder *int
}

// Apply returns c with the patch merged in.
func (p CategoryPatch) Apply(c Category) Category {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	if p.SortOrder != nil {
		c.SortOrder = *p.SortOrder
	}
	return c
}

// SortCategories orders categories by SortOrder, then name, in place.
func SortCategories(cats []Category) {
	sort.SliceStable(cats, func(i, j int) bool {
		if cats[i].SortOrder != cats[j].SortOrder {
			return cats[i].SortOrder < cats[j].SortOrder
		}
		return cats[i].Name < cats[j].Name
	})
}

// FindCategory returns the category with the given id.
func FindCategory(cats []Category, id string) (Category, bool) {
	for _, c := range cats {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}
