package catalog

import (
	domain "github.com/example/storefront/domain/catalog"
)

// FindCategory returns the category with the given id from a materialized
// list, or nil.
func FindCategory(categories []*domain.Category, id uint) *domain.Category {
	for _, c := range categories {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Children returns the categories whose parent is the given id.
func Children(categories []*domain.Category, id uint) []*domain.Category {
	var result []*domain.Category
	for _, c := range categories {
		if c.Parent == int(id) {
			result = append(result, c)
		}
	}
	return result
}

// Breadcrumb renders the parent chain of a category as "root / ... / leaf".
// The tree is not validated for acyclicity at write time, so the walk keeps
// a visited set and stops on a repeated id.
func Breadcrumb(categories []*domain.Category, id int) string {
	if id == domain.RootCategory {
		return ""
	}
	visited := make(map[int]bool)
	return breadcrumb(categories, id, visited)
}

func breadcrumb(categories []*domain.Category, id int, visited map[int]bool) string {
	if id == domain.RootCategory || visited[id] {
		return ""
	}
	visited[id] = true
	for _, c := range categories {
		if int(c.ID) != id {
			continue
		}
		prefix := breadcrumb(categories, c.Parent, visited)
		if prefix == "" {
			return c.Name
		}
		return prefix + " / " + c.Name
	}
	return ""
}
