package services

import (
	"sort"
	"strings"

	"tedblog/internal/models"
)

// DefaultPostsPerPage is the blog listing page size.
const DefaultPostsPerPage = 6

// PostFilter narrows a listing. Empty Query and Category match everything.
type PostFilter struct {
	Query    string
	Category string
	Page     int
	PerPage  int
}

// Active reports whether a search or category filter is set.
func (f PostFilter) Active() bool {
	return f.Category != "" || strings.TrimSpace(f.Query) != ""
}

// PostPage is one page of a filtered listing.
type PostPage struct {
	Posts         []models.PostWithRelations `json:"posts"`
	Page          int                        `json:"page"`
	TotalPages    int                        `json:"totalPages"`
	FilteredCount int                        `json:"filteredCount"`
	TotalPosts    int                        `json:"totalPosts"`
	Categories    []string                   `json:"categories"`
	Filtered      bool                       `json:"hasActiveFilters"`
}

// CategoryNames returns the distinct category names used by posts, sorted.
func CategoryNames(posts []models.PostWithRelations) []string {
	seen := make(map[string]bool)
	names := []string{}
	for _, p := range posts {
		for _, c := range p.Categories {
			if c.Name == "" || seen[c.Name] {
				continue
			}
			seen[c.Name] = true
			names = append(names, c.Name)
		}
	}
	sort.Strings(names)
	return names
}

// MatchPost reports whether a post passes the category and search filters.
// Search is a case-insensitive substring match over title, excerpt,
// content, author name and category names.
func MatchPost(p *models.PostWithRelations, f PostFilter) bool {
	if f.Category != "" && !p.HasCategory(f.Category) {
		return false
	}

	query := strings.ToLower(strings.TrimSpace(f.Query))
	if query == "" {
		return true
	}

	contains := func(s string) bool {
		return strings.Contains(strings.ToLower(s), query)
	}
	if contains(p.Title) || contains(p.Content) {
		return true
	}
	if p.Excerpt != nil && contains(*p.Excerpt) {
		return true
	}
	if p.Author != nil && contains(p.Author.Name) {
		return true
	}
	for _, c := range p.Categories {
		if contains(c.Name) {
			return true
		}
	}
	return false
}

// FilterPosts applies f to posts and slices out the requested page. The
// page is clamped to [1, TotalPages] and TotalPages is never below 1.
func FilterPosts(posts []models.PostWithRelations, f PostFilter) PostPage {
	perPage := f.PerPage
	if perPage <= 0 {
		perPage = DefaultPostsPerPage
	}

	matched := make([]models.PostWithRelations, 0, len(posts))
	for i := range posts {
		if MatchPost(&posts[i], f) {
			matched = append(matched, posts[i])
		}
	}

	totalPages := (len(matched) + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * perPage
	end := start + perPage
	if end > len(matched) {
		end = len(matched)
	}

	return PostPage{
		Posts:         matched[start:end],
		Page:          page,
		TotalPages:    totalPages,
		FilteredCount: len(matched),
		TotalPosts:    len(posts),
		Categories:    CategoryNames(posts),
		Filtered:      f.Active(),
	}
}
