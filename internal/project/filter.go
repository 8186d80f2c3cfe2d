package project

import (
	"cmp"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

type SortOrder string

const (
	SortNewest SortOrder = "new"
	SortTitle  SortOrder = "az"
)

type ListOptions struct {
	// Query matches title, description or tech, case-insensitive.
	Query string
	// Tech keeps projects carrying this tag, case-insensitive.
	Tech string
	Sort SortOrder
}

func ParseListOptions(values url.Values) (ListOptions, error) {
	opts := ListOptions{
		Query: strings.TrimSpace(values.Get("q")),
		Tech:  strings.TrimSpace(values.Get("tech")),
		Sort:  SortOrder(strings.ToLower(strings.TrimSpace(values.Get("sort")))),
	}

	switch opts.Sort {
	case "":
		opts.Sort = SortNewest
	case SortNewest, SortTitle:
	default:
		return ListOptions{}, fmt.Errorf("unknown sort order: %s", opts.Sort)
	}

	if strings.EqualFold(opts.Tech, "all") {
		opts.Tech = ""
	}

	return opts, nil
}

// Filter returns a new slice, the input is left untouched.
func Filter(projects []Project, opts ListOptions) []Project {
	query := strings.ToLower(opts.Query)

	filtered := make([]Project, 0, len(projects))
	for _, p := range projects {
		if opts.Tech != "" && !hasTag(p, opts.Tech) {
			continue
		}
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		filtered = append(filtered, p)
	}

	switch opts.Sort {
	case SortTitle:
		slices.SortStableFunc(filtered, func(a, b Project) int {
			return cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		})
	default:
		slices.SortStableFunc(filtered, func(a, b Project) int {
			if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
				return c
			}
			return cmp.Compare(b.ID, a.ID)
		})
	}

	return filtered
}

// DistinctTech lists every tech tag once, sorted, keeping the first spelling seen.
func DistinctTech(projects []Project) []string {
	seen := map[string]bool{}
	var tags []string
	for _, p := range projects {
		for _, tag := range p.TechTags() {
			key := strings.ToLower(tag)
			if seen[key] {
				continue
			}
			seen[key] = true
			tags = append(tags, tag)
		}
	}

	slices.SortFunc(tags, func(a, b string) int {
		return cmp.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	if tags == nil {
		tags = []string{}
	}
	return tags
}

func hasTag(p Project, tech string) bool {
	for _, tag := range p.TechTags() {
		if strings.EqualFold(tag, tech) {
			return true
		}
	}
	return false
}

func matchesQuery(p Project, query string) bool {
	return strings.Contains(strings.ToLower(p.Title), query) ||
		strings.Contains(strings.ToLower(p.Description), query) ||
		strings.Contains(strings.ToLower(p.Tech), query)
}
