package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/prefeitura-rio/app-pessoas/internal/models"
)

// BuildPageWindow lays out the pagination bar for currentPage of totalPages.
// Up to five pages are listed in full; beyond that the first and last pages
// are always shown and gaps are marked with 0.
func BuildPageWindow(currentPage, totalPages, totalItems, perPage int) models.PageWindow {
	if totalPages < 1 {
		totalPages = 1
	}
	if currentPage < 1 {
		currentPage = 1
	}
	if currentPage > totalPages {
		currentPage = totalPages
	}
	if perPage < 1 {
		perPage = models.DefaultLimit
	}

	window := models.PageWindow{
		Pages:   pageNumbers(currentPage, totalPages),
		Visible: totalPages > 1,
	}
	if totalItems > 0 {
		window.StartItem = (currentPage-1)*perPage + 1
		window.EndItem = min(currentPage*perPage, totalItems)
	}
	return window
}

func pageNumbers(current, total int) []int {
	if total <= models.MaxVisiblePages {
		pages := make([]int, 0, total)
		for i := 1; i <= total; i++ {
			pages = append(pages, i)
		}
		return pages
	}

	switch {
	case current <= 3:
		return []int{1, 2, 3, 4, 0, total}
	case current >= total-2:
		return []int{1, 0, total - 3, total - 2, total - 1, total}
	default:
		return []int{1, 0, current - 1, current, current + 1, 0, total}
	}
}

// PageWindowFor lays out the pagination bar of a fetched page
func PageWindowFor(page models.PaginatedResponse[models.Person]) models.PageWindow {
	return BuildPageWindow(page.Page, page.TotalPages, page.Total, page.Limit)
}

// ParsePaginationParams reads page, limit and search from raw query values.
// Empty values take the defaults; malformed or out of range ones are errors.
func ParsePaginationParams(page, limit, search string) (models.PaginationParams, error) {
	params := models.PaginationParams{Search: strings.TrimSpace(search)}

	if page != "" {
		n, err := strconv.Atoi(page)
		if err != nil || n < 1 {
			return params, fmt.Errorf("invalid page %q: must be a positive integer", page)
		}
		params.Page = n
	}
	if limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 || n > models.MaxLimit {
			return params, fmt.Errorf("invalid limit %q: must be between 1 and %d", limit, models.MaxLimit)
		}
		params.Limit = n
	}
	return params.WithDefaults(), nil
}
