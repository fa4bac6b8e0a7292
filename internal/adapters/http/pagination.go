package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// PageMeta contains page-based pagination info.
type PageMeta struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	Total       int  `json:"total"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

// NewPageMeta derives pagination metadata from a page request and total count.
func NewPageMeta(page, limit, total int) PageMeta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return PageMeta{
		CurrentPage: page,
		TotalPages:  totalPages,
		Total:       total,
		HasNext:     page*limit < total,
		HasPrev:     page > 1,
	}
}

// SetLinkHeaders adds RFC 8288 Link headers for paginated responses.
func SetLinkHeaders(c *fiber.Ctx, page, limit, totalPages int) {
	base := c.Path()
	var links []string

	links = append(links, fmt.Sprintf(`<%s?page=1&limit=%d>; rel="first"`, base, limit))

	if page > 1 {
		links = append(links, fmt.Sprintf(`<%s?page=%d&limit=%d>; rel="prev"`, base, page-1, limit))
	}
	if page < totalPages {
		links = append(links, fmt.Sprintf(`<%s?page=%d&limit=%d>; rel="next"`, base, page+1, limit))
	}

	last := totalPages
	if last < 1 {
		last = 1
	}
	links = append(links, fmt.Sprintf(`<%s?page=%d&limit=%d>; rel="last"`, base, last, limit))

	c.Set("Link", strings.Join(links, ", "))
}
