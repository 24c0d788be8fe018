package request

import (
	"net/url"
	"strings"

	"puremilk/pkg/utils"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

type PaginatedRequest struct {
	Page    int `json:"page" validate:"min=1"`
	PerPage int `json:"per_page" validate:"min=1,max=100"`
}

// PaginationFromQuery reads page and per_page, falling back to defaults on bad input.
func PaginationFromQuery(q url.Values) PaginatedRequest {
	return PaginatedRequest{
		Page:    utils.ParseInt(q.Get("page"), 1),
		PerPage: utils.ParseInt(q.Get("per_page"), DefaultPerPage),
	}
}

// ListCustomersFromQuery reads the customer list query string.
func ListCustomersFromQuery(q url.Values) ListCustomersRequest {
	return ListCustomersRequest{
		PaginatedRequest: PaginationFromQuery(q),
		Search:           strings.TrimSpace(q.Get("search")),
	}
}

func (p PaginatedRequest) Offset() int {
	return utils.CalculateOffset(p.Page, p.Limit())
}

func (p PaginatedRequest) Limit() int {
	if p.PerPage < 1 {
		return DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		return MaxPerPage
	}
	return p.PerPage
}
