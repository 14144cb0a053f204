package repository

import (
	"context"

	"gorm.io/gorm"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest is 1-based. Zero values select the defaults.
type PageRequest struct {
	Page     int
	PageSize int
}

// Normalized clamps the request into the supported window.
func (p PageRequest) Normalized() PageRequest {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	switch {
	case p.PageSize < 1:
		p.PageSize = DefaultPageSize
	case p.PageSize > MaxPageSize:
		p.PageSize = MaxPageSize
	}
	return p
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type PageResult[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	Total      int64
	TotalPages int
}

// findPage counts the rows matched by query and loads one page of them,
// newest first. Items is never nil.
func findPage[T any](ctx context.Context, query *gorm.DB, req PageRequest) (PageResult[T], error) {
	req = req.Normalized()
	out := PageResult[T]{Items: []T{}, Page: req.Page, PageSize: req.PageSize}

	query = query.WithContext(ctx).Session(&gorm.Session{})
	if err := query.Count(&out.Total).Error; err != nil {
		return PageResult[T]{}, err
	}
	if out.Total > 0 {
		if err := query.Order("id desc").Offset(req.Offset()).Limit(req.PageSize).Find(&out.Items).Error; err != nil {
			return PageResult[T]{}, err
		}
	}
	out.TotalPages = int((out.Total + int64(req.PageSize) - 1) / int64(req.PageSize))
	return out, nil
}
