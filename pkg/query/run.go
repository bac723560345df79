package query

import (
	"context"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Run 并发执行计数和分页查询；db 不能是事务连接
func Run[T any](ctx context.Context, db *gorm.DB, c *Compiled) (Page[T], error) {
	var page Page[T]
	rows := make([]T, 0)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return db.WithContext(gctx).Model(new(T)).Scopes(c.Where).Count(&page.TotalCount).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Model(new(T)).Scopes(c.Where).
			Select(c.entity.Table + ".*").Scopes(c.Window).Find(&rows).Error
	})
	if err := g.Wait(); err != nil {
		return Page[T]{}, err
	}

	page.Rows = rows
	return page, nil
}

// Find 按编译条件查询全部行，不计数，可在事务中使用
func Find[T any](ctx context.Context, db *gorm.DB, c *Compiled) ([]T, error) {
	rows := make([]T, 0)
	err := db.WithContext(ctx).Model(new(T)).Scopes(c.Where).
		Select(c.entity.Table + ".*").Scopes(c.Window).Find(&rows).Error
	return rows, err
}
