package services

import (
	"context"

	"github.com/Rakhulsr/catalog-api/app/repositories"
	"golang.org/x/sync/errgroup"
)

type DashboardStats struct {
	TotalProducts    int64 `json:"totalProducts"`
	VisibleProducts  int64 `json:"visibleProducts"`
	FeaturedProducts int64 `json:"featuredProducts"`
	UnreadMessages   int64 `json:"unreadMessages"`
}

type DashboardService struct {
	products repositories.ProductRepositoryImpl
	messages repositories.ContactMessageRepositoryImpl
}

func NewDashboardService(products repositories.ProductRepositoryImpl, messages repositories.ContactMessageRepositoryImpl) *DashboardService {
	return &DashboardService{products: products, messages: messages}
}

// Stats runs the four counts concurrently; the first failure cancels the rest.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.TotalProducts, err = s.products.Count(ctx, nil)
		return err
	})
	g.Go(func() (err error) {
		stats.VisibleProducts, err = s.products.Count(ctx, map[string]interface{}{"visible": true})
		return err
	})
	g.Go(func() (err error) {
		stats.FeaturedProducts, err = s.products.Count(ctx, map[string]interface{}{"featured": true})
		return err
	})
	g.Go(func() (err error) {
		stats.UnreadMessages, err = s.messages.CountUnread(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
