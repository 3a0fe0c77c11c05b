package catalog

import (
	"context"

	"github.com/fjod/aquago-storefront/internal/domain"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

type ProductReader interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

type CartReader interface {
	Lines() []domain.CartLine
}

// Service fetches the catalog fresh on every load.
type Service struct {
	products ProductReader
	cart     CartReader
	log      logrus.FieldLogger
	sfg      singleflight.Group // collapses concurrent catalog loads
}

func NewService(products ProductReader, cart CartReader, log logrus.FieldLogger) *Service {
	return &Service{
		products: products,
		cart:     cart,
		log:      log.WithField("component", "catalog"),
	}
}

// Products returns the live listing. A failed fetch degrades to an empty listing.
func (s *Service) Products(ctx context.Context) []domain.Product {
	v, err, _ := s.sfg.Do("products", func() (interface{}, error) {
		return s.products.ListProducts(ctx)
	})
	if err != nil {
		s.log.WithError(err).Warn("catalog fetch failed, using empty catalog")
		return []domain.Product{}
	}
	products := v.([]domain.Product)
	if products == nil {
		return []domain.Product{}
	}
	out := make([]domain.Product, len(products))
	copy(out, products)
	return out
}

func (s *Service) Product(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetProduct(ctx, id)
}

// CartView joins a fresh catalog fetch against the current cart lines.
func (s *Service) CartView(ctx context.Context) View {
	return Join(s.Products(ctx), s.cart.Lines())
}
