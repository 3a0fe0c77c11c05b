package orders

import (
	"context"
	"fmt"

	"github.com/fjod/aquago-storefront/internal/domain"
	"github.com/sirupsen/logrus"
)

type OrderAPI interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	CancelOrder(ctx context.Context, id string) (*domain.Order, error)
	MarkOrderCompleted(ctx context.Context, id string) (*domain.Order, error)
}

// Service exposes orders as the server reports them. Status is never
// changed locally; every transition is a request followed by a re-read.
type Service struct {
	api OrderAPI
	log logrus.FieldLogger
}

func NewService(api OrderAPI, log logrus.FieldLogger) *Service {
	return &Service{api: api, log: log.WithField("component", "orders")}
}

// List degrades to an empty list when the server cannot be read.
func (s *Service) List(ctx context.Context) []domain.Order {
	orders, err := s.api.ListOrders(ctx)
	if err != nil {
		s.log.WithError(err).Warn("failed to list orders")
		return []domain.Order{}
	}
	return orders
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.api.GetOrder(ctx, id)
}

func (s *Service) Cancel(ctx context.Context, id string) (*domain.Order, error) {
	return s.transition(ctx, id, domain.ActionCancel, s.api.CancelOrder)
}

func (s *Service) Complete(ctx context.Context, id string) (*domain.Order, error) {
	return s.transition(ctx, id, domain.ActionComplete, s.api.MarkOrderCompleted)
}

// PaymentURL returns the redirect for a Pending order that has one.
func (s *Service) PaymentURL(ctx context.Context, id string) (string, error) {
	order, err := s.api.GetOrder(ctx, id)
	if err != nil {
		return "", err
	}
	if !order.Can(domain.ActionPay) {
		return "", fmt.Errorf("%w: %s %s", ErrActionNotAllowed, domain.ActionPay, order.Status)
	}
	return order.PaymentURL(), nil
}

func (s *Service) transition(
	ctx context.Context,
	id string,
	action domain.Action,
	send func(context.Context, string) (*domain.Order, error)) (*domain.Order, error) {

	current, err := s.api.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Can(action) {
		return nil, fmt.Errorf("%w: %s %s", ErrActionNotAllowed, action, current.Status)
	}

	log := s.log.WithFields(logrus.Fields{"order_id": id, "action": string(action)})
	if _, err := send(ctx, id); err != nil {
		log.WithError(err).Error("order transition request failed")
		return nil, fmt.Errorf("failed to %s order: %w", action, err)
	}

	updated, err := s.api.GetOrder(ctx, id)
	if err != nil {
		// the transition went through; the caller re-reads on the next load
		log.WithError(err).Warn("failed to refresh order after transition")
		return current, nil
	}
	log.WithField("status", updated.Status.String()).Info("order transitioned")
	return updated, nil
}
