package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fjod/aquago-storefront/internal/account"
	"github.com/fjod/aquago-storefront/internal/api"
	"github.com/fjod/aquago-storefront/internal/cart"
	"github.com/fjod/aquago-storefront/internal/catalog"
	"github.com/fjod/aquago-storefront/internal/checkout"
	"github.com/fjod/aquago-storefront/internal/config"
	"github.com/fjod/aquago-storefront/internal/consumer"
	h "github.com/fjod/aquago-storefront/internal/http"
	"github.com/fjod/aquago-storefront/internal/orders"
	"github.com/fjod/aquago-storefront/internal/session"
	"github.com/fjod/aquago-storefront/internal/storage"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// App owns every component of the storefront and their lifetimes.
type App struct {
	cfg *config.Config
	log logrus.FieldLogger
	kv  storage.KV

	API      *api.Client
	Cart     *cart.Store
	Catalog  *catalog.Service
	Checkout *checkout.Service
	Payments *checkout.PaymentFlow
	Orders   *orders.Service
	Session  *session.Gate
	Account  *account.Service

	consumer *consumer.Consumer
	server   *http.Server
}

func New(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*App, error) {
	kv, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return build(cfg, kv, log), nil
}

func build(cfg *config.Config, kv storage.KV, log logrus.FieldLogger) *App {
	tokens := session.NewTokenStore(kv, session.DefaultTokenKey)
	client := api.NewClient(cfg.API, tokens, log)
	cartStore := cart.NewStore(kv, cart.DefaultKey, log)
	gate := session.NewGate(client, tokens, kv, cartStore, log)
	client.OnUnauthorized(gate.Reset)

	catalogService := catalog.NewService(client, cartStore, log)
	checkoutService := checkout.NewService(client, cartStore, catalogService, log).
		WithTimeouts(cfg.API.Timeout, 0)
	payments := checkout.NewPaymentFlow(checkout.ReturnDetector{MerchantHost: cfg.MerchantHost}, checkoutService)

	a := &App{
		cfg:      cfg,
		log:      log,
		kv:       kv,
		API:      client,
		Cart:     cartStore,
		Catalog:  catalogService,
		Checkout: checkoutService,
		Payments: payments,
		Orders:   orders.NewService(client, log),
		Session:  gate,
		Account:  account.NewService(client, gate, log),
	}

	if len(cfg.KafkaBrokers) > 0 {
		a.consumer = consumer.NewConsumer(payments, log, cfg.KafkaTopic, cfg.KafkaGroupID, cfg.KafkaBrokers...)
	}

	a.server = &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      a.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return a
}

func (a *App) Handler() http.Handler {
	timeout := a.cfg.RequestTimeout
	cartHandler := h.NewCartHandler(a.Cart, a.Catalog, timeout, a.log)
	return h.NewRouter(h.Handlers{
		Cart:     cartHandler,
		Products: h.NewProductHandler(a.Catalog, a.Checkout, cartHandler, timeout),
		Checkout: h.NewCheckoutHandler(a.Checkout, a.Payments, timeout),
		Orders:   h.NewOrdersHandler(a.Orders, timeout),
		Session:  h.NewSessionHandler(a.Session, timeout),
		Account:  h.NewAccountHandler(a.Account, a.Session, timeout),
		Auth:     a.Session,
	}, timeout, a.log)
}

// Start loads the persisted cart, then restores the session and warms the
// catalog concurrently. Neither failure stops startup. The payment event
// consumer runs until ctx is done.
func (a *App) Start(ctx context.Context) error {
	c := a.Cart.Load(ctx)
	a.log.WithField("lines", len(c.Lines)).Info("cart loaded")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		user, err := a.Session.Restore(gctx)
		if err != nil {
			a.log.WithError(err).Warn("starting signed out")
			return nil
		}
		if user != nil {
			a.log.WithField("user_id", user.ID).Info("session restored")
		}
		return nil
	})
	g.Go(func() error {
		products := a.Catalog.Products(gctx)
		a.log.WithField("products", len(products)).Info("catalog warmed")
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if a.consumer != nil {
		go a.consumer.Run(ctx)
		a.log.WithField("brokers", a.cfg.KafkaBrokers).Info("payment event consumer started")
	}
	return nil
}

// Serve blocks until the server stops. It returns nil after Shutdown.
func (a *App) Serve() error {
	a.log.WithField("port", a.cfg.HTTPPort).Info("storefront listening")
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}
	if a.consumer != nil {
		a.consumer.Close()
	}
	if err := a.kv.Close(); err != nil {
		errs = append(errs, fmt.Errorf("storage close: %w", err))
	}
	return errors.Join(errs...)
}
