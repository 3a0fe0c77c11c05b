package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Handlers struct {
	Cart     *CartHandler
	Products *ProductHandler
	Checkout *CheckoutHandler
	Orders   *OrdersHandler
	Session  *SessionHandler
	Account  *AccountHandler

	// Auth guards the routes that need a signed-in user.
	Auth Authenticator
}

func NewRouter(h Handlers, requestTimeout time.Duration, log logrus.FieldLogger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(RequestLogger(log))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.GetCart)
			r.Delete("/", h.Cart.ClearCart)
			r.Post("/items", h.Cart.AddItem)
			r.Post("/items/{product_id}/increment", h.Cart.Increment)
			r.Post("/items/{product_id}/decrement", h.Cart.Decrement)
			r.Delete("/items/{product_id}", h.Cart.RemoveItem)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Products.ListProducts)
			r.Get("/{id}", h.Products.GetProduct)
			r.Post("/{id}/buy", h.Products.BuyNow)
		})

		r.Route("/session", func(r chi.Router) {
			r.Get("/", h.Session.GetSession)
			r.Post("/login", h.Session.Login)
			r.Post("/register", h.Session.Register)
			r.Post("/logout", h.Session.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireSession(h.Auth))

			r.Post("/checkout", h.Checkout.Checkout)
			r.Post("/payment/navigation", h.Checkout.Navigated)

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", h.Orders.ListOrders)
				r.Get("/{id}", h.Orders.GetOrder)
				r.Get("/{id}/payment", h.Orders.PaymentURL)
				r.Post("/{id}/cancel", h.Orders.CancelOrder)
				r.Post("/{id}/complete", h.Orders.CompleteOrder)
			})

			r.Route("/account", func(r chi.Router) {
				r.Get("/", h.Account.GetProfile)
				r.Put("/", h.Account.UpdateProfile)
				r.Post("/password", h.Account.ChangePassword)
				r.Get("/dashboard", h.Account.GetDashboard)
				r.Post("/image", h.Account.UploadImage)
			})
		})
	})

	return otelhttp.NewHandler(r, "storefront")
}
