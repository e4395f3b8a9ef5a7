package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Pu11en/peptide-website/internal/notify"
)

type RouterConfig struct {
	Products       *ProductsHandler
	Checkout       *CheckoutHandler
	Orders         *OrdersHandler
	Webhook        *WebhookHandler
	Verify         *VerifyHandler
	PaymentIntent  *PaymentIntentHandler
	Cart           *CartHandler
	ErrorReporter  *notify.ErrorReporter
	RequestTimeout time.Duration
}

func NewRouter(cfg *RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(RequestIDMiddleware)
	r.Use(RecoverMiddleware(cfg.ErrorReporter))
	r.Use(middleware.Compress(5))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		// The webhook route stays outside the request timeout wrapper so
		// order recording is never cut short mid-flight.
		r.Post("/stripe/webhook", cfg.Webhook.Receive)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(cfg.RequestTimeout))

			r.Get("/products", cfg.Products.List)
			r.Post("/create-checkout", cfg.Checkout.CreateCheckout)
			r.Post("/orders", cfg.Orders.CreateOrder)
			r.Get("/verify-payment", cfg.Verify.VerifyPayment)
			r.Post("/payment-intent", cfg.PaymentIntent.CreatePaymentIntent)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cfg.Cart.GetCart)
				r.Delete("/", cfg.Cart.ClearCart)
				r.Post("/items", cfg.Cart.AddItem)
				r.Put("/items/{slug}", cfg.Cart.UpdateQuantity)
				r.Delete("/items/{slug}", cfg.Cart.RemoveItem)
			})
		})
	})

	return r
}
