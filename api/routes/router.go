package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/marketplace-backend/api/controllers"
	"github.com/angelmondragon/marketplace-backend/api/middleware"
	"github.com/angelmondragon/marketplace-backend/internal/address"
	"github.com/angelmondragon/marketplace-backend/internal/auth"
	"github.com/angelmondragon/marketplace-backend/internal/cart"
	"github.com/angelmondragon/marketplace-backend/internal/categories"
	"github.com/angelmondragon/marketplace-backend/internal/checkout"
	"github.com/angelmondragon/marketplace-backend/internal/customers"
	"github.com/angelmondragon/marketplace-backend/internal/dashboard"
	"github.com/angelmondragon/marketplace-backend/internal/delivery"
	"github.com/angelmondragon/marketplace-backend/internal/earnings"
	"github.com/angelmondragon/marketplace-backend/internal/notifications"
	"github.com/angelmondragon/marketplace-backend/internal/orders"
	"github.com/angelmondragon/marketplace-backend/internal/partners"
	"github.com/angelmondragon/marketplace-backend/internal/products"
	"github.com/angelmondragon/marketplace-backend/internal/reviews"
	"github.com/angelmondragon/marketplace-backend/internal/support"
	"github.com/angelmondragon/marketplace-backend/internal/vendors"
	"github.com/angelmondragon/marketplace-backend/internal/wishlist"
	"github.com/angelmondragon/marketplace-backend/pkg/auth/session"
	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/metrics"
)

// CacheStore is the Redis surface the router needs for idempotency, auth
// throttling and readiness.
type CacheStore interface {
	middleware.IdempotencyStore
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
	Ping(ctx context.Context) error
}

// Services carries every domain service mounted by the router. A nil
// service answers its routes with an internal error.
type Services struct {
	Auth          auth.Service
	Vendors       vendors.Service
	Customers     customers.Service
	Partners      partners.Service
	Categories    categories.Service
	Products      products.Service
	Catalog       products.Catalog
	Cart          cart.Service
	Wishlist      wishlist.Service
	Addresses     address.Service
	Checkout      checkout.Service
	Orders        orders.Service
	VendorOrders  orders.VendorService
	AdminOrders   orders.AdminService
	Delivery      delivery.Service
	Earnings      earnings.Service
	Reviews       reviews.Service
	Support       support.Service
	AdminSupport  support.AdminService
	Notifications notifications.Service
	Dashboard     dashboard.Service
}

// Params bundles the router's infrastructure dependencies.
type Params struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Cache    CacheStore
	Sessions session.Checker
	Metrics  *metrics.HTTPMetrics
	Services Services
}

func NewRouter(p Params) http.Handler {
	cfg, logg, svc := p.Config, p.Logger, p.Services

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)
	if p.Metrics != nil {
		r.Use(middleware.Metrics(p.Metrics))
	}
	r.Use(
		middleware.CORS(cfg.App.AllowedOrigins()),
		middleware.RateLimit(cfg.APIRateLimit, logg),
	)

	limits := cfg.AuthRateLimit
	loginPolicy := middleware.NewAuthRateLimitPolicy("login", limits.LoginWindow, limits.LoginIPLimit, "email", limits.LoginEmailLimit)
	sendOTPPolicy := middleware.NewAuthRateLimitPolicy("send_otp", limits.OTPWindow, limits.OTPIPLimit, "mobile", limits.OTPMobileLimit)
	verifyOTPPolicy := middleware.NewAuthRateLimitPolicy("verify_otp", limits.VerifyWindow, limits.OTPIPLimit, "mobile", limits.VerifyMobileLimit)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(logg, map[string]controllers.Pinger{
			"database": p.DB,
			"redis":    p.Cache,
		}))
	})
	r.Handle("/metrics", promhttp.Handler())

	// protected mounts the authenticated subtree for one role.
	protected := func(r chi.Router, role enums.Role, mount func(r chi.Router)) {
		r.Group(func(r chi.Router) {
			r.Use(
				middleware.Auth(cfg.JWT, p.Sessions, logg),
				middleware.RequireRole(role, logg),
				middleware.Idempotency(p.Cache, logg),
			)
			r.Post("/logout", controllers.Logout(svc.Auth, logg))
			r.Get("/notifications", controllers.ListNotifications(svc.Notifications, logg))
			r.Post("/notifications/read-all", controllers.MarkAllNotificationsRead(svc.Notifications, logg))
			r.Post("/notifications/{id}/read", controllers.MarkNotificationRead(svc.Notifications, logg))
			mount(r)
		})
	}

	// otp mounts the public sign-in endpoints for the OTP roles.
	otp := func(r chi.Router, role enums.Role) {
		r.With(middleware.AuthRateLimit(sendOTPPolicy, p.Cache, logg)).Post("/send-otp", controllers.SendOTP(svc.Auth, role, logg))
		r.With(middleware.AuthRateLimit(verifyOTPPolicy, p.Cache, logg)).Post("/verify-otp", controllers.VerifyOTP(svc.Auth, role, logg))
	}

	r.Route("/admin", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, p.Cache, logg)).Post("/login", controllers.AdminLogin(svc.Auth, logg))

		protected(r, enums.RoleAdmin, func(r chi.Router) {
			r.Get("/dashboard", controllers.Dashboard(svc.Dashboard, logg))

			r.Route("/manage", func(r chi.Router) {
				r.Get("/categories", controllers.AdminListCategories(svc.Categories, logg))
				r.Post("/categories", controllers.AdminCreateCategory(svc.Categories, logg))
				r.Put("/categories/{id}", controllers.AdminUpdateCategory(svc.Categories, logg))
				r.Delete("/categories/{id}", controllers.AdminDeleteCategory(svc.Categories, logg))

				r.Get("/vendors", controllers.AdminListVendors(svc.Vendors, logg))
				r.Post("/vendors", controllers.AdminCreateVendor(svc.Vendors, logg))
				r.Post("/vendors/{id}", controllers.AdminUpdateVendor(svc.Vendors, logg))
				r.Post("/vendors/{id}/status", controllers.AdminUpdateVendorStatus(svc.Vendors, logg))

				r.Get("/customers", controllers.AdminListCustomers(svc.Customers, logg))
				r.Post("/customers/{id}/status", controllers.AdminUpdateCustomerStatus(svc.Customers, logg))

				r.Get("/delivery-partners", controllers.AdminListPartners(svc.Partners, logg))
				r.Post("/delivery-partners", controllers.AdminCreatePartner(svc.Partners, logg))
				r.Post("/delivery-partners/verify/{id}", controllers.AdminVerifyPartner(svc.Partners, logg))
				r.Post("/delivery-partners/{id}/status", controllers.AdminUpdatePartnerStatus(svc.Partners, logg))

				r.Get("/orders", controllers.AdminListOrders(svc.AdminOrders, logg))
				r.Get("/orders/{id}", controllers.AdminOrderDetail(svc.AdminOrders, logg))
				r.Post("/orders/{id}/status", controllers.AdminUpdateOrderStatus(svc.AdminOrders, logg))

				r.Get("/support-tickets", controllers.AdminListTickets(svc.AdminSupport, logg))
				r.Get("/support-tickets/{id}", controllers.AdminTicketDetail(svc.AdminSupport, logg))
				r.Post("/support-tickets/{id}/reply", controllers.AdminReplyTicket(svc.AdminSupport, logg))
				r.Put("/support-tickets/{id}/status", controllers.AdminUpdateTicketStatus(svc.AdminSupport, logg))

				r.Get("/reviews", controllers.AdminListPendingReviews(svc.Reviews, logg))
				r.Post("/reviews/{id}/approve", controllers.AdminApproveReview(svc.Reviews, logg))
			})
		})
	})

	r.Route("/vendor", func(r chi.Router) {
		otp(r, enums.RoleVendor)

		protected(r, enums.RoleVendor, func(r chi.Router) {
			r.Get("/dashboard", controllers.Dashboard(svc.Dashboard, logg))
			r.Get("/profile", controllers.VendorProfile(svc.Vendors, logg))
			r.Post("/profile", controllers.VendorUpdateProfile(svc.Vendors, logg))

			r.Get("/products", controllers.VendorListProducts(svc.Products, logg))
			r.Post("/products", controllers.VendorCreateProduct(svc.Products, logg))
			r.Post("/products/{id}", controllers.VendorUpdateProduct(svc.Products, logg))
			r.Post("/products/{id}/stock", controllers.VendorUpdateStock(svc.Products, logg))
			r.Delete("/products/{id}", controllers.VendorDeleteProduct(svc.Products, logg))

			r.Get("/orders", controllers.VendorListOrders(svc.VendorOrders, logg))
			r.Get("/orders/{id}", controllers.VendorOrderDetail(svc.VendorOrders, logg))
			r.Post("/orders/{id}/status", controllers.VendorUpdateOrderStatus(svc.VendorOrders, logg))

			r.Get("/earnings", controllers.ListEarnings(svc.Earnings, logg))
		})
	})

	r.Route("/delivery", func(r chi.Router) {
		otp(r, enums.RoleDelivery)

		protected(r, enums.RoleDelivery, func(r chi.Router) {
			r.Get("/dashboard", controllers.Dashboard(svc.Dashboard, logg))
			r.Get("/profile", controllers.PartnerProfile(svc.Partners, logg))
			r.Post("/profile", controllers.PartnerUpdateProfile(svc.Partners, logg))
			r.Put("/availability", controllers.SetAvailability(svc.Delivery, logg))
			r.Post("/location", controllers.UpdateLocation(svc.Delivery, logg))

			r.Get("/tasks/available", controllers.AvailableTasks(svc.Delivery, logg))
			r.Get("/tasks", controllers.MyTasks(svc.Delivery, logg))
			r.Get("/tasks/{id}", controllers.TaskDetail(svc.Delivery, logg))
			r.Post("/tasks/{id}/accept", controllers.AcceptTask(svc.Delivery, logg))
			r.Post("/tasks/{id}/status", controllers.UpdateTaskStatus(svc.Delivery, logg))

			r.Get("/earnings", controllers.ListEarnings(svc.Earnings, logg))
			r.Get("/earnings/summary", controllers.EarningsSummary(svc.Earnings, logg))
		})
	})

	r.Route("/customer", func(r chi.Router) {
		otp(r, enums.RoleCustomer)

		protected(r, enums.RoleCustomer, func(r chi.Router) {
			r.Get("/profile", controllers.CustomerProfile(svc.Customers, logg))
			r.Post("/profile", controllers.CustomerUpdateProfile(svc.Customers, logg))

			r.Get("/home", controllers.CatalogHome(svc.Catalog, logg))
			r.Get("/categories", controllers.CategoryTree(svc.Categories, logg))
			r.Get("/categories/{id}/products", controllers.CategoryProducts(svc.Catalog, logg))
			r.Get("/products/search", controllers.SearchProducts(svc.Catalog, logg))
			r.Get("/products/{id}", controllers.ProductDetail(svc.Catalog, logg))

			r.Get("/cart", controllers.GetCart(svc.Cart, logg))
			r.Post("/cart", controllers.AddToCart(svc.Cart, logg))
			r.Delete("/cart", controllers.ClearCart(svc.Cart, logg))
			r.Post("/cart/{id}", controllers.UpdateCartItem(svc.Cart, logg))
			r.Delete("/cart/{id}", controllers.RemoveCartItem(svc.Cart, logg))

			r.Get("/wishlist", controllers.ListWishlist(svc.Wishlist, logg))
			r.Post("/wishlist", controllers.AddToWishlist(svc.Wishlist, logg))
			r.Delete("/wishlist/{productId}", controllers.RemoveFromWishlist(svc.Wishlist, logg))

			r.Get("/addresses", controllers.ListAddresses(svc.Addresses, logg))
			r.Post("/addresses", controllers.CreateAddress(svc.Addresses, logg))
			r.Post("/addresses/{id}", controllers.UpdateAddress(svc.Addresses, logg))
			r.Delete("/addresses/{id}", controllers.DeleteAddress(svc.Addresses, logg))
			r.Post("/addresses/{id}/default", controllers.SetDefaultAddress(svc.Addresses, logg))

			r.Get("/orders", controllers.ListOrders(svc.Orders, logg))
			r.Post("/orders", controllers.PlaceOrder(svc.Checkout, logg))
			r.Get("/orders/{id}", controllers.OrderDetail(svc.Orders, logg))
			r.Post("/orders/{id}/cancel", controllers.CancelOrder(svc.Orders, logg))

			r.Post("/reviews", controllers.SubmitReview(svc.Reviews, logg))

			r.Get("/support-tickets", controllers.ListTickets(svc.Support, logg))
			r.Post("/support-tickets", controllers.CreateTicket(svc.Support, logg))
			r.Get("/support-tickets/{id}", controllers.TicketDetail(svc.Support, logg))
			r.Post("/support-tickets/{id}/reply", controllers.ReplyTicket(svc.Support, logg))
		})
	})

	return r
}
