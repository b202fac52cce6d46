package server

import (
	"github.com/gin-gonic/gin"
)

// NewGinEngine builds the Gin router. Every route passes through the guard
// middleware, which resolves the session snapshot and enforces the route
// table; handlers past the guard can rely on the snapshot being present and
// the role requirement being satisfied.
func NewGinEngine(s *Server) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	r.Use(s.GuardMiddleware())

	// Entry surfaces: generic, vendor, admin login plus signup/logout.
	r.GET("/login", s.HandleLoginPageGin("generic"))
	r.GET("/vendor/login", s.HandleLoginPageGin("vendor"))
	r.GET("/admin/login", s.HandleLoginPageGin("admin"))
	r.POST("/auth/login", s.HandleAPILoginGin("generic"))
	r.POST("/vendor/auth/login", s.HandleAPILoginGin("vendor"))
	r.POST("/admin/auth/login", s.HandleAPILoginGin("admin"))
	r.POST("/auth/signup", s.HandleAPISignupGin)
	r.POST("/auth/logout", s.HandleAPILogoutGin)
	r.POST("/admin/login/switch", s.HandleAdminLoginSwitchGin)

	// Authenticated-any-role account endpoints (identity checked in-handler).
	r.GET("/account/role", s.HandleAPIRoleGin)
	r.POST("/auth/invite/redeem", s.HandleAPIRedeemInviteGin)

	// Public storefront.
	r.GET("/api/products", s.HandleListProductsGin)
	r.GET("/api/products/:id", s.HandleGetProductGin)
	r.GET("/api/pages/:slug", s.HandleGetPageGin)

	// Customer surface (guard: customer).
	r.GET("/api/cart", s.HandleGetCartGin)
	r.POST("/api/cart/items", s.HandleAddCartItemGin)
	r.DELETE("/api/cart/items/:productId", s.HandleRemoveCartItemGin)
	r.POST("/api/checkout", s.HandleCheckoutGin)
	r.GET("/api/orders", s.HandleListOrdersGin)
	r.GET("/api/orders/:id", s.HandleGetOrderGin)
	r.POST("/api/vendor/apply", s.HandleVendorApplyGin)
	r.GET("/api/vendor/application", s.HandleVendorApplicationGin)

	// Vendor back-office (guard: vendor).
	r.GET("/api/vendor/products", s.HandleVendorListProductsGin)
	r.POST("/api/vendor/products", s.HandleVendorCreateProductGin)
	r.PUT("/api/vendor/products/:id", s.HandleVendorUpdateProductGin)
	r.DELETE("/api/vendor/products/:id", s.HandleVendorDeleteProductGin)
	r.GET("/api/vendor/orders", s.HandleVendorListOrdersGin)
	r.POST("/api/vendor/orders/:id/status", s.HandleVendorUpdateOrderStatusGin)
	r.GET("/api/vendor/payouts", s.HandleVendorListPayoutsGin)

	// Admin console (guard: admin).
	r.GET("/api/admin/applications", s.HandleAdminListApplicationsGin)
	r.POST("/api/admin/applications/:id/approve", s.HandleAdminReviewApplicationGin(true))
	r.POST("/api/admin/applications/:id/reject", s.HandleAdminReviewApplicationGin(false))
	r.POST("/api/admin/invites", s.HandleAdminCreateInviteGin)
	r.GET("/api/admin/invites", s.HandleAdminListInvitesGin)
	r.GET("/api/admin/earnings", s.HandleAdminEarningsGin)
	r.POST("/api/admin/payouts/run", s.HandleAdminRunPayoutsGin)
	r.POST("/api/admin/payouts/:id/paid", s.HandleAdminMarkPayoutPaidGin)
	r.GET("/api/admin/pages", s.HandleAdminListPagesGin)
	r.PUT("/api/admin/pages/:slug", s.HandleAdminUpsertPageGin)
	r.DELETE("/api/admin/pages/:slug", s.HandleAdminDeletePageGin)
	r.POST("/api/admin/roles/revoke", s.HandleAdminRevokeRoleGin)

	return r
}
