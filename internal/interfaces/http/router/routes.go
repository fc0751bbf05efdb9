package router

import (
	"github.com/atelier/marketplace/internal/domain/identity"
	"github.com/atelier/marketplace/internal/interfaces/http/handler"
	"github.com/atelier/marketplace/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers bundles everything mounted under /api/v1
type Handlers struct {
	Auth            *handler.AuthHandler
	Account         *handler.AccountHandler
	Storefront      *handler.StorefrontHandler
	Shopping        *handler.ShoppingHandler
	Orders          *handler.OrderHandler
	Products        *handler.ProductHandler
	Collections     *handler.CollectionHandler
	VendorCoupons   *handler.CouponHandler
	PlatformCoupons *handler.CouponHandler
	CatalogAdmin    *handler.CatalogAdminHandler
	ShippingZones   *handler.ShippingZoneHandler
	Finance         *handler.FinanceHandler
	Admin           *handler.AdminHandler
}

// Guards are the access middleware the routes are mounted behind.
// AuthLimiter and Audit are optional.
type Guards struct {
	Authenticate gin.HandlerFunc
	OptionalAuth gin.HandlerFunc
	Maintenance  gin.HandlerFunc
	AuthLimiter  gin.HandlerFunc
	Audit        gin.HandlerFunc
}

// RegisterProbes mounts the liveness and readiness probes outside the API prefix
func RegisterProbes(engine *gin.Engine, system *handler.SystemHandler) {
	engine.GET("/health", system.Health)
	engine.GET("/ready", system.Ready)
}

// MarketplaceRoutes returns the route groups of the marketplace API.
// Login, refresh and logout stay open during maintenance so admins can
// still sign in.
func MarketplaceRoutes(h Handlers, g Guards) []RouteRegistrar {
	customer := string(identity.RoleCustomer)
	professional := string(identity.RoleProfessional)
	admin := string(identity.RoleAdmin)

	auth := NewDomainGroup("auth", "/auth")
	auth.POST("/register", g.AuthLimiter, g.Maintenance, h.Auth.Register)
	auth.POST("/login", g.AuthLimiter, h.Auth.Login)
	auth.POST("/refresh", h.Auth.RefreshToken)
	auth.POST("/logout", g.Authenticate, h.Auth.Logout)
	auth.GET("/me", g.Authenticate, h.Auth.GetMe)
	auth.PUT("/me", g.Authenticate, g.Maintenance, h.Auth.UpdateMe)
	auth.PUT("/password", g.Authenticate, g.Maintenance, h.Auth.ChangePassword)

	shop := NewDomainGroup("shop", "/shop").Use(g.OptionalAuth)
	shop.GET("/products", h.Storefront.ListProducts)
	shop.GET("/products/:id", h.Storefront.GetProduct)
	shop.GET("/showcase", h.Storefront.ListShowcase)
	shop.GET("/categories", h.Storefront.ListCategories)
	shop.GET("/vendors/:slug", h.Storefront.GetVendor)
	shop.GET("/vendors/:slug/collections/:collection", h.Storefront.GetCollection)

	addresses := NewDomainGroup("addresses", "/addresses").Use(g.Authenticate, g.Maintenance)
	addresses.GET("", h.Account.ListAddresses)
	addresses.POST("", h.Account.CreateAddress)
	addresses.PUT("/:id", h.Account.UpdateAddress)
	addresses.DELETE("/:id", h.Account.DeleteAddress)
	addresses.PUT("/:id/default", h.Account.SetDefaultAddress)

	customerOnly := []gin.HandlerFunc{g.Authenticate, middleware.RequireRole(customer), g.Maintenance}

	cart := NewDomainGroup("cart", "/cart").Use(customerOnly...)
	cart.GET("", h.Shopping.GetCart)
	cart.DELETE("", h.Shopping.ClearCart)
	cart.POST("/items", h.Shopping.AddCartItem)
	cart.PUT("/items/:product_id", h.Shopping.UpdateCartItem)
	cart.DELETE("/items/:product_id", h.Shopping.RemoveCartItem)

	wishlist := NewDomainGroup("wishlist", "/wishlist").Use(customerOnly...)
	wishlist.GET("", h.Shopping.ListWishlist)
	wishlist.POST("", h.Shopping.AddToWishlist)
	wishlist.DELETE("/:product_id", h.Shopping.RemoveFromWishlist)
	wishlist.POST("/:product_id/move-to-cart", h.Shopping.MoveToCart)

	orders := NewDomainGroup("orders", "/orders").Use(customerOnly...)
	orders.POST("", h.Orders.PlaceOrder)
	orders.POST("/quote", h.Orders.Quote)
	orders.GET("", h.Orders.ListMine)
	orders.GET("/:id", h.Orders.GetMine)
	orders.POST("/:id/cancel", h.Orders.Cancel)
	orders.POST("/:id/confirm-delivery", h.Orders.ConfirmDelivery)
	orders.POST("/:id/dispute", h.Orders.OpenDispute)

	coupons := NewDomainGroup("coupons", "/coupons").Use(customerOnly...)
	coupons.POST("/preview", h.Shopping.PreviewCoupon)

	return []RouteRegistrar{
		auth, shop, addresses, cart, wishlist, orders, coupons,
		proRoutes(h, g, professional),
		adminRoutes(h, g, admin),
	}
}

func proRoutes(h Handlers, g Guards, role string) *DomainGroup {
	pro := NewDomainGroup("pro", "/pro").Use(g.Authenticate, middleware.RequireRole(role), g.Maintenance)

	pro.GET("/shop", h.Account.GetShop)
	pro.PUT("/shop", h.Account.UpdateShop)

	products := pro.Group("products", "/products")
	products.GET("", h.Products.List)
	products.POST("", h.Products.Create)
	products.GET("/:id", h.Products.Get)
	products.PUT("/:id", h.Products.Update)
	products.DELETE("/:id", h.Products.Delete)
	products.POST("/:id/submit", h.Products.Submit)
	products.POST("/:id/archive", h.Products.Archive)
	products.POST("/:id/restore", h.Products.Restore)
	products.PUT("/:id/showcase", h.Products.SetShowcase)
	products.POST("/:id/stock", h.Products.AdjustStock)
	products.POST("/:id/images", h.Products.AddImage)
	products.POST("/:id/images/upload-url", h.Products.RequestUploadURL)
	products.DELETE("/:id/images/:image_id", h.Products.RemoveImage)

	collections := pro.Group("collections", "/collections")
	collections.GET("", h.Collections.List)
	collections.POST("", h.Collections.Create)
	collections.GET("/:id", h.Collections.Get)
	collections.PUT("/:id", h.Collections.Update)
	collections.DELETE("/:id", h.Collections.Delete)
	collections.POST("/:id/items", h.Collections.AddItem)
	collections.DELETE("/:id/items/:product_id", h.Collections.RemoveItem)

	registerCouponRoutes(pro.Group("coupons", "/coupons"), h.VendorCoupons)

	orders := pro.Group("orders", "/orders")
	orders.GET("", h.Orders.ListVendorOrders)
	orders.GET("/:id", h.Orders.GetVendorOrder)
	orders.POST("/:id/ship", h.Orders.Ship)

	escrows := pro.Group("escrows", "/escrows")
	escrows.GET("", h.Finance.ListEscrows)
	escrows.GET("/balance", h.Finance.Balance)

	pro.GET("/analytics", h.Finance.VendorDashboard)
	return pro
}

func adminRoutes(h Handlers, g Guards, role string) *DomainGroup {
	admin := NewDomainGroup("admin", "/admin").Use(g.Authenticate, middleware.RequireRole(role), g.Audit)

	users := admin.Group("users", "/users")
	users.GET("", h.Admin.ListUsers)
	users.POST("/:id/suspend", h.Admin.SuspendUser)
	users.POST("/:id/reactivate", h.Admin.ReactivateUser)

	moderation := admin.Group("moderation", "/moderation/products")
	moderation.GET("/pending", h.CatalogAdmin.ListPending)
	moderation.GET("/:id", h.CatalogAdmin.GetProduct)
	moderation.POST("/:id/approve", h.CatalogAdmin.Approve)
	moderation.POST("/:id/reject", h.CatalogAdmin.Reject)
	moderation.POST("/:id/unshowcase", h.CatalogAdmin.Unshowcase)

	categories := admin.Group("categories", "/categories")
	categories.GET("", h.CatalogAdmin.ListCategories)
	categories.POST("", h.CatalogAdmin.CreateCategory)
	categories.PUT("/:id", h.CatalogAdmin.UpdateCategory)
	categories.DELETE("/:id", h.CatalogAdmin.DeleteCategory)

	zones := admin.Group("shipping-zones", "/shipping-zones")
	zones.GET("", h.ShippingZones.List)
	zones.POST("", h.ShippingZones.Create)
	zones.GET("/:id", h.ShippingZones.Get)
	zones.PUT("/:id", h.ShippingZones.Update)
	zones.DELETE("/:id", h.ShippingZones.Delete)

	registerCouponRoutes(admin.Group("coupons", "/coupons"), h.PlatformCoupons)

	orders := admin.Group("orders", "/orders")
	orders.GET("", h.Orders.AdminList)
	orders.GET("/:id", h.Orders.AdminGet)
	orders.POST("/:id/deliver", h.Orders.MarkDelivered)
	orders.POST("/:id/cancel", h.Orders.AdminCancel)
	orders.POST("/:id/resolve", h.Orders.ResolveDispute)

	admin.POST("/escrows/release-due", h.Finance.ReleaseDue)

	settings := admin.Group("settings", "/settings")
	settings.GET("", h.Admin.ListSettings)
	settings.GET("/:key", h.Admin.GetSetting)
	settings.PUT("/:key", h.Admin.PutSetting)

	admin.GET("/audit-logs", h.Admin.ListAuditLogs)
	admin.GET("/analytics/overview", h.Finance.AdminOverview)
	return admin
}

func registerCouponRoutes(group *DomainGroup, coupons *handler.CouponHandler) {
	group.GET("", coupons.List)
	group.POST("", coupons.Create)
	group.GET("/:id", coupons.Get)
	group.PUT("/:id", coupons.Update)
	group.DELETE("/:id", coupons.Delete)
	group.POST("/:id/deactivate", coupons.Deactivate)
}
