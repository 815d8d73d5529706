package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"casadimoda-backend/internal/config"
	"casadimoda-backend/internal/database"
	"casadimoda-backend/internal/handlers"
	"casadimoda-backend/internal/mailer"
	"casadimoda-backend/internal/middleware"
)

func main() {
	config.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	handlers.SetLogger(logger)

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		logger.WithError(err).Fatal("mongodb connection failed")
	}

	db := client.Database(config.AppEnv.DBName)
	logger.WithField("db", db.Name()).Info("mongodb connected")

	if err := database.EnsureIndexes(db, logger); err != nil {
		logger.WithError(err).Warn("index creation incomplete")
	}

	mail := mailer.New(
		config.AppEnv.SendGridAPIKey,
		config.AppEnv.EmailFrom,
		config.AppEnv.EmailFromName,
		logger,
	)

	secret := config.AppEnv.JWTSecret
	accessTTL := config.AppEnv.AccessTokenTTL

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.AppEnv.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(middleware.AccessGate(secret))

	r.LoadHTMLGlob("templates/**/*")
	r.Static("/public", "./public")

	// browser pages, the gate handles the admin/supplier redirects
	r.GET("/", handlers.HomePage)
	r.GET("/signin", handlers.SignInPage)
	r.GET("/become-supplier", handlers.BecomeSupplierPage)
	r.GET("/admin", handlers.AdminDashboardPage)
	r.GET("/admin/suppliers", handlers.AdminSuppliersPage)
	r.GET("/admin/approvals", handlers.AdminApprovalsPage)
	r.GET("/admin/orders", handlers.AdminOrdersPage)
	r.GET("/supplier", handlers.SupplierDashboardPage)

	// public API
	r.POST("/api/auth/register", handlers.Register(db, secret, accessTTL))
	r.POST("/api/auth/login", handlers.Login(db, secret, accessTTL))
	r.GET("/api/search", handlers.Search(db))
	r.GET("/api/products/:slug", handlers.GetProductBySlug(db))
	r.GET("/api/categories", handlers.GetCategories(db))
	r.GET("/api/brands", handlers.GetBrands(db))
	r.GET("/api/suppliers/:slug", handlers.GetSupplierBySlug(db))
	r.GET("/api/coupons/validate", handlers.ValidateCoupon(db))

	user := r.Group("/api")
	user.Use(middleware.UserAuth(secret, logger))
	{
		user.GET("/auth/me", handlers.GetMe(db))

		user.GET("/wishlist", handlers.GetWishlist(db))
		user.POST("/wishlist", handlers.AddToWishlist(db))
		user.DELETE("/wishlist/:productId", handlers.RemoveFromWishlist(db))

		user.POST("/orders", handlers.CreateOrder(db))
		user.GET("/orders/mine", handlers.GetMyOrders(db))
		user.GET("/orders/:id", handlers.GetOrderByID(db))

		user.GET("/users/addresses", handlers.GetAddresses(db))
		user.POST("/users/addresses", handlers.AddAddress(db))
		user.PUT("/users/addresses/:addressId", handlers.UpdateAddress(db))
		user.DELETE("/users/addresses/:addressId", handlers.DeleteAddress(db))

		user.GET("/gift-cards/balance", handlers.GetGiftCardBalance(db))

		// gate-exempt, any signed-in customer may apply
		user.POST("/supplier/register", handlers.RegisterSupplier(db, secret, accessTTL))
	}

	// the access gate already enforces the supplier role on this prefix
	supplier := r.Group("/api/supplier")
	{
		supplier.GET("/summary", handlers.GetSupplierSummary(db))
		supplier.GET("/products", handlers.GetSupplierProducts(db))
		supplier.POST("/products", handlers.CreateSupplierProduct(db))
		supplier.PUT("/products/:id", handlers.UpdateSupplierProduct(db))
		supplier.DELETE("/products/:id", handlers.DeleteSupplierProduct(db))
	}

	// admin role enforced by the gate as well
	admin := r.Group("/api/admin")
	{
		admin.GET("/summary", handlers.GetAdminSummary(db))

		admin.GET("/products", handlers.GetAllProductsAdmin(db))
		admin.POST("/products", handlers.CreateAdminProduct(db))
		admin.PUT("/products/:id", handlers.UpdateAdminProduct(db))
		admin.DELETE("/products/:id", handlers.DeleteAdminProduct(db))
		admin.GET("/products/approve", handlers.GetApprovalQueue(db))
		admin.PUT("/products/approve", handlers.DecideProductApproval(db, mail))

		admin.GET("/suppliers", handlers.GetAllSuppliers(db))
		admin.PUT("/suppliers/:id/status", handlers.UpdateSupplierStatus(db, mail))

		admin.GET("/orders", handlers.GetAllOrders(db))
		admin.PUT("/orders/:id/pay", handlers.MarkOrderPaid(db))
		admin.PUT("/orders/:id/deliver", handlers.MarkOrderDelivered(db))
		admin.DELETE("/orders/:id", handlers.DeleteOrder(db))

		admin.GET("/brands", handlers.GetAllBrandsAdmin(db))
		admin.POST("/brands", handlers.CreateBrand(db))
		admin.PUT("/brands/:id", handlers.UpdateBrand(db))
		admin.DELETE("/brands/:id", handlers.DeleteBrand(db))

		admin.GET("/categories", handlers.GetAllCategoriesAdmin(db))
		admin.POST("/categories", handlers.CreateCategory(db))
		admin.PUT("/categories/:id", handlers.UpdateCategory(db))
		admin.DELETE("/categories/:id", handlers.DeleteCategory(db))

		admin.GET("/subcategories", handlers.GetAllSubCategoriesAdmin(db))
		admin.POST("/subcategories", handlers.CreateSubCategory(db))
		admin.PUT("/subcategories/:id", handlers.UpdateSubCategory(db))
		admin.DELETE("/subcategories/:id", handlers.DeleteSubCategory(db))

		admin.GET("/coupons", handlers.GetAllCoupons(db))
		admin.POST("/coupons", handlers.CreateCoupon(db))
		admin.PUT("/coupons/:id", handlers.UpdateCoupon(db))
		admin.DELETE("/coupons/:id", handlers.DeleteCoupon(db))

		admin.GET("/gift-cards", handlers.GetAllGiftCards(db))
		admin.POST("/gift-cards", handlers.IssueGiftCard(db))
		admin.PUT("/gift-cards/:id/deactivate", handlers.DeactivateGiftCard(db))
	}

	if err := r.Run(":" + config.AppEnv.Port); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
