package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/narayanji/distributor-app/config"
	"github.com/narayanji/distributor-app/internal/app/controller"
	"github.com/narayanji/distributor-app/internal/middleware"
)

// Controllers bundles everything the router mounts.
type Controllers struct {
	Auth    *controller.AuthController
	Product *controller.ProductController
	Order   *controller.OrderController
	Upload  *controller.UploadController
}

func Setup(cfg *config.Config, ctrls Controllers) *gin.Engine {
	gin.SetMode(cfg.Server.GinMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	api := r.Group("/api/v1")
	jwtSecret := cfg.JWT.Secret

	auth := api.Group("/auth")
	{
		auth.POST("/otp/request", ctrls.Auth.RequestOTP)
		auth.POST("/otp/verify", ctrls.Auth.VerifyOTP)
		auth.POST("/admin/login", ctrls.Auth.AdminLogin)
		auth.GET("/me", middleware.Authenticate(jwtSecret), ctrls.Auth.Me)
	}

	// Catalog browsing works without a session; a valid token still gets
	// attached when present.
	products := api.Group("/products", middleware.OptionalAuthenticate(jwtSecret))
	{
		products.GET("", ctrls.Product.ListProducts)
		products.GET("/deal-of-day", ctrls.Product.GetDealOfDay)
		products.GET("/:sku", ctrls.Product.GetProduct)
	}

	orders := api.Group("/orders", middleware.Authenticate(jwtSecret))
	{
		orders.POST("", ctrls.Order.CreateOrder)
		orders.GET("", ctrls.Order.ListOrders)
		orders.GET("/:number", ctrls.Order.GetOrder)
	}

	admin := api.Group("/admin", middleware.Authenticate(jwtSecret), middleware.RequireRole("admin"))
	{
		admin.POST("/products", ctrls.Product.CreateProduct)
		admin.PUT("/products/:sku", ctrls.Product.UpdateProduct)
		admin.DELETE("/products/:sku", ctrls.Product.DeleteProduct)
		admin.PUT("/orders/:number/status", ctrls.Order.UpdateOrderStatus)
		if ctrls.Upload != nil {
			admin.POST("/uploads", ctrls.Upload.PresignUpload)
		}
	}

	return r
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origins[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (origins["*"] || origins[origin]) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
			c.Header("Access-Control-Allow-Credentials", "true")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
