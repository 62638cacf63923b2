package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"foodgram-backend/internal/shared/middleware"
	"foodgram-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.CORS.AllowedOrigins),
		middleware.NewHTTPMetrics(c.Metrics).Middleware(),
	)

	router.GET("/health", healthCheckHandler(c))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(c.Metrics, promhttp.HandlerOpts{})))

	api := router.Group("/api")
	{
		setupAuthRoutes(api, c)
		setupUserRoutes(api, c)
		setupCatalogRoutes(api, c)
		setupRecipeRoutes(api, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(api *gin.RouterGroup, c *container.Container) {
	auth := api.Group("/auth/token")
	{
		auth.POST("/login", middleware.RateLimit(c.LoginLimiter), c.UserHandler.Login)
		auth.POST("/logout", middleware.AuthMiddleware(c.JWTManager, c.Revocations), c.UserHandler.Logout)
	}
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(api *gin.RouterGroup, c *container.Container) {
	optional := middleware.OptionalAuthMiddleware(c.JWTManager, c.Revocations)
	required := middleware.AuthMiddleware(c.JWTManager, c.Revocations)

	users := api.Group("/users")
	{
		users.POST("", c.UserHandler.Register)
		users.GET("", optional, c.UserHandler.ListUsers)

		// static routes trước :id
		users.GET("/me", required, c.UserHandler.Me)
		users.POST("/set_password", required, c.UserHandler.SetPassword)
		users.GET("/subscriptions", required, c.SubscriptionHandler.ListSubscriptions)

		users.GET("/:id", optional, c.UserHandler.GetUser)
		users.POST("/:id/subscribe", required, c.SubscriptionHandler.Subscribe)
		users.DELETE("/:id/subscribe", required, c.SubscriptionHandler.Unsubscribe)
	}
}

// ========================================
// CATALOG ROUTES
// ========================================
func setupCatalogRoutes(api *gin.RouterGroup, c *container.Container) {
	admin := []gin.HandlerFunc{
		middleware.AuthMiddleware(c.JWTManager, c.Revocations),
		middleware.AdminMiddleware(),
	}

	tags := api.Group("/tags")
	{
		tags.GET("", c.CatalogHandler.ListTags)
		tags.GET("/:id", c.CatalogHandler.GetTag)
		tags.POST("", append(admin, c.CatalogHandler.CreateTag)...)
	}

	ingredients := api.Group("/ingredients")
	{
		ingredients.GET("", c.CatalogHandler.ListIngredients)
		ingredients.GET("/:id", c.CatalogHandler.GetIngredient)
		ingredients.POST("", append(admin, c.CatalogHandler.CreateIngredient)...)
	}
}

// ========================================
// RECIPE ROUTES
// ========================================
func setupRecipeRoutes(api *gin.RouterGroup, c *container.Container) {
	optional := middleware.OptionalAuthMiddleware(c.JWTManager, c.Revocations)
	required := middleware.AuthMiddleware(c.JWTManager, c.Revocations)

	recipes := api.Group("/recipes")
	{
		recipes.GET("", optional, c.RecipeHandler.ListRecipes)
		recipes.POST("", required, c.RecipeHandler.CreateRecipe)

		// đăng ký trước /:id để không bị hiểu là id
		recipes.GET("/download_shopping_cart", required, c.ShoppingListHandler.Download)

		recipes.GET("/:id", optional, c.RecipeHandler.GetRecipe)
		recipes.PATCH("/:id", required, c.RecipeHandler.UpdateRecipe)
		recipes.PUT("/:id", required, c.RecipeHandler.UpdateRecipe)
		recipes.DELETE("/:id", required, c.RecipeHandler.DeleteRecipe)

		recipes.POST("/:id/favorite", required, c.FavoriteHandler.Add)
		recipes.DELETE("/:id/favorite", required, c.FavoriteHandler.Remove)
		recipes.POST("/:id/shopping_cart", required, c.CartHandler.Add)
		recipes.DELETE("/:id/shopping_cart", required, c.CartHandler.Remove)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else if err := appCtx.DB.HealthCheck(ctx); err != nil {
			dbStatus = "error: " + err.Error()
			health["status"] = "degraded"
		}

		redisStatus := "ok"
		if appCtx.Redis == nil {
			redisStatus = "in-memory fallback"
		} else if err := appCtx.Redis.Ping(ctx); err != nil {
			redisStatus = "error: " + err.Error()
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		status := http.StatusOK
		if health["status"] != "ok" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, health)
	}
}
