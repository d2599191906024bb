package routing

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"greenshop-server/internal/catalog"
	"greenshop-server/internal/handlers"
	"greenshop-server/internal/managers"
	"greenshop-server/internal/middleware"
	"greenshop-server/internal/schemas"
	"greenshop-server/internal/utils"
)

func InitRouter(databaseMgr managers.DatabaseMgr, mailMgr managers.MailMgr, jwtMgr managers.JWTMgr, productCatalog *catalog.Cache) *gin.Engine {
	// Initialize router with logging and recovery middleware
	router := gin.New()
	// Initialize middleware
	setupCommonMiddleware(router)
	// Setup routes
	setupRoutes(router, databaseMgr, mailMgr, jwtMgr, productCatalog)

	return router
}

func setupCommonMiddleware(router *gin.Engine) {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.InjectTrace())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:  []string{"GET", "PATCH", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Accept, Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "X-Trace-Id"},
		MaxAge:        12 * time.Hour,
	}))
	router.Use(middleware.SanitizePath())
	router.Use(middleware.LogRequest())
}

func setupRoutes(router *gin.Engine, databaseMgr managers.DatabaseMgr, mailMgr managers.MailMgr, jwtMgr managers.JWTMgr, productCatalog *catalog.Cache) {
	// Set up version route
	router.GET("/", func(c *gin.Context) {
		apiVersion := os.Getenv("API_VERSION")
		if apiVersion == "" {
			apiVersion = "main:latest"
		}
		metadata := &schemas.MetadataDTO{
			ApiVersion: apiVersion,
			ApiName:    "Green Shop Server",
		}
		utils.WriteAndLogResponse(c, metadata, http.StatusOK)
	})

	// Set up health route
	router.GET("/health", func(c *gin.Context) {
		// Ping the database
		if err := databaseMgr.GetPool().Ping(c); err != nil {
			c.String(http.StatusInternalServerError, "Database not responding")
			return
		}
		c.Status(http.StatusOK)
	})

	// Set up API routes
	apiRouter := router.Group("/api")
	{
		// Set up user routes
		userRouter := apiRouter.Group("/users")
		userHdl := handlers.NewUserHandler(&databaseMgr, &jwtMgr, &mailMgr)
		userRoutes(userRouter, userHdl, jwtMgr)

		// Set up product routes
		productRouter := apiRouter.Group("/products")
		productHdl := handlers.NewProductHandler(productCatalog)
		productRoutes(productRouter, productHdl)
	}
}

func userRoutes(userRouter *gin.RouterGroup, userHdl handlers.UserHdl, jwtMgr managers.JWTMgr) {
	userRouter.POST("/", middleware.ValidateAndSanitizeStruct(func() interface{} { return &schemas.RegistrationRequest{} }), userHdl.RegisterUser)
	userRouter.POST("/login", middleware.ValidateAndSanitizeStruct(func() interface{} { return &schemas.LoginRequest{} }), userHdl.LoginUser)
	userRouter.POST("/refresh", middleware.ValidateAndSanitizeStruct(func() interface{} { return &schemas.RefreshTokenRequest{} }), userHdl.RefreshToken)
	userRouter.POST("/forgot-password", middleware.ValidateAndSanitizeStruct(func() interface{} { return &schemas.ForgotPasswordRequest{} }), userHdl.ForgotPassword)
	userRouter.POST("/:userId/activate", middleware.ValidateAndSanitizeStruct(func() interface{} { return &schemas.ActivationRequest{} }), userHdl.ActivateUser)
	userRouter.POST("/:userId/reset-password", middleware.ValidateAndSanitizeStruct(func() interface{} { return &schemas.ResetPasswordRequest{} }), userHdl.ResetPassword)
	// The following routes require the user to be authenticated
	userRouter.Use(jwtMgr.JWTMiddleware())
	userRouter.GET("/", userHdl.GetProfile)
	userRouter.PUT("/", middleware.ValidateAndSanitizeStruct(func() interface{} { return &schemas.UpdateProfileRequest{} }), userHdl.UpdateProfile)
}

func productRoutes(productRouter *gin.RouterGroup, productHdl handlers.ProductHdl) {
	productRouter.GET("/", productHdl.QueryProducts)
	productRouter.GET("/featured", productHdl.GetFeaturedProducts)
	productRouter.GET("/:productId", productHdl.GetProduct)
}
