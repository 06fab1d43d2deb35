package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"agrimarket.backend/internal/domain/entities"
	"agrimarket.backend/internal/interfaces/http/handlers"
	"agrimarket.backend/internal/interfaces/http/middleware"
	"agrimarket.backend/internal/usecases"
)

const (
	serviceName    = "agrimarket-backend"
	serviceVersion = "0.1.0"
)

var registrationFlows = []entities.RegistrationFlow{entities.FlowSeller, entities.FlowRider}

type routeDeps struct {
	authHandler         *handlers.AuthHandler
	registrationHandler *handlers.RegistrationHandler
	productHandler      *handlers.ProductHandler
	cartHandler         *handlers.CartHandler
	orderHandler        *handlers.OrderHandler
	dashboardHandler    *handlers.DashboardHandler
	adminHandler        *handlers.AdminHandler
	wizardCursors       middleware.CursorResolver
	authMiddleware      gin.HandlerFunc
	loadUser            gin.HandlerFunc
	browserSession      gin.HandlerFunc
}

func applyCORSMiddleware(r *gin.Engine, allowedOrigins []string) {
	allowAll := len(allowedOrigins) == 0
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
		}
		allowed[strings.TrimRight(origin, "/")] = struct{}{}
	}

	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := allowed[origin]; ok || allowAll {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Access-Control-Allow-Credentials", "true")
				c.Header("Vary", "Origin")
			}
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID, X-Session-Id, Idempotency-Key")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID, X-Idempotency-Hit, Location")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
			"version": serviceVersion,
		})
	})
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/refresh", d.authHandler.RefreshToken)
			auth.GET("/me", d.authMiddleware, d.authHandler.GetMe)
			auth.POST("/logout", d.authMiddleware, d.authHandler.Logout)
		}

		register := v1.Group("/register")
		for _, flow := range registrationFlows {
			registerWizardRoutes(register, flow, d)
		}

		v1.GET("/products", d.productHandler.ListPublic)
		v1.GET("/products/:id", d.productHandler.GetPublic)

		farmer := v1.Group("/farmer", d.authMiddleware, d.loadUser,
			middleware.RequireRole(entities.UserRoleFarmer), middleware.RequireActive())
		{
			farmer.GET("/products", d.productHandler.ListMine)
			farmer.POST("/products", d.productHandler.Create)
			farmer.GET("/products/:id", d.productHandler.GetMine)
			farmer.PUT("/products/:id", d.productHandler.Update)
		}

		cart := v1.Group("/cart", d.authMiddleware, d.loadUser,
			middleware.RequireRole(entities.UserRoleBuyer), middleware.RequireActive())
		{
			cart.GET("", d.cartHandler.View)
			cart.POST("/items", d.cartHandler.AddItem)
			cart.PUT("/items/:productId", d.cartHandler.UpdateItem)
			cart.DELETE("/items/:productId", d.cartHandler.RemoveItem)
			cart.POST("/checkout", middleware.IdempotencyMiddleware(), d.cartHandler.Checkout)
		}

		orders := v1.Group("/orders", d.authMiddleware, d.loadUser, middleware.RequireActive())
		{
			orders.GET("", d.orderHandler.List)
			orders.GET("/:id", d.orderHandler.Get)
			orders.PUT("/:id/status", d.orderHandler.UpdateStatus)
		}

		logistics := v1.Group("/logistics", d.authMiddleware, d.loadUser,
			middleware.RequireRole(entities.UserRoleLogistics), middleware.RequireActive())
		{
			logistics.GET("/orders/available", d.orderHandler.ListAvailable)
			logistics.POST("/orders/:id/claim", d.orderHandler.Claim)
		}

		v1.GET("/dashboard", d.authMiddleware, d.loadUser, d.dashboardHandler.Get)

		admin := v1.Group("/admin", d.authMiddleware, middleware.RequireAdmin())
		{
			admin.GET("/users", d.adminHandler.ListUsers)

			admin.GET("/registrations", d.adminHandler.ListRegistrations)
			admin.GET("/registrations/:userId", d.adminHandler.Review)
			admin.POST("/registrations/:userId/approve", d.adminHandler.ApproveProfile)
			admin.POST("/registrations/:userId/reject", d.adminHandler.RejectProfile)
			admin.POST("/registrations/:userId/suspend", d.adminHandler.SuspendProfile)
			admin.POST("/registrations/:userId/documents/:docType/verify", d.adminHandler.VerifyDocument)
			admin.POST("/registrations/:userId/documents/approve", d.adminHandler.ApproveDocuments)
			admin.POST("/registrations/:userId/documents/reject", d.adminHandler.RejectDocuments)
			admin.POST("/registrations/:userId/bank-account/verify", d.adminHandler.VerifyBankAccount)
			admin.POST("/registrations/:userId/bank-account/reject", d.adminHandler.RejectBankAccount)

			admin.GET("/products", d.productHandler.ListForReview)
			admin.POST("/products/:id/approve", d.productHandler.Approve)
			admin.POST("/products/:id/reject", d.productHandler.Reject)
		}
	}
}

// registerWizardRoutes mounts /register/<flow>/step-N for every step, plus
// the completion page and the authenticated status and resume endpoints.
func registerWizardRoutes(register *gin.RouterGroup, flow entities.RegistrationFlow, d routeDeps) {
	prefix := "/register/" + string(flow)
	wizard := register.Group("/"+string(flow), d.browserSession)
	for step := entities.StepBasicInfo; step < entities.StepComplete; step++ {
		path := strings.TrimPrefix(usecases.StepPath(flow, step), "/api/v1"+prefix)
		gate := middleware.Wizard(d.wizardCursors, flow, step)
		wizard.GET(path, gate, d.registrationHandler.Form)
		wizard.POST(path, gate, d.registrationHandler.Submit)
	}
	wizard.GET("/complete", d.registrationHandler.Complete(flow))
	wizard.GET("/status", d.authMiddleware, d.registrationHandler.Status(flow))
	wizard.POST("/resume", d.authMiddleware, d.registrationHandler.Resume(flow))
}
