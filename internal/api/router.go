package api

import (
	"net/http" // HTTP status codes

	"vegetable_inventory/internal/auth"       // Registration and login
	"vegetable_inventory/internal/inventory"  // Vegetable storage
	"vegetable_inventory/internal/middleware" // Request logging
	"vegetable_inventory/internal/session"    // Session cookie
	"vegetable_inventory/web"                 // HTML templates

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Dependencies are the resolved collaborators of the HTTP routes
type Dependencies struct {
	DB             *gorm.DB             // Database handle, resolved once at startup
	Vegetables     inventory.Repository // Vegetable storage
	Auth           *auth.Service        // Registration and login
	Sessions       *session.Store       // Session cookie signing
	Log            *logrus.Logger       // Base logger
	TrustedProxies []string             // Proxies allowed to set client IP headers
}

// NewRouter builds the gin engine with every route registered
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	tmpl, err := web.Templates() // Parse embedded templates
	if err != nil {
		return nil, err
	}

	r := gin.New() // Gin router instance
	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies(deps.TrustedProxies); err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)
	r.Use(middleware.RequestLogger(deps.Log), gin.Recovery(), deps.Sessions.Middleware())

	r.NoRoute(func(c *gin.Context) {
		renderError(c, deps.Sessions, http.StatusNotFound)
	})

	r.GET("/healthz", HealthHandler(deps.DB)) // Liveness endpoint

	index := IndexHandler(deps.Sessions)
	r.GET("/", index)  // Landing page
	r.POST("/", index) // Landing page

	addVegetable := AddVegetableHandler(deps.Vegetables, deps.Sessions)
	r.GET("/add-vegetable", addVegetable)  // List vegetables
	r.POST("/add-vegetable", addVegetable) // Add vegetable

	query := QueryHandler(deps.Vegetables, deps.Sessions)
	r.GET("/query", query)  // Empty search page
	r.POST("/query", query) // Substring search

	edit := EditVegetableHandler(deps.Vegetables, deps.Sessions)
	r.GET("/edit/:id", edit)  // Edit form
	r.POST("/edit/:id", edit) // Overwrite vegetable

	del := DeleteVegetableHandler(deps.Vegetables, deps.Sessions)
	r.GET("/delete/:id", del)  // Delete confirmation
	r.POST("/delete/:id", del) // Delete vegetable

	register := RegisterHandler(deps.Auth, deps.Sessions)
	r.GET("/register", register)  // Registration form
	r.POST("/register", register) // Create account

	login := LoginHandler(deps.Auth, deps.Sessions)
	r.GET("/login", login)  // Login form
	r.POST("/login", login) // Start session

	r.GET("/logout", LogoutHandler(deps.Sessions)) // End session

	return r, nil
}
