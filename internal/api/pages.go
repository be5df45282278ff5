package api

import (
	"net/http" // HTTP status codes

	"vegetable_inventory/internal/session" // Session cookie

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// IndexHandler renders the landing page
func IndexHandler(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		render(c, store, http.StatusOK, "index.html", gin.H{"title": AppTitle})
	}
}

// HealthHandler reports whether the database answers a ping
func HealthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB() // Underlying connection pool
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
