package api

import (
	"net/http" // HTTP status codes

	"vegetable_inventory/internal/auth"       // Form field errors
	"vegetable_inventory/internal/middleware" // Request-scoped logger
	"vegetable_inventory/internal/session"    // Session cookie

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// AppTitle is the title of the landing and inventory pages
const AppTitle = "Vegetable Database App"

// render saves the session and writes an HTML page.
// Pending flashes are consumed here so they show exactly once.
func render(c *gin.Context, store *session.Store, status int, name string, data gin.H) {
	sess := session.Get(c)              // Current session
	data["flashes"] = sess.PopFlashes() // One-time notices
	data["logged_in"] = sess.LoggedIn() // Navigation state
	data["username"] = sess.Username()  // Navigation state
	if _, ok := data["errors"]; !ok {
		data["errors"] = auth.FieldErrors{} // Templates index into errors
	}
	saveSession(c, store)
	c.HTML(status, name, data)
}

// redirect saves the session and answers 302 Found
func redirect(c *gin.Context, store *session.Store, location string) {
	saveSession(c, store)
	c.Redirect(http.StatusFound, location)
}

// renderError writes the error page with a standard message for status
func renderError(c *gin.Context, store *session.Store, status int) {
	message := "The server encountered an internal error and was unable to complete your request."
	if status == http.StatusNotFound {
		message = "The requested URL was not found on the server."
	}
	render(c, store, status, "error.html", gin.H{
		"title":   http.StatusText(status), // Status text as title
		"message": message,                 // Explanation
	})
}

// internalError logs err with context and renders the 500 page
func internalError(c *gin.Context, store *session.Store, msg string, err error) {
	middleware.Logger(c).WithFields(logrus.Fields{
		"error": err.Error(), // Error message
	}).Error(msg)
	renderError(c, store, http.StatusInternalServerError)
}

func saveSession(c *gin.Context, store *session.Store) {
	if err := store.Save(c); err != nil {
		middleware.Logger(c).WithFields(logrus.Fields{
			"error": err.Error(), // Error message
		}).Error("Failed to save session")
	}
}
