package api

import (
	"net/http" // HTTP status codes

	"vegetable_inventory/internal/auth"       // Registration and login
	"vegetable_inventory/internal/middleware" // Request-scoped logger
	"vegetable_inventory/internal/session"    // Session cookie

	"github.com/gin-gonic/gin"         // Gin web framework
	"github.com/gin-gonic/gin/binding" // Form binding
	"github.com/pkg/errors"            // Error inspection
	"github.com/sirupsen/logrus"       // Logging library
)

// RegisterHandler shows the registration form and creates accounts
func RegisterHandler(svc *auth.Service, store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form auth.RegistrationForm // Bind submitted fields
		if c.Request.Method != http.MethodPost {
			renderRegister(c, store, form, nil)
			return
		}
		if err := c.ShouldBindWith(&form, binding.Form); err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		// Validate before anything touches the repository
		if errs := form.Validate(); errs != nil {
			renderRegister(c, store, form, errs)
			return
		}
		user, err := svc.Register(c.Request.Context(), form.Username, form.Password)
		if errors.Is(err, auth.ErrDuplicateUser) {
			session.Get(c).AddFlash(session.FlashDanger, auth.DuplicateUserMessage)
			renderRegister(c, store, form, nil)
			return
		} else if err != nil {
			internalError(c, store, "Failed to register user", err)
			return
		}
		middleware.Logger(c).WithFields(logrus.Fields{
			"user_id":  user.ID,   // User ID
			"username": user.Name, // Username
		}).Info("User registered")
		session.Get(c).AddFlash(session.FlashSuccess, "Your account has been created! You can now log in.")
		redirect(c, store, "/login")
	}
}

func renderRegister(c *gin.Context, store *session.Store, form auth.RegistrationForm, errs auth.FieldErrors) {
	if errs == nil {
		errs = auth.FieldErrors{}
	}
	render(c, store, http.StatusOK, "register.html", gin.H{
		"title":  "Register",                                     // Page title
		"form":   auth.RegistrationForm{Username: form.Username}, // Passwords are never echoed
		"errors": errs,                                           // Field errors
	})
}

// LoginHandler shows the login form and starts a session on valid credentials
func LoginHandler(svc *auth.Service, store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form auth.LoginForm // Bind submitted fields
		if c.Request.Method != http.MethodPost {
			renderLogin(c, store, form, nil)
			return
		}
		if err := c.ShouldBindWith(&form, binding.Form); err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		if errs := form.Validate(); errs != nil {
			renderLogin(c, store, form, errs)
			return
		}
		log := middleware.Logger(c).WithField("username", form.Username)
		log.Debug("Attempting login")
		sess := session.Get(c)
		if _, err := svc.Login(c.Request.Context(), form.Username, form.Password); errors.Is(err, auth.ErrInvalidCredentials) {
			// Same message for unknown user and wrong password; prior session state is kept
			log.Info("Login failed")
			sess.AddFlash(session.FlashDanger, auth.InvalidCredentialsMessage)
			renderLogin(c, store, form, nil)
			return
		} else if err != nil {
			internalError(c, store, "Failed to authenticate user", err)
			return
		}
		sess.Login(form.Username)
		log.Info("Logged in")
		sess.AddFlash(session.FlashSuccess, "Logged in successfully!")
		redirect(c, store, "/")
	}
}

func renderLogin(c *gin.Context, store *session.Store, form auth.LoginForm, errs auth.FieldErrors) {
	if errs == nil {
		errs = auth.FieldErrors{}
	}
	render(c, store, http.StatusOK, "login.html", gin.H{
		"title":  "Login",                                 // Page title
		"form":   auth.LoginForm{Username: form.Username}, // Passwords are never echoed
		"errors": errs,                                    // Field errors
	})
}

// LogoutHandler clears the session whether or not anyone was logged in
func LogoutHandler(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := session.Get(c)
		sess.Logout()
		sess.AddFlash(session.FlashSuccess, "Logged out successfully!")
		redirect(c, store, "/")
	}
}
