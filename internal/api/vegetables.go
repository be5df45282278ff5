package api

import (
	"fmt"      // Flash message formatting
	"net/http" // HTTP status codes
	"strconv"  // Path id parsing

	"vegetable_inventory/internal/domain"     // Importing domain models
	"vegetable_inventory/internal/inventory"  // Vegetable validation and storage
	"vegetable_inventory/internal/middleware" // Request-scoped logger
	"vegetable_inventory/internal/session"    // Session cookie

	"github.com/gin-gonic/gin"         // Gin web framework
	"github.com/gin-gonic/gin/binding" // Form binding
	"github.com/pkg/errors"            // Error inspection
	"github.com/sirupsen/logrus"       // Logging library
)

// AddVegetableHandler lists vegetables with their running sum and adds new ones
func AddVegetableHandler(repo inventory.Repository, store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			renderInventory(c, repo, store, inventory.VegetableForm{})
			return
		}
		var form inventory.VegetableForm // Bind submitted fields
		if err := c.ShouldBindWith(&form, binding.Form); err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		sess := session.Get(c)
		in, err := form.Parse()
		if err != nil {
			// Invalid input never reaches the repository
			sess.AddFlash(session.FlashDanger, inventory.Message(err))
			renderInventory(c, repo, store, form)
			return
		}
		v, err := repo.Create(c.Request.Context(), in)
		if err != nil {
			internalError(c, store, "Failed to add vegetable", err)
			return
		}
		middleware.Logger(c).WithFields(logrus.Fields{
			"vegetable_id": v.ID,         // Vegetable ID
			"name":         v.Name,       // Vegetable name
			"quantity":     v.Quantity,   // Quantity
			"total_value":  v.TotalValue, // Stored total
		}).Info("Vegetable added")
		sess.AddFlash(session.FlashSuccess, fmt.Sprintf("Vegetable %s was added with a quantity of %d", v.Name, v.Quantity))
		redirect(c, store, "/add-vegetable")
	}
}

// renderInventory renders the listing page, echoing form back into the inputs
func renderInventory(c *gin.Context, repo inventory.Repository, store *session.Store, form inventory.VegetableForm) {
	ctx := c.Request.Context()
	vegetables, err := repo.ListAll(ctx)
	if err != nil {
		internalError(c, store, "Failed to list vegetables", err)
		return
	}
	totalSum, err := repo.SumTotalValue(ctx)
	if err != nil {
		internalError(c, store, "Failed to sum vegetables", err)
		return
	}
	render(c, store, http.StatusOK, "add_vegetable.html", gin.H{
		"title":      AppTitle,   // Page title
		"vegetables": vegetables, // All rows
		"total_sum":  totalSum,   // Sum of total values
		"form":       form,       // Submitted values
	})
}

// QueryHandler searches vegetables by name fragment
func QueryHandler(repo inventory.Repository, store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		queryStr := ""                  // Search fragment
		results := []domain.Vegetable{} // Empty on GET
		if c.Request.Method == http.MethodPost {
			queryStr = c.PostForm("query_str")
			if queryStr != "" {
				found, err := repo.FindBySubstring(c.Request.Context(), queryStr)
				if err != nil {
					internalError(c, store, "Failed to search vegetables", err)
					return
				}
				results = found
			}
		}
		render(c, store, http.StatusOK, "query.html", gin.H{
			"title":     "Query Vegetable", // Page title
			"results":   results,           // Matching rows
			"query_str": queryStr,          // Echoed fragment
		})
	}
}

// EditVegetableHandler shows a vegetable and overwrites it on POST
func EditVegetableHandler(repo inventory.Repository, store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := loadVegetable(c, repo, store)
		if !ok {
			return
		}
		form := inventory.VegetableForm{
			Name:     v.Name,                                    // Current name
			Quantity: strconv.Itoa(v.Quantity),                  // Current quantity
			Price:    strconv.FormatFloat(v.Price, 'f', -1, 64), // Current price
		}
		if c.Request.Method == http.MethodPost {
			form = inventory.VegetableForm{} // Replace with submitted values
			if err := c.ShouldBindWith(&form, binding.Form); err != nil {
				c.AbortWithStatus(http.StatusBadRequest)
				return
			}
			sess := session.Get(c)
			in, err := form.Parse()
			if err == nil {
				updated, err := repo.Update(c.Request.Context(), v.ID, in)
				if errors.Is(err, inventory.ErrNotFound) {
					renderError(c, store, http.StatusNotFound)
					return
				} else if err != nil {
					internalError(c, store, "Failed to update vegetable", err)
					return
				}
				middleware.Logger(c).WithFields(logrus.Fields{
					"vegetable_id": updated.ID,         // Vegetable ID
					"name":         updated.Name,       // New name
					"quantity":     updated.Quantity,   // New quantity
					"total_value":  updated.TotalValue, // Recomputed total
				}).Info("Vegetable updated")
				sess.AddFlash(session.FlashSuccess, "Vegetable data updated successfully!")
				redirect(c, store, "/")
				return
			}
			sess.AddFlash(session.FlashDanger, inventory.Message(err))
		}
		render(c, store, http.StatusOK, "edit_vegetable.html", gin.H{
			"title":     "Edit Vegetable", // Page title
			"vegetable": v,                // Stored row
			"form":      form,             // Values shown in the inputs
		})
	}
}

// DeleteVegetableHandler asks for confirmation on GET and deletes on POST
func DeleteVegetableHandler(repo inventory.Repository, store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := loadVegetable(c, repo, store)
		if !ok {
			return
		}
		if c.Request.Method != http.MethodPost {
			render(c, store, http.StatusOK, "delete_vegetable.html", gin.H{
				"title":     "Delete Vegetable", // Page title
				"vegetable": v,                  // Row to delete
			})
			return
		}
		if err := repo.Delete(c.Request.Context(), v.ID); errors.Is(err, inventory.ErrNotFound) {
			renderError(c, store, http.StatusNotFound)
			return
		} else if err != nil {
			internalError(c, store, "Failed to delete vegetable", err)
			return
		}
		middleware.Logger(c).WithFields(logrus.Fields{
			"vegetable_id": v.ID,   // Vegetable ID
			"name":         v.Name, // Vegetable name
		}).Info("Vegetable deleted")
		session.Get(c).AddFlash(session.FlashSuccess, fmt.Sprintf("Vegetable %s was deleted", v.Name))
		redirect(c, store, "/add-vegetable")
	}
}

// loadVegetable resolves the :id path parameter, rendering 404 when it names no row
func loadVegetable(c *gin.Context, repo inventory.Repository, store *session.Store) (*domain.Vegetable, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil {
		renderError(c, store, http.StatusNotFound)
		return nil, false
	}
	v, err := repo.GetByID(c.Request.Context(), uint(id))
	if errors.Is(err, inventory.ErrNotFound) {
		renderError(c, store, http.StatusNotFound)
		return nil, false
	} else if err != nil {
		internalError(c, store, "Failed to load vegetable", err)
		return nil, false
	}
	return v, true
}
