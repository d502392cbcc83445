package handlers

import (
	"errors"
	"net/http"
	"time"

	"trattoria-backend/models"
	"trattoria-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CustomerHandler struct {
	DB *gorm.DB
}

func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Phone    string `json:"phone" binding:"required"`
		Email    string `json:"email"`
		Birthday string `json:"birthday"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New(utils.SanitizeValidationError(err)))
		return
	}

	var birthday *time.Time
	if req.Birthday != "" {
		parsed, err := time.Parse("2006-01-02", req.Birthday)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New("birthday must be in YYYY-MM-DD format"))
			return
		}
		birthday = &parsed
	}

	var existing models.Customer
	if err := h.DB.Where("phone = ?", req.Phone).First(&existing).Error; err == nil {
		utils.RespondError(c, http.StatusConflict, "A customer with this phone number already exists", nil)
		return
	}

	customer := models.Customer{
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Birthday: birthday,
		Badge:    models.BadgeBronze,
	}

	tx := h.DB.Begin()

	program, err := models.GetLoyaltyProgram(tx)
	if err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, "Failed to create customer", err)
		return
	}

	customer.Points = program.RegistrationBonus
	customer.Badge = program.BadgeFor(customer.Points)

	if err := tx.Create(&customer).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, "Failed to create customer", err)
		return
	}

	if program.RegistrationBonus > 0 {
		history := models.LoyaltyHistory{
			CustomerID:  customer.ID,
			Points:      program.RegistrationBonus,
			Type:        "bonus",
			Description: "Welcome bonus",
		}
		if err := tx.Create(&history).Error; err != nil {
			tx.Rollback()
			utils.RespondError(c, http.StatusInternalServerError, "Failed to create customer", err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to create customer", err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Customer created", customer)
}

func (h *CustomerHandler) GetCustomers(c *gin.Context) {
	query := h.DB.Model(&models.Customer{})

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR phone LIKE ?", like, like)
	}
	if badge := c.Query("badge"); badge != "" {
		query = query.Where("badge = ?", badge)
	}

	var customers []models.Customer
	if err := query.Order("name ASC").Find(&customers).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch customers", err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Customers fetched", customers)
}

func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id := c.Param("id")

	var customer models.Customer
	if err := h.DB.Where("id = ?", id).First(&customer).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "Customer not found", nil)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Customer fetched", customer)
}

func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id := c.Param("id")

	var req struct {
		Name     *string `json:"name"`
		Phone    *string `json:"phone"`
		Email    *string `json:"email"`
		Birthday *string `json:"birthday"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New(utils.SanitizeValidationError(err)))
		return
	}

	var customer models.Customer
	if err := h.DB.Where("id = ?", id).First(&customer).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "Customer not found", nil)
		return
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Phone != nil && *req.Phone != customer.Phone {
		var existing models.Customer
		if err := h.DB.Where("phone = ? AND id <> ?", *req.Phone, customer.ID).First(&existing).Error; err == nil {
			utils.RespondError(c, http.StatusConflict, "A customer with this phone number already exists", nil)
			return
		}
		customer.Phone = *req.Phone
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Birthday != nil {
		if *req.Birthday == "" {
			customer.Birthday = nil
		} else {
			parsed, err := time.Parse("2006-01-02", *req.Birthday)
			if err != nil {
				utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New("birthday must be in YYYY-MM-DD format"))
				return
			}
			customer.Birthday = &parsed
		}
	}

	if err := h.DB.Save(&customer).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to update customer", err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Customer updated", customer)
}

func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id := c.Param("id")

	var customer models.Customer
	if err := h.DB.Where("id = ?", id).First(&customer).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "Customer not found", nil)
		return
	}

	if err := h.DB.Delete(&customer).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to delete customer", err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Customer deleted", nil)
}

// GetCustomerLoyalty returns the customer's balance together with the ledger of
// every points movement, newest first.
func (h *CustomerHandler) GetCustomerLoyalty(c *gin.Context) {
	id := c.Param("id")

	var customer models.Customer
	if err := h.DB.Where("id = ?", id).First(&customer).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "Customer not found", nil)
		return
	}

	var history []models.LoyaltyHistory
	if err := h.DB.Where("customer_id = ?", customer.ID).Order("created_at DESC").Find(&history).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch loyalty history", err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Loyalty history fetched", gin.H{
		"customer": customer,
		"history":  history,
	})
}
