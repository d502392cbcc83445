package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"trattoria-backend/firebase"
	"trattoria-backend/models"
	"trattoria-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductHandler struct {
	DB      *gorm.DB
	Storage firebase.StorageClient
}

// GetProducts is the public menu listing. Staff can pass ?all=true to include
// inactive dishes.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	query := h.DB.Preload("Category")

	if c.Query("all") != "true" {
		query = query.Where("is_active = ?", true)
	}
	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if c.Query("vegetarian") == "true" {
		query = query.Where("is_vegetarian = ?", true)
	}
	if c.Query("vegan") == "true" {
		query = query.Where("is_vegan = ?", true)
	}
	if c.Query("gluten_free") == "true" {
		query = query.Where("is_gluten_free = ?", true)
	}
	if c.Query("on_promotion") == "true" {
		query = query.Where("on_promotion = ?", true)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var products []models.Product
	if err := query.Order("name ASC").Find(&products).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch products", err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Products fetched", products)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id := c.Param("id")

	var product models.Product
	if err := h.DB.Preload("Category").Where("id = ?", id).First(&product).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "Product not found", nil)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Product fetched", product)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req struct {
		Name            string   `json:"name" binding:"required"`
		Description     string   `json:"description"`
		Price           *float64 `json:"price" binding:"required"`
		CategoryID      string   `json:"category_id" binding:"required"`
		IsActive        *bool    `json:"is_active"`
		OnPromotion     bool     `json:"on_promotion"`
		PromoPrice      *float64 `json:"promo_price"`
		PrepTimeMinutes *int     `json:"prep_time_minutes"`
		IsVegetarian    bool     `json:"is_vegetarian"`
		IsVegan         bool     `json:"is_vegan"`
		IsGlutenFree    bool     `json:"is_gluten_free"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New(utils.SanitizeValidationError(err)))
		return
	}

	if *req.Price < 0 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New("price cannot be negative"))
		return
	}
	if req.PromoPrice != nil && *req.PromoPrice < 0 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New("promo price cannot be negative"))
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New("invalid category_id"))
		return
	}
	var category models.Category
	if err := h.DB.Where("id = ?", categoryID).First(&category).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "Category not found", nil)
		return
	}

	product := models.Product{
		Name:         req.Name,
		Description:  req.Description,
		Price:        *req.Price,
		CategoryID:   categoryID,
		IsActive:     true,
		OnPromotion:  req.OnPromotion,
		PromoPrice:   req.PromoPrice,
		IsVegetarian: req.IsVegetarian,
		IsVegan:      req.IsVegan,
		IsGlutenFree: req.IsGlutenFree,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.PrepTimeMinutes != nil {
		if *req.PrepTimeMinutes < 0 {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New("prep time cannot be negative"))
			return
		}
		product.PrepTimeMinutes = *req.PrepTimeMinutes
	} else {
		product.PrepTimeMinutes = 15
	}

	if err := h.DB.Create(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to create product", err)
		return
	}

	h.DB.Preload("Category").First(&product, product.ID)
	utils.RespondJSON(c, http.StatusCreated, "Product created", product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id := c.Param("id")

	var req struct {
		Name            *string  `json:"name"`
		Description     *string  `json:"description"`
		Price           *float64 `json:"price"`
		CategoryID      *string  `json:"category_id"`
		IsActive        *bool    `json:"is_active"`
		OnPromotion     *bool    `json:"on_promotion"`
		PromoPrice      *float64 `json:"promo_price"`
		PrepTimeMinutes *int     `json:"prep_time_minutes"`
		IsVegetarian    *bool    `json:"is_vegetarian"`
		IsVegan         *bool    `json:"is_vegan"`
		IsGlutenFree    *bool    `json:"is_gluten_free"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New(utils.SanitizeValidationError(err)))
		return
	}

	var product models.Product
	if err := h.DB.Where("id = ?", id).First(&product).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "Product not found", nil)
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New("price cannot be negative"))
			return
		}
		product.Price = *req.Price
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New("invalid category_id"))
			return
		}
		var category models.Category
		if err := h.DB.Where("id = ?", categoryID).First(&category).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, "Category not found", nil)
			return
		}
		product.CategoryID = categoryID
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.OnPromotion != nil {
		product.OnPromotion = *req.OnPromotion
	}
	if req.PromoPrice != nil {
		if *req.PromoPrice < 0 {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New("promo price cannot be negative"))
			return
		}
		product.PromoPrice = req.PromoPrice
	}
	if req.PrepTimeMinutes != nil {
		if *req.PrepTimeMinutes < 0 {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New("prep time cannot be negative"))
			return
		}
		product.PrepTimeMinutes = *req.PrepTimeMinutes
	}
	if req.IsVegetarian != nil {
		product.IsVegetarian = *req.IsVegetarian
	}
	if req.IsVegan != nil {
		product.IsVegan = *req.IsVegan
	}
	if req.IsGlutenFree != nil {
		product.IsGlutenFree = *req.IsGlutenFree
	}

	if err := h.DB.Save(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to update product", err)
		return
	}

	h.DB.Preload("Category").First(&product, product.ID)
	utils.RespondJSON(c, http.StatusOK, "Product updated", product)
}

// UploadProductImage attaches a photo to a dish, replacing and cleaning up the
// previous one when present.
func (h *ProductHandler) UploadProductImage(c *gin.Context) {
	id := c.Param("id")

	var product models.Product
	if err := h.DB.Where("id = ?", id).First(&product).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "Product not found", nil)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New("image file is required"))
		return
	}

	if err := utils.ValidateFileUpload(fileHeader); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	if product.ImageURL != "" {
		if objectPath, pathErr := utils.ExtractObjectPath(product.ImageURL); pathErr == nil {
			_ = h.Storage.DeleteFile(objectPath)
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Failed to open uploaded file", nil)
		return
	}
	defer file.Close()

	imageURL, err := h.Storage.UploadProductImage(
		file,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Image upload failed", nil)
		return
	}

	product.ImageURL = imageURL
	if err := h.DB.Save(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to update product", err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Product image uploaded", product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	var product models.Product
	if err := h.DB.Where("id = ?", id).First(&product).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "Product not found", nil)
		return
	}

	if product.ImageURL != "" {
		if objectPath, err := utils.ExtractObjectPath(product.ImageURL); err == nil {
			_ = h.Storage.DeleteFile(objectPath)
		}
	}

	if err := h.DB.Delete(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to delete product", err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("Product '%s' deleted", product.Name), nil)
}
