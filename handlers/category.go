package handlers

import (
	"errors"
	"net/http"

	"trattoria-backend/models"
	"trattoria-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CategoryHandler struct {
	DB *gorm.DB
}

func (h *CategoryHandler) GetCategories(c *gin.Context) {
	var categories []models.Category
	if err := h.DB.Order("name ASC").Find(&categories).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch categories", err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Categories fetched", categories)
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id := c.Param("id")

	var category models.Category
	if err := h.DB.Where("id = ?", id).First(&category).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "Category not found", nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category fetched", category)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Icon        string `json:"icon"`
		Description string `json:"description"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New(utils.SanitizeValidationError(err)))
		return
	}

	category := models.Category{
		Name:        req.Name,
		Icon:        req.Icon,
		Description: req.Description,
	}
	if err := h.DB.Create(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to create category", err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id := c.Param("id")

	var req struct {
		Name        *string `json:"name"`
		Icon        *string `json:"icon"`
		Description *string `json:"description"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New(utils.SanitizeValidationError(err)))
		return
	}

	var category models.Category
	if err := h.DB.Where("id = ?", id).First(&category).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "Category not found", nil)
		return
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := h.DB.Save(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to update category", err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Category updated", category)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id := c.Param("id")

	var category models.Category
	if err := h.DB.Where("id = ?", id).First(&category).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "Category not found", nil)
		return
	}

	// Refuse deletion while dishes still reference the category.
	var productCount int64
	h.DB.Model(&models.Product{}).Where("category_id = ?", category.ID).Count(&productCount)
	if productCount > 0 {
		utils.RespondError(c, http.StatusConflict, "Category still has products",
			errors.New("reassign or delete its products first"))
		return
	}

	if err := h.DB.Delete(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to delete category", err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Category deleted", nil)
}
