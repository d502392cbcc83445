package handlers

import (
	"net/http"
	"time"

	"trattoria-backend/models"
	"trattoria-backend/scheduling"
	"trattoria-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	DB *gorm.DB
}

// GetDashboard aggregates the headline numbers for the admin landing page.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	var productCount int64
	h.DB.Model(&models.Product{}).Count(&productCount)

	var categoryCount int64
	h.DB.Model(&models.Category{}).Count(&categoryCount)

	var customerCount int64
	h.DB.Model(&models.Customer{}).Count(&customerCount)

	var totalOrders int64
	h.DB.Model(&models.Order{}).Count(&totalOrders)

	var totalRevenue float64
	h.DB.Model(&models.Order{}).
		Where("status <> ?", models.OrderStatusCancelled).
		Select("COALESCE(SUM(total), 0)").Scan(&totalRevenue)

	now := time.Now()
	todayStart, todayEnd := scheduling.DayRange(now)

	var todayOrders int64
	h.DB.Model(&models.Order{}).
		Where("date >= ? AND date <= ?", todayStart, todayEnd).
		Count(&todayOrders)

	var todayRevenue float64
	h.DB.Model(&models.Order{}).
		Where("date >= ? AND date <= ? AND status <> ?", todayStart, todayEnd, models.OrderStatusCancelled).
		Select("COALESCE(SUM(total), 0)").Scan(&todayRevenue)

	ordersByStatus := make(map[string]int64)
	for _, status := range []models.OrderStatus{
		models.OrderStatusConfirmed,
		models.OrderStatusPreparing,
		models.OrderStatusCompleted,
		models.OrderStatusCancelled,
	} {
		var count int64
		h.DB.Model(&models.Order{}).Where("status = ?", status).Count(&count)
		ordersByStatus[string(status)] = count
	}

	var recentOrders []models.Order
	h.DB.Preload("Items").Preload("Customer").
		Order("created_at DESC").Limit(10).Find(&recentOrders)

	utils.RespondJSON(c, http.StatusOK, "Dashboard fetched", gin.H{
		"total_products":   productCount,
		"total_categories": categoryCount,
		"total_customers":  customerCount,
		"total_orders":     totalOrders,
		"total_revenue":    totalRevenue,
		"today_orders":     todayOrders,
		"today_revenue":    todayRevenue,
		"orders_by_status": ordersByStatus,
		"recent_orders":    recentOrders,
	})
}
