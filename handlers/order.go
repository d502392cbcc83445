package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"trattoria-backend/models"
	"trattoria-backend/scheduling"
	"trattoria-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderHandler struct {
	DB *gorm.DB
}

type orderItemRequest struct {
	Name      string  `json:"name" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
	UnitPrice float64 `json:"unit_price"`
	Notes     string  `json:"notes"`
}

// respondAdmissionError maps admission failures to HTTP responses. A full
// slot carries isCompleto so the front office can offer the force override.
func respondAdmissionError(c *gin.Context, err error) {
	var slotFull *scheduling.SlotFullError
	var closed *scheduling.ClosedDayError
	var outside *scheduling.OutsideShiftError

	switch {
	case errors.As(err, &slotFull):
		c.JSON(http.StatusBadRequest, gin.H{
			"success":    false,
			"message":    slotFull.Error(),
			"isCompleto": true,
		})
	case errors.As(err, &closed), errors.As(err, &outside):
		utils.RespondError(c, http.StatusBadRequest, "Order not admitted", err)
	case errors.Is(err, scheduling.ErrConfigurationMissing):
		utils.RespondError(c, http.StatusBadRequest, "Order not admitted", err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, "Failed to check availability", err)
	}
}

func buildOrderItems(items []orderItemRequest) ([]models.OrderItem, error) {
	out := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		if item.UnitPrice < 0 {
			return nil, fmt.Errorf("item '%s' has a negative unit price", item.Name)
		}
		out = append(out, models.OrderItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Notes:     item.Notes,
		})
	}
	return out, nil
}

// awardLoyaltyPoints credits a customer for an order inside tx and returns the
// number of points granted.
func awardLoyaltyPoints(tx *gorm.DB, customerID uuid.UUID, orderID uuid.UUID, total float64) (int, error) {
	var customer models.Customer
	if err := tx.Where("id = ?", customerID).First(&customer).Error; err != nil {
		return 0, err
	}

	program, err := models.GetLoyaltyProgram(tx)
	if err != nil {
		return 0, err
	}

	points := program.PointsForTotal(total)
	if points <= 0 {
		return 0, nil
	}

	customer.Points += points
	customer.Badge = program.BadgeFor(customer.Points)
	if err := tx.Save(&customer).Error; err != nil {
		return 0, err
	}

	history := models.LoyaltyHistory{
		CustomerID:  customer.ID,
		Points:      points,
		Type:        "earned",
		Description: fmt.Sprintf("Order for €%.2f", total),
		OrderID:     &orderID,
	}
	if err := tx.Create(&history).Error; err != nil {
		return 0, err
	}
	return points, nil
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req struct {
		CustomerName    string             `json:"customer_name" binding:"required"`
		CustomerPhone   string             `json:"customer_phone"`
		CustomerID      *string            `json:"customer_id"`
		Date            string             `json:"date" binding:"required"`
		Time            string             `json:"time" binding:"required"`
		Type            string             `json:"type"`
		Items           []orderItemRequest `json:"items" binding:"required,min=1,dive"`
		Total           *float64           `json:"total"`
		DeliveryAddress string             `json:"delivery_address"`
		Notes           string             `json:"notes"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New(utils.SanitizeValidationError(err)))
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New("date must be in YYYY-MM-DD format"))
		return
	}
	if _, err := scheduling.ParseClock(req.Time); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	orderType := models.OrderTypeTakeaway
	if req.Type != "" {
		orderType = models.OrderType(req.Type)
		if !models.ValidOrderType(orderType) {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request", fmt.Errorf("unknown order type '%s'", req.Type))
			return
		}
	}
	if orderType == models.OrderTypeDelivery && req.DeliveryAddress == "" {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New("delivery orders require a delivery address"))
		return
	}

	var customerID *uuid.UUID
	if req.CustomerID != nil && *req.CustomerID != "" {
		cID, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New("invalid customer_id"))
			return
		}
		var customer models.Customer
		if err := h.DB.Where("id = ?", cID).First(&customer).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, "Customer not found", nil)
			return
		}
		customerID = &cID
	}

	items, err := buildOrderItems(req.Items)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	order := models.Order{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerID:      customerID,
		Date:            date,
		Time:            req.Time,
		Type:            orderType,
		Status:          models.OrderStatusConfirmed,
		Items:           items,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
	}

	if req.Total != nil && *req.Total > 0 {
		order.Total = *req.Total
	} else {
		order.Total = order.ItemsTotal()
	}

	force := c.Query("force") == "true"

	tx := h.DB.Begin()

	if _, err := scheduling.Admit(tx, date, req.Time, force, nil); err != nil {
		tx.Rollback()
		respondAdmissionError(c, err)
		return
	}

	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, "Failed to create order", err)
		return
	}

	if customerID != nil {
		points, err := awardLoyaltyPoints(tx, *customerID, order.ID, order.Total)
		if err != nil {
			tx.Rollback()
			utils.RespondError(c, http.StatusInternalServerError, "Failed to award loyalty points", err)
			return
		}
		if points > 0 {
			order.PointsAwarded = points
			if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
				Update("points_awarded", points).Error; err != nil {
				tx.Rollback()
				utils.RespondError(c, http.StatusInternalServerError, "Failed to create order", err)
				return
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to create order", err)
		return
	}

	h.DB.Preload("Items").Preload("Customer").First(&order, order.ID)

	if order.Customer != nil && order.Customer.Email != "" {
		utils.SendOrderConfirmation(order.Customer.Email, order.CustomerName,
			order.OrderNumber, req.Date, order.Time, order.Total)
	}

	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

func (h *OrderHandler) GetOrders(c *gin.Context) {
	query := h.DB.Preload("Items").Preload("Customer")

	if date := c.Query("date"); date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New("date must be in YYYY-MM-DD format"))
			return
		}
		start, end := scheduling.DayRange(parsed)
		query = query.Where("date >= ? AND date <= ?", start, end)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if orderType := c.Query("type"); orderType != "" {
		query = query.Where("type = ?", orderType)
	}
	if customerID := c.Query("customer_id"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}

	var orders []models.Order
	if err := query.Order("date DESC, time ASC").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch orders", err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Orders fetched", orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id := c.Param("id")

	var order models.Order
	if err := h.DB.Preload("Items").Preload("Customer").Where("id = ?", id).First(&order).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "Order not found", nil)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order fetched", order)
}

// UpdateOrder partially updates an order. A change to date or time re-runs the
// full admission check with the order's own slot usage excluded, so moving an
// order within its current slot never counts against itself.
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	id := c.Param("id")

	var req struct {
		CustomerName    *string            `json:"customer_name"`
		CustomerPhone   *string            `json:"customer_phone"`
		Date            *string            `json:"date"`
		Time            *string            `json:"time"`
		Type            *string            `json:"type"`
		Items           []orderItemRequest `json:"items"`
		Total           *float64           `json:"total"`
		DeliveryAddress *string            `json:"delivery_address"`
		Notes           *string            `json:"notes"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New(utils.SanitizeValidationError(err)))
		return
	}

	var order models.Order
	if err := h.DB.Preload("Items").Where("id = ?", id).First(&order).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "Order not found", nil)
		return
	}

	newDate := order.Date
	newTime := order.Time
	slotChanged := false

	if req.Date != nil {
		parsed, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New("date must be in YYYY-MM-DD format"))
			return
		}
		if !parsed.Equal(order.Date) {
			newDate = parsed
			slotChanged = true
		}
	}
	if req.Time != nil {
		if _, err := scheduling.ParseClock(*req.Time); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request", err)
			return
		}
		if *req.Time != order.Time {
			newTime = *req.Time
			slotChanged = true
		}
	}

	if req.Type != nil {
		t := models.OrderType(*req.Type)
		if !models.ValidOrderType(t) {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request", fmt.Errorf("unknown order type '%s'", *req.Type))
			return
		}
		order.Type = t
	}

	if req.CustomerName != nil {
		order.CustomerName = *req.CustomerName
	}
	if req.CustomerPhone != nil {
		order.CustomerPhone = *req.CustomerPhone
	}
	if req.DeliveryAddress != nil {
		order.DeliveryAddress = *req.DeliveryAddress
	}
	if req.Notes != nil {
		order.Notes = *req.Notes
	}

	if order.Type == models.OrderTypeDelivery && order.DeliveryAddress == "" {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New("delivery orders require a delivery address"))
		return
	}

	var newItems []models.OrderItem
	if req.Items != nil {
		items, err := buildOrderItems(req.Items)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request", err)
			return
		}
		if len(items) == 0 {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New("an order needs at least one item"))
			return
		}
		newItems = items
	}

	force := c.Query("force") == "true"

	tx := h.DB.Begin()

	if slotChanged {
		if _, err := scheduling.Admit(tx, newDate, newTime, force, &order.ID); err != nil {
			tx.Rollback()
			respondAdmissionError(c, err)
			return
		}
		order.Date = newDate
		order.Time = newTime
	}

	if newItems != nil {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			tx.Rollback()
			utils.RespondError(c, http.StatusInternalServerError, "Failed to update order", err)
			return
		}
		for i := range newItems {
			newItems[i].OrderID = order.ID
		}
		if err := tx.Create(&newItems).Error; err != nil {
			tx.Rollback()
			utils.RespondError(c, http.StatusInternalServerError, "Failed to update order", err)
			return
		}
		order.Items = newItems
		if req.Total == nil {
			order.Total = order.ItemsTotal()
		}
	}
	if req.Total != nil {
		order.Total = *req.Total
	}

	if err := tx.Omit("Items").Save(&order).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, "Failed to update order", err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to update order", err)
		return
	}

	h.DB.Preload("Items").Preload("Customer").First(&order, order.ID)
	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id := c.Param("id")

	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New(utils.SanitizeValidationError(err)))
		return
	}

	if !models.ValidOrderStatus(req.Status) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", fmt.Errorf("unknown status '%s'", req.Status))
		return
	}

	var order models.Order
	if err := h.DB.Where("id = ?", id).First(&order).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "Order not found", nil)
		return
	}

	if !models.IsValidTransition(order.Status, req.Status) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid status transition",
			fmt.Errorf("cannot transition from '%s' to '%s'", order.Status, req.Status))
		return
	}

	order.Status = req.Status
	if req.Status == models.OrderStatusPreparing && order.PreparingAt == nil {
		now := time.Now()
		order.PreparingAt = &now
	}

	if err := h.DB.Save(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to update order status", err)
		return
	}

	h.DB.Preload("Items").Preload("Customer").First(&order, order.ID)

	if order.Customer != nil && order.Customer.Email != "" {
		utils.SendOrderStatusUpdate(order.Customer.Email, order.CustomerName,
			order.OrderNumber, string(req.Status))
	}

	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id := c.Param("id")

	var order models.Order
	if err := h.DB.Where("id = ?", id).First(&order).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "Order not found", nil)
		return
	}

	if err := h.DB.Delete(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to delete order", err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order deleted", nil)
}

// GetOrderStats serves /orders/stats/summary: counts by status and type,
// revenue for today and the trailing week, and today's busiest slots.
func (h *OrderHandler) GetOrderStats(c *gin.Context) {
	type bucket struct {
		Key   string `json:"key"`
		Count int64  `json:"count"`
	}

	var byStatus []bucket
	h.DB.Model(&models.Order{}).
		Select("status AS key, COUNT(*) AS count").
		Group("status").Scan(&byStatus)

	var byType []bucket
	h.DB.Model(&models.Order{}).
		Select("type AS key, COUNT(*) AS count").
		Group("type").Scan(&byType)

	now := time.Now()
	todayStart, todayEnd := scheduling.DayRange(now)

	var revenueToday float64
	h.DB.Model(&models.Order{}).
		Where("date >= ? AND date <= ? AND status <> ?", todayStart, todayEnd, models.OrderStatusCancelled).
		Select("COALESCE(SUM(total), 0)").Scan(&revenueToday)

	weekAgo := todayStart.AddDate(0, 0, -6)
	var revenueWeek float64
	h.DB.Model(&models.Order{}).
		Where("date >= ? AND date <= ? AND status <> ?", weekAgo, todayEnd, models.OrderStatusCancelled).
		Select("COALESCE(SUM(total), 0)").Scan(&revenueWeek)

	type slotUsage struct {
		Time  string `json:"time"`
		Count int64  `json:"count"`
	}
	var topSlots []slotUsage
	h.DB.Model(&models.Order{}).
		Where("date >= ? AND date <= ? AND status <> ?", todayStart, todayEnd, models.OrderStatusCancelled).
		Select("time, COUNT(*) AS count").
		Group("time").Order("count DESC").Limit(5).Scan(&topSlots)

	utils.RespondJSON(c, http.StatusOK, "Order stats fetched", gin.H{
		"by_status":     byStatus,
		"by_type":       byType,
		"revenue_today": revenueToday,
		"revenue_week":  revenueWeek,
		"top_slots":     topSlots,
	})
}
