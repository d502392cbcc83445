package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"trattoria-backend/models"
	"trattoria-backend/scheduling"
	"trattoria-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ScheduleHandler struct {
	DB *gorm.DB
}

type shiftRequest struct {
	OpenTime  string `json:"open_time" binding:"required"`
	CloseTime string `json:"close_time" binding:"required"`
}

// validateShifts checks clock syntax and open<close for each window.
func validateShifts(shifts []shiftRequest) error {
	for i, shift := range shifts {
		open, err := scheduling.ParseClock(shift.OpenTime)
		if err != nil {
			return fmt.Errorf("shift %d: %v", i+1, err)
		}
		close, err := scheduling.ParseClock(shift.CloseTime)
		if err != nil {
			return fmt.Errorf("shift %d: %v", i+1, err)
		}
		if close <= open {
			return fmt.Errorf("shift %d: close time %s must be after open time %s", i+1, shift.CloseTime, shift.OpenTime)
		}
	}
	return nil
}

func parseWeekday(c *gin.Context) (int, error) {
	day, err := strconv.Atoi(c.Param("weekday"))
	if err != nil || day < 0 || day > 6 {
		return 0, errors.New("weekday must be between 0 (Monday) and 6 (Sunday)")
	}
	return day, nil
}

// GetSchedule returns all seven weekday entries, creating any missing ones
// with defaults.
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	entries := make([]models.WeeklySchedule, 0, 7)
	for day := 0; day <= 6; day++ {
		entry, err := scheduling.GetOrCreateSchedule(h.DB, day)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch schedule", err)
			return
		}
		entries = append(entries, *entry)
	}
	utils.RespondJSON(c, http.StatusOK, "Schedule fetched", entries)
}

func (h *ScheduleHandler) GetScheduleDay(c *gin.Context) {
	day, err := parseWeekday(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	entry, err := scheduling.GetOrCreateSchedule(h.DB, day)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch schedule", err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Schedule fetched", entry)
}

// UpdateScheduleDay overwrites the configuration for one weekday. Fields are
// pointers so callers can change the capacity without resending the shifts;
// when shifts are supplied they replace the existing set wholesale.
func (h *ScheduleHandler) UpdateScheduleDay(c *gin.Context) {
	day, err := parseWeekday(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	var req struct {
		IsOpen              *bool          `json:"is_open"`
		SlotIntervalMinutes *int           `json:"slot_interval_minutes"`
		SlotCapacity        *int           `json:"slot_capacity"`
		Shifts              []shiftRequest `json:"shifts"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New(utils.SanitizeValidationError(err)))
		return
	}

	if req.SlotIntervalMinutes != nil && !models.ValidSlotIntervals[*req.SlotIntervalMinutes] {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request",
			fmt.Errorf("slot interval must be one of 5, 10, 15, 20, 30, 60 minutes"))
		return
	}
	if req.SlotCapacity != nil && (*req.SlotCapacity < models.MinSlotCapacity || *req.SlotCapacity > models.MaxSlotCapacity) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request",
			fmt.Errorf("slot capacity must be between %d and %d", models.MinSlotCapacity, models.MaxSlotCapacity))
		return
	}
	if req.Shifts != nil {
		if err := validateShifts(req.Shifts); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request", err)
			return
		}
	}

	entry, err := scheduling.GetOrCreateSchedule(h.DB, day)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch schedule", err)
		return
	}

	if req.IsOpen != nil {
		entry.IsOpen = *req.IsOpen
	}
	if req.SlotIntervalMinutes != nil {
		entry.SlotIntervalMinutes = *req.SlotIntervalMinutes
	}
	if req.SlotCapacity != nil {
		entry.SlotCapacity = *req.SlotCapacity
	}

	tx := h.DB.Begin()

	if req.Shifts != nil {
		if err := tx.Where("schedule_id = ?", entry.ID).Delete(&models.ScheduleShift{}).Error; err != nil {
			tx.Rollback()
			utils.RespondError(c, http.StatusInternalServerError, "Failed to update schedule", err)
			return
		}
		entry.Shifts = make([]models.ScheduleShift, 0, len(req.Shifts))
		for i, shift := range req.Shifts {
			entry.Shifts = append(entry.Shifts, models.ScheduleShift{
				ScheduleID: entry.ID,
				Position:   i,
				OpenTime:   shift.OpenTime,
				CloseTime:  shift.CloseTime,
			})
		}
		if len(entry.Shifts) > 0 {
			if err := tx.Create(&entry.Shifts).Error; err != nil {
				tx.Rollback()
				utils.RespondError(c, http.StatusInternalServerError, "Failed to update schedule", err)
				return
			}
		}
	}

	if err := tx.Omit("Shifts").Save(entry).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, "Failed to update schedule", err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to update schedule", err)
		return
	}

	entry, err = scheduling.GetOrCreateSchedule(h.DB, day)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch schedule", err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Schedule updated", entry)
}

// CopyToAll replicates one weekday's configuration onto the other six days.
func (h *ScheduleHandler) CopyToAll(c *gin.Context) {
	day, err := parseWeekday(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	source, err := scheduling.GetOrCreateSchedule(h.DB, day)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch schedule", err)
		return
	}

	tx := h.DB.Begin()

	for target := 0; target <= 6; target++ {
		if target == day {
			continue
		}
		entry, err := scheduling.GetOrCreateSchedule(tx, target)
		if err != nil {
			tx.Rollback()
			utils.RespondError(c, http.StatusInternalServerError, "Failed to copy schedule", err)
			return
		}

		entry.IsOpen = source.IsOpen
		entry.SlotIntervalMinutes = source.SlotIntervalMinutes
		entry.SlotCapacity = source.SlotCapacity

		if err := tx.Where("schedule_id = ?", entry.ID).Delete(&models.ScheduleShift{}).Error; err != nil {
			tx.Rollback()
			utils.RespondError(c, http.StatusInternalServerError, "Failed to copy schedule", err)
			return
		}
		shifts := make([]models.ScheduleShift, 0, len(source.Shifts))
		for i, shift := range source.Shifts {
			shifts = append(shifts, models.ScheduleShift{
				ScheduleID: entry.ID,
				Position:   i,
				OpenTime:   shift.OpenTime,
				CloseTime:  shift.CloseTime,
			})
		}
		if len(shifts) > 0 {
			if err := tx.Create(&shifts).Error; err != nil {
				tx.Rollback()
				utils.RespondError(c, http.StatusInternalServerError, "Failed to copy schedule", err)
				return
			}
		}

		if err := tx.Omit("Shifts").Save(entry).Error; err != nil {
			tx.Rollback()
			utils.RespondError(c, http.StatusInternalServerError, "Failed to copy schedule", err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to copy schedule", err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Schedule copied to all days", nil)
}

func (h *ScheduleHandler) GetHolidays(c *gin.Context) {
	var holidays []models.Holiday
	if err := h.DB.Order("date ASC").Find(&holidays).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch holidays", err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Holidays fetched", holidays)
}

func (h *ScheduleHandler) CreateHoliday(c *gin.Context) {
	var req struct {
		Date        string `json:"date" binding:"required"`
		Description string `json:"description"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New(utils.SanitizeValidationError(err)))
		return
	}

	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New("date must be in YYYY-MM-DD format"))
		return
	}

	var existing models.Holiday
	if err := h.DB.Where("date = ?", req.Date).First(&existing).Error; err == nil {
		utils.RespondError(c, http.StatusConflict, "Holiday already exists", nil)
		return
	}

	holiday := models.Holiday{
		Date:        req.Date,
		Description: req.Description,
	}
	if err := h.DB.Create(&holiday).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to create holiday", err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Holiday created", holiday)
}

func (h *ScheduleHandler) DeleteHoliday(c *gin.Context) {
	date := c.Param("date")

	var holiday models.Holiday
	if err := h.DB.Where("date = ?", date).First(&holiday).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "Holiday not found", nil)
		return
	}

	if err := h.DB.Delete(&holiday).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to delete holiday", err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Holiday deleted", nil)
}
