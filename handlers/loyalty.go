package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"trattoria-backend/firebase"
	"trattoria-backend/models"
	"trattoria-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LoyaltyHandler struct {
	DB      *gorm.DB
	Storage firebase.StorageClient
}

func (h *LoyaltyHandler) GetProgram(c *gin.Context) {
	program, err := models.GetLoyaltyProgram(h.DB)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch loyalty program", err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Loyalty program fetched", program)
}

// UpdateProgram adjusts the singleton loyalty configuration. Thresholds must
// stay strictly increasing so badge assignment is unambiguous.
func (h *LoyaltyHandler) UpdateProgram(c *gin.Context) {
	var req struct {
		PointsDivisor     *int `json:"points_divisor"`
		RegistrationBonus *int `json:"registration_bonus"`
		BirthdayBonus     *int `json:"birthday_bonus"`
		SilverThreshold   *int `json:"silver_threshold"`
		GoldThreshold     *int `json:"gold_threshold"`
		VIPThreshold      *int `json:"vip_threshold"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New(utils.SanitizeValidationError(err)))
		return
	}

	program, err := models.GetLoyaltyProgram(h.DB)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch loyalty program", err)
		return
	}

	if req.PointsDivisor != nil {
		if *req.PointsDivisor <= 0 {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New("points divisor must be positive"))
			return
		}
		program.PointsDivisor = *req.PointsDivisor
	}
	if req.RegistrationBonus != nil {
		if *req.RegistrationBonus < 0 {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New("registration bonus cannot be negative"))
			return
		}
		program.RegistrationBonus = *req.RegistrationBonus
	}
	if req.BirthdayBonus != nil {
		if *req.BirthdayBonus < 0 {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New("birthday bonus cannot be negative"))
			return
		}
		program.BirthdayBonus = *req.BirthdayBonus
	}
	if req.SilverThreshold != nil {
		program.SilverThreshold = *req.SilverThreshold
	}
	if req.GoldThreshold != nil {
		program.GoldThreshold = *req.GoldThreshold
	}
	if req.VIPThreshold != nil {
		program.VIPThreshold = *req.VIPThreshold
	}

	if !(program.SilverThreshold < program.GoldThreshold && program.GoldThreshold < program.VIPThreshold) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request",
			errors.New("badge thresholds must satisfy silver < gold < vip"))
		return
	}

	if err := h.DB.Save(program).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to update loyalty program", err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Loyalty program updated", program)
}

// GetActiveCampaigns lists currently running campaigns for the front office.
func (h *LoyaltyHandler) GetActiveCampaigns(c *gin.Context) {
	now := time.Now()
	var campaigns []models.Campaign
	err := h.DB.Where("is_active = ?", true).
		Where("(start_date IS NULL OR start_date <= ?) AND (end_date IS NULL OR end_date >= ?)", now, now).
		Find(&campaigns).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch campaigns", err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Campaigns fetched", campaigns)
}

// GetAllCampaigns returns every campaign including inactive ones for admin use.
func (h *LoyaltyHandler) GetAllCampaigns(c *gin.Context) {
	var campaigns []models.Campaign
	if err := h.DB.Order("created_at DESC").Find(&campaigns).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch campaigns", err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Campaigns fetched", campaigns)
}

func (h *LoyaltyHandler) GetCampaign(c *gin.Context) {
	id := c.Param("id")

	var campaign models.Campaign
	if err := h.DB.Where("id = ?", id).First(&campaign).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "Campaign not found", nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Campaign fetched", campaign)
}

// parseCampaignDate accepts either RFC3339 or plain YYYY-MM-DD.
func parseCampaignDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return &parsed
	}
	if parsed, err := time.Parse("2006-01-02", value); err == nil {
		return &parsed
	}
	return nil
}

// CreateCampaign takes multipart form data; the image is optional and stored
// through the Firebase collaborator when supplied.
func (h *LoyaltyHandler) CreateCampaign(c *gin.Context) {
	var campaign models.Campaign

	campaign.ID = uuid.New()
	campaign.Title = c.PostForm("title")
	campaign.Description = c.PostForm("description")
	campaign.IsActive = c.PostForm("is_active") == "true"
	campaign.StartDate = parseCampaignDate(c.PostForm("start_date"))
	campaign.EndDate = parseCampaignDate(c.PostForm("end_date"))

	if campaign.Title == "" {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New("title is required"))
		return
	}

	if bonus := c.PostForm("bonus_points"); bonus != "" {
		parsed, err := strconv.Atoi(bonus)
		if err != nil || parsed < 0 {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New("bonus_points must be a non-negative integer"))
			return
		}
		campaign.BonusPoints = parsed
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		if err := utils.ValidateFileUpload(fileHeader); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request", err)
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Failed to open uploaded file", nil)
			return
		}
		defer file.Close()

		imageURL, err := h.Storage.UploadCampaignImage(
			file,
			fileHeader.Filename,
			fileHeader.Header.Get("Content-Type"),
		)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, "Image upload failed", nil)
			return
		}
		campaign.Image = imageURL
	}

	if err := h.DB.Create(&campaign).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to create campaign", err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Campaign created", campaign)
}

func (h *LoyaltyHandler) UpdateCampaign(c *gin.Context) {
	id := c.Param("id")

	var campaign models.Campaign
	if err := h.DB.Where("id = ?", id).First(&campaign).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "Campaign not found", nil)
		return
	}

	if title := c.PostForm("title"); title != "" {
		campaign.Title = title
	}
	if description, ok := c.GetPostForm("description"); ok {
		campaign.Description = description
	}
	if isActive, ok := c.GetPostForm("is_active"); ok {
		campaign.IsActive = isActive == "true"
	}
	if start := c.PostForm("start_date"); start != "" {
		campaign.StartDate = parseCampaignDate(start)
	}
	if end := c.PostForm("end_date"); end != "" {
		campaign.EndDate = parseCampaignDate(end)
	}
	if bonus, ok := c.GetPostForm("bonus_points"); ok {
		parsed, err := strconv.Atoi(bonus)
		if err != nil || parsed < 0 {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request", errors.New("bonus_points must be a non-negative integer"))
			return
		}
		campaign.BonusPoints = parsed
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		if err := utils.ValidateFileUpload(fileHeader); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request", err)
			return
		}

		if campaign.Image != "" {
			if objectPath, pathErr := utils.ExtractObjectPath(campaign.Image); pathErr == nil {
				_ = h.Storage.DeleteFile(objectPath)
			}
		}

		file, openErr := fileHeader.Open()
		if openErr != nil {
			utils.RespondError(c, http.StatusBadRequest, "Failed to open uploaded file", nil)
			return
		}
		defer file.Close()

		imageURL, uploadErr := h.Storage.UploadCampaignImage(
			file,
			fileHeader.Filename,
			fileHeader.Header.Get("Content-Type"),
		)
		if uploadErr != nil {
			utils.RespondError(c, http.StatusInternalServerError, "Image upload failed", nil)
			return
		}
		campaign.Image = imageURL
	}

	if err := h.DB.Save(&campaign).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to update campaign", err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Campaign updated", campaign)
}

func (h *LoyaltyHandler) DeleteCampaign(c *gin.Context) {
	id := c.Param("id")

	var campaign models.Campaign
	if err := h.DB.Where("id = ?", id).First(&campaign).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "Campaign not found", nil)
		return
	}

	if campaign.Image != "" {
		if objectPath, err := utils.ExtractObjectPath(campaign.Image); err == nil {
			_ = h.Storage.DeleteFile(objectPath)
		}
	}

	if err := h.DB.Delete(&campaign).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to delete campaign", err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Campaign deleted", nil)
}
