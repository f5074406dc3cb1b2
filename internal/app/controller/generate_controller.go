package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/amirtishiva/craftbiz-backend/internal/app/model"
	"github.com/amirtishiva/craftbiz-backend/internal/app/service"
	apperrors "github.com/amirtishiva/craftbiz-backend/internal/errors"
	"github.com/amirtishiva/craftbiz-backend/internal/middleware"
	"github.com/amirtishiva/craftbiz-backend/pkg/logger"
	"github.com/amirtishiva/craftbiz-backend/pkg/util"
	"github.com/gin-gonic/gin"
)

// GenerateController exposes the generate-* server functions
type GenerateController struct {
	aiService  service.AIService
	mapsAPIKey string
}

func NewGenerateController(aiService service.AIService, mapsAPIKey string) *GenerateController {
	return &GenerateController{
		aiService:  aiService,
		mapsAPIKey: mapsAPIKey,
	}
}

type BusinessPlanRequest struct {
	Idea string `json:"idea" binding:"required"`
}

type MarketingContentRequest struct {
	ProductDescription string `json:"product_description" binding:"required"`
	Platform           string `json:"platform"`
	Tone               string `json:"tone"`
}

type RefinePromptRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

type GenerateImageRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

type GeocodeRequest struct {
	Address string `json:"address" binding:"required"`
}

// GenerateBusinessPlan turns a business idea into a structured plan
// POST /api/v1/generate/business-plan
func (ctrl *GenerateController) GenerateBusinessPlan(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req BusinessPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "An idea is required")
		return
	}

	plan, err := ctrl.aiService.GenerateBusinessPlan(c.Request.Context(), userID, req.Idea)
	if err != nil {
		ctrl.respondGenerationError(c, log, err, "business plan")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"plan": plan,
	})
}

// GenerateMarketingContent writes platform-specific marketing copy
// POST /api/v1/generate/marketing-content
func (ctrl *GenerateController) GenerateMarketingContent(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req MarketingContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A product description is required")
		return
	}

	content, err := ctrl.aiService.GenerateMarketingContent(c.Request.Context(), userID, req.ProductDescription, req.Platform, req.Tone)
	if err != nil {
		ctrl.respondGenerationError(c, log, err, "marketing content")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"content": content,
	})
}

// RefinePrompt improves an image prompt without persisting anything
// POST /api/v1/generate/refine-prompt
func (ctrl *GenerateController) RefinePrompt(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if _, exists := middleware.GetUserID(c); !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req RefinePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A prompt is required")
		return
	}

	refined, err := ctrl.aiService.RefinePrompt(c.Request.Context(), req.Prompt)
	if err != nil {
		ctrl.respondGenerationError(c, log, err, "prompt")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"refined_prompt": refined,
	})
}

// GenerateLogo, GenerateMockup and GenerateScene produce design assets
// POST /api/v1/generate/logo | /mockup | /scene
func (ctrl *GenerateController) GenerateLogo(c *gin.Context) {
	ctrl.generateImage(c, model.AssetKindLogo)
}

func (ctrl *GenerateController) GenerateMockup(c *gin.Context) {
	ctrl.generateImage(c, model.AssetKindMockup)
}

func (ctrl *GenerateController) GenerateScene(c *gin.Context) {
	ctrl.generateImage(c, model.AssetKindScene)
}

func (ctrl *GenerateController) generateImage(c *gin.Context, kind model.DesignAssetKind) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req GenerateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A prompt is required")
		return
	}

	asset, err := ctrl.aiService.GenerateImage(c.Request.Context(), userID, kind, req.Prompt)
	if err != nil {
		ctrl.respondGenerationError(c, log, err, string(kind))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"asset": asset,
	})
}

// ListAssets returns the user's generated design assets
// GET /api/v1/generate/assets?kind=logo
func (ctrl *GenerateController) ListAssets(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var kind *model.DesignAssetKind
	if v := c.Query("kind"); v != "" {
		k := model.DesignAssetKind(v)
		kind = &k
	}

	assets, err := ctrl.aiService.ListAssets(userID, kind)
	if err != nil {
		log.Error("Failed to fetch design assets", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "design asset")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"assets": assets,
		"count":  len(assets),
	})
}

// DeleteAsset removes one of the user's generated assets
// DELETE /api/v1/generate/assets/:id
func (ctrl *GenerateController) DeleteAsset(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid asset ID")
		return
	}

	if err := ctrl.aiService.DeleteAsset(userID, uint(id)); err != nil {
		if errors.Is(err, service.ErrAssetNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Design asset not found")
			return
		}
		log.Error("Failed to delete design asset", err, map[string]interface{}{
			"asset_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "design asset")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Asset deleted",
	})
}

// ListBusinessPlans returns the user's generated plans
// GET /api/v1/generate/business-plans
func (ctrl *GenerateController) ListBusinessPlans(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	plans, err := ctrl.aiService.ListBusinessPlans(userID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "business plan")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"plans": plans,
	})
}

// ListMarketingContent returns the user's generated marketing copy
// GET /api/v1/generate/marketing-content
func (ctrl *GenerateController) ListMarketingContent(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	content, err := ctrl.aiService.ListMarketingContent(userID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "marketing content")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"content": content,
	})
}

// GeocodeAddress resolves an address to coordinates
// POST /api/v1/geocode
func (ctrl *GenerateController) GeocodeAddress(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if _, exists := middleware.GetUserID(c); !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req GeocodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "An address is required")
		return
	}

	result, err := util.GeocodeAddress(req.Address, ctrl.mapsAPIKey)
	if err != nil {
		log.Warn("Geocoding failed", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.GeocodeFailed, "Could not resolve this address")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result": result,
	})
}

func (ctrl *GenerateController) respondGenerationError(c *gin.Context, log *logger.Logger, err error, context string) {
	switch {
	case errors.Is(err, service.ErrEmptyPrompt):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A prompt is required")
	case errors.Is(err, service.ErrGenerationFailed):
		apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.GenerateFailed, "Generation failed. Please try again")
	default:
		log.Error("Generation request failed", err, map[string]interface{}{
			"context": context,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}
