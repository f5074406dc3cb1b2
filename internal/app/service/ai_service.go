package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/amirtishiva/craftbiz-backend/internal/app/model"
	"github.com/amirtishiva/craftbiz-backend/internal/app/repository"
	"github.com/amirtishiva/craftbiz-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrGenerationFailed = errors.New("content generation failed")
	ErrAssetNotFound    = errors.New("design asset not found")
	ErrEmptyPrompt      = errors.New("prompt must not be empty")
)

// AIService backs the generate-* server functions: business plans, marketing
// copy, prompt refinement, and logo/mockup/scene images. Generated artifacts
// are persisted so users can revisit them.
type AIService interface {
	GenerateBusinessPlan(ctx context.Context, userID uint, idea string) (*model.BusinessPlan, error)
	GenerateMarketingContent(ctx context.Context, userID uint, productDescription, platform, tone string) (*model.MarketingContent, error)
	RefinePrompt(ctx context.Context, prompt string) (string, error)
	GenerateImage(ctx context.Context, userID uint, kind model.DesignAssetKind, prompt string) (*model.DesignAsset, error)
	ListAssets(userID uint, kind *model.DesignAssetKind) ([]model.DesignAsset, error)
	DeleteAsset(userID, assetID uint) error
	ListMarketingContent(userID uint) ([]model.MarketingContent, error)
	ListBusinessPlans(userID uint) ([]model.BusinessPlan, error)
}

type aiService struct {
	genRepo    repository.GenerationRepository
	httpClient *http.Client
	baseURL    string
	apiKey     string
	chatModel  string
	imageModel string
}

func NewAIService(genRepo repository.GenerationRepository, baseURL, apiKey, chatModel, imageModel string) AIService {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if chatModel == "" {
		chatModel = "gpt-4o-mini"
	}
	if imageModel == "" {
		imageModel = "dall-e-3"
	}
	return &aiService{
		genRepo:    genRepo,
		httpClient: &http.Client{Timeout: 90 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		chatModel:  chatModel,
		imageModel: imageModel,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type imageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (s *aiService) GenerateBusinessPlan(ctx context.Context, userID uint, idea string) (*model.BusinessPlan, error) {
	if strings.TrimSpace(idea) == "" {
		return nil, ErrEmptyPrompt
	}

	logger.Info("Generating business plan", map[string]interface{}{
		"user_id": userID,
	})

	system := "You are a business consultant for independent artisans and craft sellers. " +
		"Produce a practical business plan with exactly these sections, each introduced by its title on its own line: " +
		"Executive Summary, Target Market, Product Strategy, Pricing, Marketing Channels, Operations, First-Year Milestones."

	content, err := s.chat(ctx, system, idea)
	if err != nil {
		return nil, err
	}

	summary, sections := splitPlanSections(content)

	plan := &model.BusinessPlan{
		UserID:   userID,
		Idea:     idea,
		Summary:  summary,
		Sections: sections,
	}
	if err := s.genRepo.CreateBusinessPlan(plan); err != nil {
		return nil, err
	}

	logger.Info("Business plan generated", map[string]interface{}{
		"user_id": userID,
		"plan_id": plan.ID,
	})
	return plan, nil
}

func (s *aiService) GenerateMarketingContent(ctx context.Context, userID uint, productDescription, platform, tone string) (*model.MarketingContent, error) {
	if strings.TrimSpace(productDescription) == "" {
		return nil, ErrEmptyPrompt
	}
	if platform == "" {
		platform = "instagram"
	}
	if tone == "" {
		tone = "warm"
	}

	system := fmt.Sprintf(
		"You write %s marketing copy for handmade craft products in a %s tone. "+
			"Return only the post body, no commentary.", platform, tone)

	body, err := s.chat(ctx, system, productDescription)
	if err != nil {
		return nil, err
	}

	content := &model.MarketingContent{
		UserID:   userID,
		Platform: platform,
		Tone:     tone,
		Prompt:   productDescription,
		Body:     body,
	}
	if err := s.genRepo.CreateMarketingContent(content); err != nil {
		return nil, err
	}
	return content, nil
}

// RefinePrompt rewrites a rough user prompt into one that yields better
// image results. Nothing is persisted; the refined text feeds GenerateImage.
func (s *aiService) RefinePrompt(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	system := "Rewrite the user's image prompt to be vivid and specific for an image generation model. " +
		"Keep the subject unchanged. Return only the rewritten prompt."

	return s.chat(ctx, system, prompt)
}

func (s *aiService) GenerateImage(ctx context.Context, userID uint, kind model.DesignAssetKind, prompt string) (*model.DesignAsset, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	logger.Info("Generating design asset", map[string]interface{}{
		"user_id": userID,
		"kind":    kind,
	})

	fullPrompt := prompt
	switch kind {
	case model.AssetKindLogo:
		fullPrompt = "Minimal, memorable brand logo for a craft business: " + prompt
	case model.AssetKindMockup:
		fullPrompt = "Clean product mockup, studio lighting, neutral background: " + prompt
	case model.AssetKindScene:
		fullPrompt = "Lifestyle scene photograph featuring the product in a natural setting: " + prompt
	}

	reqBody, err := json.Marshal(imageRequest{
		Model:  s.imageModel,
		Prompt: fullPrompt,
		N:      1,
		Size:   "1024x1024",
	})
	if err != nil {
		return nil, err
	}

	respBody, err := s.post(ctx, "/images/generations", reqBody)
	if err != nil {
		return nil, err
	}

	var imgResp imageResponse
	if err := json.Unmarshal(respBody, &imgResp); err != nil {
		return nil, fmt.Errorf("failed to parse image response: %w", err)
	}
	if imgResp.Error != nil {
		logger.Error("Image generation rejected", errors.New(imgResp.Error.Message), map[string]interface{}{
			"kind": kind,
		})
		return nil, ErrGenerationFailed
	}
	if len(imgResp.Data) == 0 || imgResp.Data[0].URL == "" {
		return nil, ErrGenerationFailed
	}

	asset := &model.DesignAsset{
		UserID: userID,
		Kind:   kind,
		Prompt: prompt,
		URL:    imgResp.Data[0].URL,
	}
	if err := s.genRepo.CreateAsset(asset); err != nil {
		return nil, err
	}

	logger.Info("Design asset generated", map[string]interface{}{
		"user_id":  userID,
		"asset_id": asset.ID,
		"kind":     kind,
	})
	return asset, nil
}

func (s *aiService) ListAssets(userID uint, kind *model.DesignAssetKind) ([]model.DesignAsset, error) {
	return s.genRepo.FindAssetsByUserID(userID, kind)
}

func (s *aiService) DeleteAsset(userID, assetID uint) error {
	err := s.genRepo.DeleteAsset(userID, assetID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrAssetNotFound
	}
	return err
}

func (s *aiService) ListMarketingContent(userID uint) ([]model.MarketingContent, error) {
	return s.genRepo.FindMarketingContentByUserID(userID)
}

func (s *aiService) ListBusinessPlans(userID uint) ([]model.BusinessPlan, error) {
	return s.genRepo.FindBusinessPlansByUserID(userID)
}

func (s *aiService) chat(ctx context.Context, system, user string) (string, error) {
	reqBody, err := json.Marshal(chatRequest{
		Model: s.chatModel,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return "", err
	}

	respBody, err := s.post(ctx, "/chat/completions", reqBody)
	if err != nil {
		return "", err
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse chat response: %w", err)
	}
	if chatResp.Error != nil {
		logger.Error("Chat generation rejected", errors.New(chatResp.Error.Message), nil)
		return "", ErrGenerationFailed
	}
	if len(chatResp.Choices) == 0 {
		return "", ErrGenerationFailed
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

func (s *aiService) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		logger.Error("Generation API call failed", err, map[string]interface{}{
			"path": path,
		})
		return nil, fmt.Errorf("generation API unreachable: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		logger.Error("Generation API returned error status", fmt.Errorf("status %d", resp.StatusCode), map[string]interface{}{
			"path":   path,
			"status": resp.StatusCode,
		})
		return respBody, nil // body may carry a structured error payload
	}

	return respBody, nil
}

// splitPlanSections splits generated plan text into titled sections. The
// first paragraph before any known title becomes the summary.
func splitPlanSections(content string) (string, []string) {
	titles := []string{
		"Executive Summary", "Target Market", "Product Strategy", "Pricing",
		"Marketing Channels", "Operations", "First-Year Milestones",
	}

	lines := strings.Split(content, "\n")
	var summary strings.Builder
	var sections []string
	var current strings.Builder

	isTitle := func(line string) bool {
		trimmed := strings.Trim(strings.TrimSpace(line), "#* ")
		for _, t := range titles {
			if strings.EqualFold(trimmed, t) {
				return true
			}
		}
		return false
	}

	inSection := false
	for _, line := range lines {
		if isTitle(line) {
			if inSection {
				sections = append(sections, strings.TrimSpace(current.String()))
				current.Reset()
			}
			inSection = true
			current.WriteString(strings.Trim(strings.TrimSpace(line), "#* "))
			current.WriteString("\n")
			continue
		}
		if inSection {
			current.WriteString(line)
			current.WriteString("\n")
		} else {
			summary.WriteString(line)
			summary.WriteString("\n")
		}
	}
	if inSection && strings.TrimSpace(current.String()) != "" {
		sections = append(sections, strings.TrimSpace(current.String()))
	}

	sum := strings.TrimSpace(summary.String())
	if sum == "" && len(sections) > 0 {
		sum = sections[0]
	}
	return sum, sections
}
