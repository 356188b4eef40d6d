package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"

	logx "github.com/deskpilot-poc/server/pkg/logger"

	"github.com/deskpilot-poc/server/internal/agent/model"
)

// ChatModelConfig holds the configuration for chat model creation
type ChatModelConfig struct {
	APIKey           string
	BaseURL          string
	ClassifierConfig *model.ClassifierModelConfig
	GenerationConfig *model.GenerationModelConfig
}

// ChatModels holds the classifier and generation chat models. The classifier
// model runs cold (temperature 0) for stable labels; the generation model is
// shared by the planner, query rewriter, and answer synthesizer.
type ChatModels struct {
	Classifier          *gemini.ChatModel
	Generation          *gemini.ChatModel
	ClassifierModelName string
	GenerationModelName string
}

// NewChatModels creates both chat models with the given configuration
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	classifierModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.ClassifierConfig.Model,
		Temperature: &config.ClassifierConfig.Temperature,
		MaxTokens:   &config.ClassifierConfig.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating classifier model")
		return nil, fmt.Errorf("error creating classifier model: %w", err)
	}

	generationModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.GenerationConfig.Model,
		Temperature: &config.GenerationConfig.Temperature,
		MaxTokens:   &config.GenerationConfig.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating generation model")
		return nil, fmt.Errorf("error creating generation model: %w", err)
	}

	return &ChatModels{
		Classifier:          classifierModel,
		Generation:          generationModel,
		ClassifierModelName: config.ClassifierConfig.Model,
		GenerationModelName: config.GenerationConfig.Model,
	}, nil
}
