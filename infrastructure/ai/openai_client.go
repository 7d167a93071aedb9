package ai

import (
	"context"
	"errors"
	"fmt"

	"computer_use_demo/domain/entities"
	"computer_use_demo/infrastructure/config"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/azure"
	"github.com/openai/openai-go/v3/option"
	"github.com/sirupsen/logrus"
)

// ErrEmptyResponse is returned when the endpoint answers without any choices
var ErrEmptyResponse = errors.New("no response from model")

// VisionClient sends screenshot + instruction queries to an Azure OpenAI deployment
type VisionClient struct {
	client     openai.Client
	auth       AuthMode
	deployment string
	maxTokens  int64
	logger     *logrus.Logger
}

// NewVisionClient resolves authentication once and prepares the SDK client.
// Extra options are appended last, so tests can redirect the HTTP client.
func NewVisionClient(cfg *config.Config, logger *logrus.Logger, newCredential CredentialFactory, opts ...option.RequestOption) (*VisionClient, error) {
	auth, err := ResolveAuth(cfg, newCredential)
	if err != nil {
		return nil, err
	}

	requestOpts := []option.RequestOption{
		azure.WithEndpoint(cfg.Endpoint, cfg.APIVersion),
		auth.requestOption(),
		option.WithMaxRetries(0),
	}
	if cfg.RequestTimeout > 0 {
		requestOpts = append(requestOpts, option.WithRequestTimeout(cfg.RequestTimeout))
	}
	requestOpts = append(requestOpts, opts...)

	logger.WithFields(logrus.Fields{
		"deployment": cfg.DeploymentName,
		"auth":       auth.Name(),
	}).Info("Azure OpenAI client initialized")

	return &VisionClient{
		client:     openai.NewClient(requestOpts...),
		auth:       auth,
		deployment: cfg.DeploymentName,
		maxTokens:  int64(cfg.MaxTokens),
		logger:     logger,
	}, nil
}

// Auth returns the authentication mode chosen at construction
func (c *VisionClient) Auth() AuthMode {
	return c.auth
}

// Query sends one request with a text part and an inline PNG part.
// Errors are logged here; callers get an empty string alongside the error.
func (c *VisionClient) Query(ctx context.Context, instruction string, imageBase64 string) (string, error) {
	unit := entities.QueryUnit{Instruction: instruction, ImageBase64: imageBase64}

	answer, err := c.complete(ctx, unit)
	if err != nil {
		c.logger.WithError(err).Error("Error calling vision model")
		return "", err
	}
	return answer, nil
}

// Summarize asks for a summary of the page shown in the screenshot
func (c *VisionClient) Summarize(ctx context.Context, screenshot entities.Screenshot) (string, error) {
	return c.Query(ctx, entities.SummarizeInstruction, screenshot.Base64())
}

func (c *VisionClient) complete(ctx context.Context, unit entities.QueryUnit) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.deployment),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(unit.Instruction),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: entities.PNGDataURI(unit.ImageBase64),
				}),
			}),
		},
		MaxTokens: openai.Int(c.maxTokens),
	}

	c.logger.WithField("deployment", c.deployment).Debug("Sending vision request")

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return completion.Choices[0].Message.Content, nil
}
