// Package ai drafts and rewrites resume content with a generative model.
package ai

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// DefaultModel 是未配置模型名时使用的 Gemini 模型。
const DefaultModel = "gemini-2.0-flash"

// Completer 把提示词发送给模型并返回原始文本。
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// LLMCompleter 适配任意 langchaingo 模型。
type LLMCompleter struct {
	Model llms.Model
}

func (c *LLMCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := llms.GenerateFromSinglePrompt(ctx, c.Model, prompt)
	if err != nil {
		return "", fmt.Errorf("generate completion: %w", err)
	}
	return resp, nil
}

// NewGoogleAI 创建基于 Gemini 的 Completer。
func NewGoogleAI(ctx context.Context, apiKey, model string) (*LLMCompleter, error) {
	if model == "" {
		model = DefaultModel
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &LLMCompleter{Model: llm}, nil
}
