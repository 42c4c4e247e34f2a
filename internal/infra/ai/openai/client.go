package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/medagent-core/internal/domain/agents"
	"github.com/bryanwahyu/medagent-core/internal/infra/ai/prompt"
)

const maxTokens = 1024

// Client is the live analyzer engine: one chat completion per specialist
// profile. It satisfies the same port as the simulator.
type Client struct {
	*openai.Client
	Model string
}

func NewClient(apiKey, model string) *Client {
	return &Client{Client: openai.NewClient(apiKey), Model: model}
}

func (c *Client) Analyze(ctx context.Context, p agents.Profile, patientInfo string) (agents.Result, error) {
	model := c.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.Specialist(p)},
			{Role: openai.ChatMessageRoleUser, Content: prompt.Case(patientInfo)},
		},
	}
	// Reasoning models (o1/o3/o4/gpt-5*) take MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	start := time.Now()
	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return agents.Result{}, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return agents.Result{}, fmt.Errorf("chat completion returned no choices")
	}

	return agents.Result{
		Agent:        p.Name,
		Specialty:    p.Specialty,
		Model:        model,
		Analysis:     resp.Choices[0].Message.Content,
		ResponseTime: fmt.Sprintf("%.2fs", time.Since(start).Seconds()),
	}, nil
}
