package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
)

const (
	defaultModel     = shared.ChatModelGPT4oMini
	defaultTimeout   = 2 * time.Minute
	defaultMaxRounds = 8
)

// OpenAIConfig configures the OpenAI-backed engine.
type OpenAIConfig struct {
	APIKey string
	// Model defaults to gpt-4o-mini when empty.
	Model string
	// Timeout bounds one full Run, including every tool round trip.
	Timeout time.Duration
	// MaxRounds caps the number of completion calls per Run.
	MaxRounds int
}

// NewOpenAI creates an engine backed by the OpenAI chat completions API with
// function calling.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	e := &OpenAI{
		client:    openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     shared.ChatModel(cfg.Model),
		timeout:   cfg.Timeout,
		maxRounds: cfg.MaxRounds,
	}
	if cfg.Model == "" {
		e.model = defaultModel
	}
	if e.timeout <= 0 {
		e.timeout = defaultTimeout
	}
	if e.maxRounds <= 0 {
		e.maxRounds = defaultMaxRounds
	}

	return e
}

// OpenAI drives a chat completion loop: tool calls requested by the model are
// executed through the request's ExecuteFunc and their results fed back until
// the model answers with plain text.
type OpenAI struct {
	client    openai.Client
	model     shared.ChatModel
	timeout   time.Duration
	maxRounds int
}

// Run executes one reasoning request. The whole loop shares a single deadline
// so a stuck backend fails the processing attempt instead of hanging it.
func (e *OpenAI) Run(ctx context.Context, req Request) ([]Event, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model: e.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.Instructions),
			openai.UserMessage(req.Prompt),
		},
		Tools: toolParams(req.Tools),
	}

	var events []Event

	for range e.maxRounds {
		completion, err := e.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("chat.Completions.New failed: %w", err)
		}
		if len(completion.Choices) == 0 {
			return nil, errors.New("completion returned no choices")
		}

		msg := completion.Choices[0].Message

		if text := strings.TrimSpace(msg.Content); text != "" {
			events = append(events, Event{Kind: EventText, Text: text})
		}

		if len(msg.ToolCalls) == 0 {
			return events, nil
		}

		params.Messages = append(params.Messages, msg.ToParam())

		for _, call := range msg.ToolCalls {
			args := json.RawMessage(call.Function.Arguments)
			events = append(events, Event{
				Kind: EventToolCall,
				Name: call.Function.Name,
				Args: args,
			})

			output := req.Execute(ctx, call.Function.Name, args)
			params.Messages = append(params.Messages, openai.ToolMessage(output, call.ID))
		}
	}

	return nil, fmt.Errorf("tool loop did not settle within %d rounds", e.maxRounds)
}

func toolParams(specs []ToolSpec) []openai.ChatCompletionToolUnionParam {
	tools := make([]openai.ChatCompletionToolUnionParam, 0, len(specs))
	for _, s := range specs {
		tools = append(tools, openai.ChatCompletionFunctionTool(shared.FunctionDefinitionParam{
			Name:        s.Name,
			Description: openai.String(s.Description),
			Parameters:  shared.FunctionParameters(s.Parameters),
		}))
	}

	return tools
}
