// File: services/agent/geminiClient.go
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"bookline/models"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// CompletionRequest is one model invocation: system instruction, the prior
// conversation, the functions on offer, and the new user input.
type CompletionRequest struct {
	SystemInstruction string
	History           []models.Turn
	Tools             []models.FunctionDescriptor
	Input             string
}

// CompletionResult carries either assistant text or a structured function
// call, never both.
type CompletionResult struct {
	Text         string
	FunctionCall *models.FunctionCall
}

// CompletionClient abstracts the language model so the orchestrator can be
// tested without network access.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResult, error)
}

// GeminiClient implements CompletionClient on the Gemini API.
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, modelName: modelName}, nil
}

func (g *GeminiClient) Close() error {
	return g.client.Close()
}

func (g *GeminiClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResult, error) {
	model := g.client.GenerativeModel(g.modelName)
	if req.SystemInstruction != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.SystemInstruction)},
		}
	}
	if len(req.Tools) > 0 {
		model.Tools = []*genai.Tool{{FunctionDeclarations: toDeclarations(req.Tools)}}
	}

	chat := model.StartChat()
	chat.History = toHistory(req.History)

	resp, err := chat.SendMessage(ctx, genai.Text(req.Input))
	if err != nil {
		return nil, fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.FunctionCall:
			return &CompletionResult{
				FunctionCall: &models.FunctionCall{Name: p.Name, Args: p.Args},
			}, nil
		case genai.Text:
			sb.WriteString(string(p))
		}
	}
	return &CompletionResult{Text: sb.String()}, nil
}

func toDeclarations(fns []models.FunctionDescriptor) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(fns))
	for _, fn := range fns {
		schema := &genai.Schema{
			Type:       genai.TypeObject,
			Properties: make(map[string]*genai.Schema, len(fn.Parameters)),
		}
		for name, param := range fn.Parameters {
			schema.Properties[name] = &genai.Schema{
				Type:        toSchemaType(param.Type),
				Description: param.Description,
			}
			if param.Required {
				schema.Required = append(schema.Required, name)
			}
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        fn.Name,
			Description: fn.Description,
			Parameters:  schema,
		})
	}
	return decls
}

func toSchemaType(t string) genai.Type {
	switch t {
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}

// toHistory replays stored turns in Gemini's content format. Assistant turns
// that called a function replay as FunctionCall parts and the recorded result
// replays as a FunctionResponse, so the model sees the full tool exchange.
func toHistory(turns []models.Turn) []*genai.Content {
	history := make([]*genai.Content, 0, len(turns))
	for _, turn := range turns {
		switch turn.Role {
		case models.RoleUser:
			history = append(history, &genai.Content{
				Role:  "user",
				Parts: []genai.Part{genai.Text(turn.Content)},
			})
		case models.RoleAssistant:
			if turn.FunctionName != "" {
				var args map[string]any
				if len(turn.FunctionArgs) > 0 {
					_ = json.Unmarshal(turn.FunctionArgs, &args)
				}
				history = append(history, &genai.Content{
					Role:  "model",
					Parts: []genai.Part{genai.FunctionCall{Name: turn.FunctionName, Args: args}},
				})
				continue
			}
			history = append(history, &genai.Content{
				Role:  "model",
				Parts: []genai.Part{genai.Text(turn.Content)},
			})
		case models.RoleFunction:
			var result map[string]any
			if len(turn.FunctionResult) > 0 {
				_ = json.Unmarshal(turn.FunctionResult, &result)
			}
			history = append(history, &genai.Content{
				Role:  "function",
				Parts: []genai.Part{genai.FunctionResponse{Name: turn.FunctionName, Response: result}},
			})
		}
	}
	return history
}
