package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"repox/internal/mcp"
)

// DefaultMaxToolSteps bounds the number of model turns spent on tool calls
// before an answer is required.
const DefaultMaxToolSteps = 8

// ErrTooManySteps is returned when the model keeps calling tools past the
// step limit.
var ErrTooManySteps = errors.New("chat: model did not answer within the tool step limit")

// ErrEmptyResponse is returned when the model produces no candidate.
var ErrEmptyResponse = errors.New("chat: empty response from model")

const systemPrompt = "You are a code research assistant. Answer questions about software " +
	"repositories by calling the provided tools. Start with list_projects and set_repo when no " +
	"repository is selected, prefer search_in_repo and find_files over reading every file, " +
	"and cite file paths in your answers."

// generator is the part of the genai client GeminiModel uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiModel answers with a Gemini model, calling tools through function
// calling.
type GeminiModel struct {
	gen          generator
	model        string
	maxToolSteps int
	logger       *slog.Logger
}

// NewGeminiModel creates a model backed by the Gemini API. An empty apiKey
// lets the genai client read GEMINI_API_KEY or GOOGLE_API_KEY.
func NewGeminiModel(ctx context.Context, apiKey, model string, maxToolSteps int, logger *slog.Logger) (*GeminiModel, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return newGeminiModel(cli.Models, model, maxToolSteps, logger), nil
}

func newGeminiModel(gen generator, model string, maxToolSteps int, logger *slog.Logger) *GeminiModel {
	if maxToolSteps <= 0 {
		maxToolSteps = DefaultMaxToolSteps
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &GeminiModel{gen: gen, model: model, maxToolSteps: maxToolSteps, logger: logger}
}

// Name returns the model identifier.
func (g *GeminiModel) Name() string { return "Gemini:" + g.model }

// Reply runs the function-calling loop: every tool call the model makes is
// executed and its output fed back until the model answers in text.
func (g *GeminiModel) Reply(ctx context.Context, history []Message, tools ToolBox) (string, error) {
	contents := toContents(history)
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	}
	if tools != nil {
		if decls := functionDeclarations(tools.Tools()); len(decls) > 0 {
			config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
		}
	}

	for step := 0; step <= g.maxToolSteps; step++ {
		resp, err := g.gen.GenerateContent(ctx, g.model, contents, config)
		if err != nil {
			return "", fmt.Errorf("generate content: %w", err)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return "", ErrEmptyResponse
		}

		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			return strings.TrimSpace(resp.Text()), nil
		}
		if step == g.maxToolSteps || tools == nil {
			break
		}

		contents = append(contents, resp.Candidates[0].Content)
		parts := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			g.logger.Debug("Calling tool", "tool", call.Name, "args", call.Args, "step", step)
			output, err := tools.Call(ctx, call.Name, call.Args)
			if err != nil {
				return "", fmt.Errorf("tool %s: %w", call.Name, err)
			}
			part := genai.NewPartFromFunctionResponse(call.Name, map[string]any{"output": output})
			part.FunctionResponse.ID = call.ID
			parts = append(parts, part)
		}
		contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
	}

	g.logger.Warn("Tool step limit reached", "limit", g.maxToolSteps)
	return "", ErrTooManySteps
}

func toContents(history []Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		var role genai.Role = genai.RoleUser
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	return contents
}

// functionDeclarations converts MCP tool definitions to Gemini's schema.
func functionDeclarations(tools []mcp.Tool) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		decl := &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
		}
		// Gemini rejects object schemas without properties.
		if params := toSchema(t.InputSchema); params != nil && len(params.Properties) > 0 {
			decl.Parameters = params
		}
		decls = append(decls, decl)
	}
	return decls
}

func toSchema(m map[string]interface{}) *genai.Schema {
	if m == nil {
		return nil
	}

	schema := &genai.Schema{Type: schemaType(m["type"])}
	if desc, ok := m["description"].(string); ok {
		schema.Description = desc
	}

	if props, ok := m["properties"].(map[string]interface{}); ok && len(props) > 0 {
		schema.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			if prop, ok := raw.(map[string]interface{}); ok {
				schema.Properties[name] = toSchema(prop)
			}
		}
	}
	if items, ok := m["items"].(map[string]interface{}); ok {
		schema.Items = toSchema(items)
	}

	// Tools listed over the wire carry []interface{}; local ones []string.
	switch req := m["required"].(type) {
	case []string:
		schema.Required = append(schema.Required, req...)
	case []interface{}:
		for _, r := range req {
			if s, ok := r.(string); ok {
				schema.Required = append(schema.Required, s)
			}
		}
	}
	return schema
}

func schemaType(v interface{}) genai.Type {
	s, _ := v.(string)
	switch s {
	case "object":
		return genai.TypeObject
	case "string":
		return genai.TypeString
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	default:
		return genai.TypeUnspecified
	}
}
