package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ai-diet-planner/internal/config"
	"ai-diet-planner/internal/shared"
)

// JSON-object mode requires an object at the root, so array schemas are
// wrapped under this key on the way out and unwrapped on the way back.
const groqArrayKey = "items"

// groqClient is a client for the Groq API.
type groqClient struct {
	apiKey     string
	apiURL     string
	model      string
	httpClient *http.Client
}

// NewGroqClient creates a new Groq API client.
func NewGroqClient(cfg *config.Config) StructuredGenerator {
	return &groqClient{
		apiKey: cfg.GroqAPIKey,
		apiURL: cfg.GroqAPIURL,
		model:  cfg.GroqModel,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqRequest struct {
	Model          string            `json:"model"`
	Messages       []groqMessage     `json:"messages"`
	Temperature    float32           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format"`
}

type groqResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// GenerateStructured sends a prompt to the Groq model in JSON mode and returns the generated text.
func (c *groqClient) GenerateStructured(ctx context.Context, prompt string, schema *Schema, temperature float32) (ContentResponse, error) {
	wrapped := schema != nil && schema.Type == TypeArray
	root := schema
	if wrapped {
		root = &Schema{
			Type:       TypeObject,
			Properties: map[string]*Schema{groqArrayKey: schema},
			Required:   []string{groqArrayKey},
		}
	}

	messages := []groqMessage{}
	if root != nil {
		schemaJSON, err := json.Marshal(root)
		if err != nil {
			return ContentResponse{}, fmt.Errorf("failed to marshal response schema: %w", err)
		}
		messages = append(messages, groqMessage{
			Role:    "system",
			Content: "Respond only with a JSON object that validates against this JSON schema:\n" + string(schemaJSON),
		})
	}
	messages = append(messages, groqMessage{Role: "user", Content: prompt})

	jsonBody, err := json.Marshal(groqRequest{
		Model:          c.model,
		Messages:       messages,
		Temperature:    temperature,
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return ContentResponse{}, fmt.Errorf("groq api error: status=%d body=%s", resp.StatusCode, string(bodyBytes))
	}

	var groqResp groqResponse
	if err := json.NewDecoder(resp.Body).Decode(&groqResp); err != nil {
		return ContentResponse{}, fmt.Errorf("failed to decode response: %w", err)
	}

	usage := shared.TokenUsage{
		PromptTokens:     groqResp.Usage.PromptTokens,
		CompletionTokens: groqResp.Usage.CompletionTokens,
		TotalTokens:      groqResp.Usage.TotalTokens,
		Model:            c.model,
	}

	if len(groqResp.Choices) == 0 {
		return ContentResponse{Usage: usage}, fmt.Errorf("no content generated")
	}

	content := groqResp.Choices[0].Message.Content
	if wrapped {
		content = unwrapArray(content)
	}

	return ContentResponse{Content: content, Usage: usage}, nil
}

// unwrapArray returns the wrapped array when content has the expected
// envelope and the content unchanged otherwise, leaving the caller to
// report whatever is wrong with it.
func unwrapArray(content string) string {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &envelope); err != nil {
		return content
	}
	items, ok := envelope[groqArrayKey]
	if !ok {
		return content
	}
	return string(items)
}
