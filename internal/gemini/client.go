package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"tindog-backend/internal/models"

	"google.golang.org/genai"
)

// ErrNoCandidates is returned when the model answers without any content
var ErrNoCandidates = errors.New("model returned no candidates")

// Image references a publicly readable image for the model to look at
type Image struct {
	URL         string
	ContentType string
}

// Options configures the Gemini client
type Options struct {
	APIKey     string
	Model      string
	BaseURL    string
	APIVersion string
	Timeout    time.Duration
}

// dogDataSchema mirrors models.DogData
var dogDataSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"isDog":       {Type: genai.TypeBoolean, Description: "whether the image contains a dog"},
		"breed":       {Type: genai.TypeString, Description: "the breed of the dog"},
		"size":        {Type: genai.TypeString, Description: "the size of the dog", Enum: []string{"small", "medium", "large"}},
		"description": {Type: genai.TypeString, Description: "a description of the dog"},
	},
}

// Client generates opening messages and classifies dog photos with Gemini
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a new Gemini client on the Gemini Developer API
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: opts.Timeout},
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    opts.BaseURL,
			APIVersion: opts.APIVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Client{client: client, model: opts.Model}, nil
}

// GenerateText returns the model's free-text answer to prompt
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	res, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	text := res.Text()
	if text == "" {
		return "", ErrNoCandidates
	}
	return text, nil
}

// ClassifyImage asks the model to describe the dog in img. A nil result with
// a nil error means the model produced no structured output.
func (c *Client) ClassifyImage(ctx context.Context, img Image, prompt string) (*models.DogData, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromURI(img.URL, img.ContentType),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}

	res, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   dogDataSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to classify image: %w", err)
	}

	raw := res.Text()
	if raw == "" {
		return nil, nil
	}

	var data models.DogData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("parse error: %w | raw: %s", err, raw)
	}
	return &data, nil
}
