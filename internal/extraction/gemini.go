package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"path"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/JaimeStill/assay/internal/config"
	"github.com/JaimeStill/assay/internal/fri"
	"github.com/JaimeStill/assay/internal/prompts"
	"github.com/JaimeStill/assay/pkg/formatting"
	"github.com/JaimeStill/assay/pkg/storage"
)

// Model is the content generation surface of the genai client.
// *genai.Models satisfies it.
type Model interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Gemini extracts records with a Gemini model. Every request carries the
// captioned reference images, the instructions with the output schema,
// and the report itself as inline parts of one user message. The same
// contract is sent as the response JSON Schema.
type Gemini struct {
	model       Model
	name        string
	temperature float32
	timeout     time.Duration
	references  []config.ReferenceImage
	source      InstructionSource
	store       storage.System
	logger      *slog.Logger

	mu     sync.Mutex
	images []*genai.Part
}

// New creates a genai client for the configured backend.
func New(
	ctx context.Context,
	cfg *config.ExtractionConfig,
	source InstructionSource,
	store storage.System,
	logger *slog.Logger,
) (*Gemini, error) {
	cc := &genai.ClientConfig{Backend: genai.BackendGeminiAPI, APIKey: cfg.APIKey}
	if cfg.Backend == config.BackendVertex {
		cc = &genai.ClientConfig{
			Backend:  genai.BackendVertexAI,
			Project:  cfg.Project,
			Location: cfg.Location,
		}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return NewWithModel(client.Models, cfg, source, store, logger), nil
}

// NewWithModel builds an extractor around an existing model client.
func NewWithModel(
	model Model,
	cfg *config.ExtractionConfig,
	source InstructionSource,
	store storage.System,
	logger *slog.Logger,
) *Gemini {
	return &Gemini{
		model:       model,
		name:        cfg.Model,
		temperature: float32(cfg.Temperature),
		timeout:     cfg.TimeoutDuration(),
		references:  cfg.ReferenceImages,
		source:      source,
		store:       store,
		logger:      logger.With("system", "extraction", "model", cfg.Model),
	}
}

func (g *Gemini) Model() string {
	return g.name
}

func (g *Gemini) Extract(ctx context.Context, req Request) (*fri.Record, error) {
	if len(req.Data) == 0 {
		return nil, ErrEmptyDocument
	}
	if req.DocumentType == "" {
		req.DocumentType = prompts.FRI
	}

	parts, err := g.parts(ctx, req)
	if err != nil {
		return nil, err
	}
	schema, err := prompts.ResponseSchema(req.DocumentType)
	if err != nil {
		return nil, err
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.model.GenerateContent(
		ctx,
		g.name,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseMIMEType:   "application/json",
			ResponseJsonSchema: schema,
			Temperature:        genai.Ptr(g.temperature),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, ErrEmptyResponse
	}

	g.logger.Info("document extracted",
		"filename", req.Filename,
		"document_type", req.DocumentType,
		"duration", time.Since(start),
	)

	return decode(text)
}

func (g *Gemini) parts(ctx context.Context, req Request) ([]*genai.Part, error) {
	images, err := g.referenceImages(ctx)
	if err != nil {
		return nil, err
	}

	instructions, err := g.source.Instructions(ctx, req.DocumentType)
	if err != nil {
		return nil, fmt.Errorf("resolve instructions: %w", err)
	}
	text, err := prompts.Compose(req.DocumentType, instructions)
	if err != nil {
		return nil, err
	}

	parts := make([]*genai.Part, 0, len(images)+2)
	parts = append(parts, images...)
	parts = append(parts,
		genai.NewPartFromText(text),
		genai.NewPartFromBytes(req.Data, "application/pdf"),
	)
	return parts, nil
}

// referenceImages loads the captioned examples once and reuses them for
// every request. A failed load is retried on the next call.
func (g *Gemini) referenceImages(ctx context.Context) ([]*genai.Part, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.images != nil || len(g.references) == 0 {
		return g.images, nil
	}

	images := make([]*genai.Part, 0, len(g.references)*2)
	for _, ref := range g.references {
		data, err := g.store.ReadAll(ctx, ref.Key)
		if err != nil {
			return nil, fmt.Errorf("load reference image %s: %w", ref.Key, err)
		}
		if ref.Caption != "" {
			images = append(images, genai.NewPartFromText(ref.Caption))
		}
		images = append(images, genai.NewPartFromBytes(data, imageType(ref.Key)))
	}

	g.images = images
	g.logger.Info("reference images loaded", "count", len(g.references))
	return images, nil
}

func imageType(key string) string {
	if t := mime.TypeByExtension(path.Ext(key)); t != "" {
		return t
	}
	return "image/png"
}

// decode recovers the JSON object from model output and checks it against
// the record contract. Output with no recoverable JSON is itself a
// contract violation.
func decode(text string) (*fri.Record, error) {
	raw, err := formatting.Parse[json.RawMessage](text)
	if err != nil {
		if errors.Is(err, formatting.ErrParseFailed) {
			return nil, &fri.ContractError{Violations: []fri.Violation{
				{Field: "$", Message: err.Error()},
			}}
		}
		return nil, err
	}
	return fri.Decode(raw)
}
