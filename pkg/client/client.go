package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/daniacca/potions/internal/instructor"
	"github.com/daniacca/potions/internal/potions"
)

// CatalogueBuilder provides a fluent API for building effect catalogues.
// The result can be loaded with potions.NewCatalogueFromConfig or written
// out as an effects file for the simulator and server.
type CatalogueBuilder struct {
	name     string
	rarities []float64
}

// NewCatalogue creates a new catalogue builder with the given name.
func NewCatalogue(name string) *CatalogueBuilder {
	return &CatalogueBuilder{
		name:     name,
		rarities: make([]float64, 0),
	}
}

// Effect adds a single effect with the given rarity.
func (cb *CatalogueBuilder) Effect(rarity float64) *CatalogueBuilder {
	cb.rarities = append(cb.rarities, rarity)
	return cb
}

// Effects adds one effect per rarity.
func (cb *CatalogueBuilder) Effects(rarities ...float64) *CatalogueBuilder {
	cb.rarities = append(cb.rarities, rarities...)
	return cb
}

// Tier adds count effects that all share rarity.
func (cb *CatalogueBuilder) Tier(rarity float64, count int) *CatalogueBuilder {
	for i := 0; i < count; i++ {
		cb.rarities = append(cb.rarities, rarity)
	}
	return cb
}

// Build converts the builder to a CatalogueConfig.
func (cb *CatalogueBuilder) Build() potions.CatalogueConfig {
	return potions.CatalogueConfig{
		Name:     cb.name,
		Rarities: append([]float64(nil), cb.rarities...),
	}
}

// WriteJSON validates the catalogue and writes it in the effects file format.
func (cb *CatalogueBuilder) WriteJSON(w io.Writer) error {
	cfg := cb.Build()
	if err := potions.ValidateCatalogueConfig(cfg); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}

// Client talks to a potions-server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the server at baseURL
// (e.g., "http://localhost:8080"). A nil httpClient uses http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// APIError is returned when the server answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
}

// IngredientStock describes one known ingredient of an alchemist.
type IngredientStock struct {
	Ingredient   potions.Ingredient `json:"ingredient"`
	Stock        int                `json:"stock"`
	KnownEffects []potions.Effect   `json:"known_effects"`
}

// InstructResult is the outcome of running a strategy on the server.
type InstructResult struct {
	Result instructor.Result `json:"result"`
	Report potions.Report    `json:"report"`
}

func (c *Client) do(ctx context.Context, method string, body, out any, segments ...string) error {
	u, err := url.JoinPath(c.baseURL, segments...)
	if err != nil {
		return fmt.Errorf("failed to build URL: %w", err)
	}

	var r io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		r = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, r)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Message: string(bytes.TrimSpace(msg))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Effects returns the server's effect catalogue.
func (c *Client) Effects(ctx context.Context) ([]potions.Effect, error) {
	var effects []potions.Effect
	err := c.do(ctx, http.MethodGet, nil, &effects, "effects")
	return effects, err
}

// CreateAlchemist creates an alchemist. An empty id lets the server pick one.
// It returns the id the alchemist was created under.
func (c *Client) CreateAlchemist(ctx context.Context, id string) (string, error) {
	segments := []string{"alchemists"}
	if id != "" {
		segments = append(segments, id)
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, nil, &out, segments...); err != nil {
		return "", err
	}
	return out.ID, nil
}

// ListAlchemists returns every alchemist id on the server.
func (c *Client) ListAlchemists(ctx context.Context) ([]string, error) {
	var out struct {
		Alchemists []string `json:"alchemists"`
	}
	err := c.do(ctx, http.MethodGet, nil, &out, "alchemists")
	return out.Alchemists, err
}

// DeleteAlchemist removes an alchemist.
func (c *Client) DeleteAlchemist(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, nil, nil, "alchemists", id)
}

// CloneAlchemist copies alchemist id into target and returns the new id.
func (c *Client) CloneAlchemist(ctx context.Context, id, target string) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	req := map[string]string{"target": target}
	if err := c.do(ctx, http.MethodPost, req, &out, "alchemists", id, "clone"); err != nil {
		return "", err
	}
	return out.ID, nil
}

// Discover mints a new ingredient for the alchemist.
func (c *Client) Discover(ctx context.Context, id string) (potions.Ingredient, error) {
	var ing potions.Ingredient
	err := c.do(ctx, http.MethodPost, nil, &ing, "alchemists", id, "discover")
	return ing, err
}

// Forage gathers count ingredients and returns the updated report.
func (c *Client) Forage(ctx context.Context, id string, count int) (potions.Report, error) {
	var r potions.Report
	err := c.do(ctx, http.MethodPost, map[string]int{"count": count}, &r, "alchemists", id, "forage")
	return r, err
}

// Combine brews a potion from one each of first and second.
func (c *Client) Combine(ctx context.Context, id string, first, second potions.IngredientID) (potions.Discovery, error) {
	var d potions.Discovery
	req := map[string]potions.IngredientID{"first": first, "second": second}
	err := c.do(ctx, http.MethodPost, req, &d, "alchemists", id, "combine")
	return d, err
}

// Instruct runs the named strategy on the alchemist until it is done.
func (c *Client) Instruct(ctx context.Context, id, strategy string) (InstructResult, error) {
	var out InstructResult
	err := c.do(ctx, http.MethodPost, map[string]string{"strategy": strategy}, &out, "alchemists", id, "instruct")
	return out, err
}

// Report returns the alchemist's current results.
func (c *Client) Report(ctx context.Context, id string) (potions.Report, error) {
	var r potions.Report
	err := c.do(ctx, http.MethodGet, nil, &r, "alchemists", id, "report")
	return r, err
}

// Ingredients returns every ingredient the alchemist knows with its stock.
func (c *Client) Ingredients(ctx context.Context, id string) ([]IngredientStock, error) {
	var out []IngredientStock
	err := c.do(ctx, http.MethodGet, nil, &out, "alchemists", id, "ingredients")
	return out, err
}
