// Package usda adapts the FoodData Central search API into catalog-shaped
// food records.
package usda

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"carbwise/internal/model"
)

const (
	defaultBaseURL  = "https://api.nal.usda.gov"
	defaultPageSize = 10
	sourceName      = "usda"
)

// Client queries FoodData Central.
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client with a bounded HTTP timeout.
func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		APIKey:     apiKey,
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 12 * time.Second},
	}
}

type searchResponse struct {
	Foods []usdaFood `json:"foods"`
}

type usdaFood struct {
	FDCID           int64          `json:"fdcId"`
	Description     string         `json:"description"`
	FoodCategory    string         `json:"foodCategory"`
	ServingSize     float64        `json:"servingSize"`
	ServingSizeUnit string         `json:"servingSizeUnit"`
	FoodNutrients   []usdaNutrient `json:"foodNutrients"`
}

type usdaNutrient struct {
	NutrientID     int     `json:"nutrientId"`
	NutrientNumber string  `json:"nutrientNumber"`
	Value          float64 `json:"value"`
}

// Search returns up to pageSize foods matching query.
func (c *Client) Search(ctx context.Context, query string, pageSize int) ([]model.FoodRecord, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, fmt.Errorf("missing USDA API key")
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	baseURL := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}

	payload, err := json.Marshal(map[string]any{
		"query":    query,
		"dataType": []string{"Foundation", "SR Legacy", "Survey (FNDDS)"},
		"pageSize": pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal USDA search payload: %w", err)
	}

	// The key travels in a header so transport errors, which quote the URL,
	// never carry it.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/fdc/v1/foods/search", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create USDA request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.APIKey)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute USDA request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read USDA response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("USDA request failed with status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode USDA response: %w", err)
	}

	records := make([]model.FoodRecord, 0, len(parsed.Foods))
	for _, f := range parsed.Foods {
		if r, ok := toRecord(f); ok {
			records = append(records, r)
		}
	}
	return records, nil
}

// Lookup returns the best remote match for description: an exact
// case-insensitive description match if present, otherwise the first hit.
func (c *Client) Lookup(ctx context.Context, description string) (model.FoodRecord, error) {
	records, err := c.Search(ctx, description, defaultPageSize)
	if err != nil {
		return model.FoodRecord{}, err
	}
	if len(records) == 0 {
		return model.FoodRecord{}, fmt.Errorf("%w: no USDA result for %q", model.ErrFoodNotFound, description)
	}
	for _, r := range records {
		if strings.EqualFold(r.Description, strings.TrimSpace(description)) {
			return r, nil
		}
	}
	return records[0], nil
}

// toRecord maps a search hit. Nutrients are matched by id and then by
// nutrient number. Hits without a description or carbohydrate are dropped.
func toRecord(f usdaFood) (model.FoodRecord, bool) {
	description := strings.TrimSpace(f.Description)
	if description == "" {
		return model.FoodRecord{}, false
	}

	carbs, ok := nutrient(f.FoodNutrients, 1005, "205")
	if !ok {
		return model.FoodRecord{}, false
	}
	protein, _ := nutrient(f.FoodNutrients, 1003, "203")
	fat, _ := nutrient(f.FoodNutrients, 1004, "204")
	energy, _ := nutrient(f.FoodNutrients, 1008, "208")
	fiber, _ := nutrient(f.FoodNutrients, 1079, "291")

	grams, unit := 100.0, "g"
	if f.ServingSize > 0 {
		grams = f.ServingSize
		if u := strings.TrimSpace(f.ServingSizeUnit); u != "" {
			unit = strings.ToLower(u)
		}
	}

	return model.FoodRecord{
		ID:                   "fdc-" + strconv.FormatInt(f.FDCID, 10),
		Description:          description,
		Category:             strings.TrimSpace(f.FoodCategory),
		StandardServingGrams: grams,
		StandardServingUnit:  unit,
		CarbsPer100g:         max(0, carbs),
		ProteinPer100g:       max(0, protein),
		FatPer100g:           max(0, fat),
		CaloriesPer100g:      max(0, energy),
		FiberPer100g:         max(0, fiber),
		Source:               sourceName,
	}, true
}

func nutrient(list []usdaNutrient, id int, number string) (float64, bool) {
	for _, n := range list {
		if n.NutrientID == id {
			return n.Value, true
		}
	}
	for _, n := range list {
		if strings.TrimSpace(n.NutrientNumber) == number {
			return n.Value, true
		}
	}
	return 0, false
}
