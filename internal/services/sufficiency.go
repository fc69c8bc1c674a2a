package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/davenwood/pantrylist/internal/consolidate"
	"github.com/davenwood/pantrylist/internal/models"
)

const (
	sufficiencyPath           = "/inventory/sufficiency"
	defaultSufficiencyTimeout = 10 * time.Second
)

var (
	ErrSufficiencyNotConfigured = errors.New("sufficiency engine url not configured")
	ErrSufficiencyAPIError      = errors.New("sufficiency engine error")
)

// SufficiencyService asks the inventory sufficiency engine what a recipe
// still needs, one recipe at a time. Each answer becomes one consolidation
// fragment.
type SufficiencyService struct {
	baseURL    string
	httpClient *http.Client
}

type sufficiencyRequest struct {
	RecipeID string `json:"recipe_id"`
	Servings int    `json:"servings"`
}

type sufficiencyResponse struct {
	Success      bool              `json:"success"`
	ShoppingList []json.RawMessage `json:"shopping_list"`
	Missing      []json.RawMessage `json:"missing,omitempty"`
	Error        string            `json:"error,omitempty"`
}

// NewSufficiencyService creates a client for the engine at baseURL. A zero
// timeout selects the default.
func NewSufficiencyService(baseURL string, timeout time.Duration) *SufficiencyService {
	if timeout <= 0 {
		timeout = defaultSufficiencyTimeout
	}
	return &SufficiencyService{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CheckRecipe runs one sufficiency check and returns its fragment. Transport
// and decode errors are returned to the caller; an unsuccessful engine answer
// is a valid (failed) fragment, not an error.
func (s *SufficiencyService) CheckRecipe(ctx context.Context, plan models.RecipePlan) (consolidate.Fragment, error) {
	if s.baseURL == "" {
		return consolidate.Fragment{}, ErrSufficiencyNotConfigured
	}

	body, err := json.Marshal(sufficiencyRequest{RecipeID: plan.RecipeID, Servings: plan.Servings})
	if err != nil {
		return consolidate.Fragment{}, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+sufficiencyPath, bytes.NewReader(body))
	if err != nil {
		return consolidate.Fragment{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return consolidate.Fragment{}, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return consolidate.Fragment{}, fmt.Errorf("%w: status %d", ErrSufficiencyAPIError, resp.StatusCode)
	}

	var suffResp sufficiencyResponse
	if err := json.NewDecoder(resp.Body).Decode(&suffResp); err != nil {
		return consolidate.Fragment{}, fmt.Errorf("decoding response: %w", err)
	}

	return consolidate.Fragment{
		RecipeID: plan.RecipeID,
		Success:  suffResp.Success,
		Items:    suffResp.ShoppingList,
	}, nil
}

// CollectFragments checks each plan in order. A plan whose check errors
// contributes a failed fragment so one dead recipe never sinks the batch;
// the pipeline decides what an all-failed batch means.
func (s *SufficiencyService) CollectFragments(ctx context.Context, plans []models.RecipePlan) []consolidate.Fragment {
	fragments := make([]consolidate.Fragment, 0, len(plans))
	for _, plan := range plans {
		frag, err := s.CheckRecipe(ctx, plan)
		if err != nil {
			fragments = append(fragments, consolidate.Fragment{RecipeID: plan.RecipeID, Success: false})
			continue
		}
		fragments = append(fragments, frag)
	}
	return fragments
}
