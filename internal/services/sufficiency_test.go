package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davenwood/pantrylist/internal/models"
)

func TestCheckRecipe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/inventory/sufficiency", r.URL.Path)

		var req sufficiencyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "carbonara", req.RecipeID)
		assert.Equal(t, 4, req.Servings)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"shopping_list":[{"name":"Eggs","amount":6,"unit":"pcs"},"Parmesan"]}`))
	}))
	defer server.Close()

	svc := NewSufficiencyService(server.URL, 0)

	frag, err := svc.CheckRecipe(context.Background(), models.RecipePlan{RecipeID: "carbonara", Servings: 4})
	require.NoError(t, err)
	assert.True(t, frag.Success)
	assert.Equal(t, "carbonara", frag.RecipeID)
	assert.Len(t, frag.Items, 2)
}

func TestCheckRecipeFailedCheckIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"error":"unknown recipe"}`))
	}))
	defer server.Close()

	svc := NewSufficiencyService(server.URL, 0)

	frag, err := svc.CheckRecipe(context.Background(), models.RecipePlan{RecipeID: "nope", Servings: 1})
	require.NoError(t, err)
	assert.False(t, frag.Success)
	assert.Empty(t, frag.Items)
}

func TestCheckRecipeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewSufficiencyService(server.URL, 0)

	_, err := svc.CheckRecipe(context.Background(), models.RecipePlan{RecipeID: "carbonara", Servings: 2})
	assert.ErrorIs(t, err, ErrSufficiencyAPIError)
}

func TestCheckRecipeNotConfigured(t *testing.T) {
	svc := NewSufficiencyService("", 0)

	_, err := svc.CheckRecipe(context.Background(), models.RecipePlan{RecipeID: "carbonara", Servings: 2})
	assert.ErrorIs(t, err, ErrSufficiencyNotConfigured)
}

func TestCollectFragmentsToleratesDeadRecipes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req sufficiencyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if req.RecipeID == "broken" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"shopping_list":[{"name":"Flour","amount":500,"unit":"g"}]}`))
	}))
	defer server.Close()

	svc := NewSufficiencyService(server.URL, 0)

	fragments := svc.CollectFragments(context.Background(), []models.RecipePlan{
		{RecipeID: "bread", Servings: 1},
		{RecipeID: "broken", Servings: 1},
		{RecipeID: "pizza", Servings: 2},
	})

	require.Len(t, fragments, 3)
	assert.True(t, fragments[0].Success)
	assert.False(t, fragments[1].Success)
	assert.True(t, fragments[2].Success)
	// Order follows the plan order.
	assert.Equal(t, "bread", fragments[0].RecipeID)
	assert.Equal(t, "broken", fragments[1].RecipeID)
	assert.Equal(t, "pizza", fragments[2].RecipeID)
}
