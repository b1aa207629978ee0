package agent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/conversation"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/database"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/guardrails"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/middleware"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/recipe"
	"github.com/rs/zerolog/log"
)

const healthCheckTimeout = 2 * time.Second

// RecipeStore is satisfied by database.DB.
type RecipeStore interface {
	ListRecipes(ctx context.Context, filter database.ListFilter) ([]recipe.Summary, error)
	GetRecipe(ctx context.Context, id string) (*recipe.Recipe, error)
	SoftDeleteRecipe(ctx context.Context, id string) error
}

type SQLValidator interface {
	Validate(query string) guardrails.SQLResult
}

type ImageRemover interface {
	Delete(ctx context.Context, recipeID string) error
}

// HealthChecker is a backend the health endpoint pings.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	service *Service
	recipes RecipeStore
	sql     SQLValidator
	images  ImageRemover
	checks  map[string]HealthChecker
}

// NewHandler wires the HTTP surface. recipes and images may be nil when no
// database or image store is configured.
func NewHandler(service *Service, recipes RecipeStore, sql SQLValidator, images ImageRemover) *Handler {
	return &Handler{
		service: service,
		recipes: recipes,
		sql:     sql,
		images:  images,
	}
}

// WithHealthChecks adds named backends to GET /api/v1/health.
func (h *Handler) WithHealthChecks(checks map[string]HealthChecker) *Handler {
	h.checks = checks
	return h
}

// Chat handles POST /api/v1/chat
func (h *Handler) Chat(req *restful.Request, resp *restful.Response) {
	var chatRequest ChatRequest

	if err := req.ReadEntity(&chatRequest); err != nil {
		log.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	if err := chatRequest.Validate(); err != nil {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	log.Info().
		Str("session_id", chatRequest.SessionID).
		Int("prompt_chars", len(chatRequest.Prompt)).
		Msg("Process Chat")

	chatResponse, err := h.service.Chat(req.Request.Context(), chatRequest)
	if err != nil {
		log.Error().Err(err).Msg("Failed to chat")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, chatResponse)
}

// ChatStream handles POST /api/v1/chat/stream
func (h *Handler) ChatStream(req *restful.Request, resp *restful.Response) {
	var chatRequest ChatRequest

	if err := req.ReadEntity(&chatRequest); err != nil {
		log.Error().Err(err).Msg("Unable to parse chat request")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	if err := chatRequest.Validate(); err != nil {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	log.Info().
		Str("session_id", chatRequest.SessionID).
		Int("prompt_chars", len(chatRequest.Prompt)).
		Msg("Process Chat Stream")

	writer := resp.ResponseWriter
	flusher, ok := writer.(http.Flusher)
	if !ok {
		middleware.HandleError(resp, fmt.Errorf("streaming not supported"), http.StatusInternalServerError)
		return
	}

	resp.AddHeader("Content-Type", "text/event-stream")
	resp.AddHeader("Cache-Control", "no-cache")
	resp.AddHeader("Connection", "keep-alive")
	resp.AddHeader("X-Accel-Buffering", "no")

	sink := func(event SSEEvent) error {
		formatted, err := event.Format()
		if err != nil {
			return err
		}
		if _, err := fmt.Fprint(writer, formatted); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	// Headers are already sent; failures are reported as an error event.
	if err := h.service.ChatStream(req.Request.Context(), chatRequest, sink); err != nil {
		log.Error().Err(err).Msg("Failed to chat stream")
	}
}

// Session handles GET /api/v1/sessions/{session_id}
func (h *Handler) Session(req *restful.Request, resp *restful.Response) {
	sessionID := req.PathParameter("session_id")

	session, err := h.service.Session(req.Request.Context(), sessionID)
	if errors.Is(err, conversation.ErrSessionNotFound) {
		middleware.HandleError(resp, fmt.Errorf("%s: %w", sessionID, middleware.ErrSessionNotFound), http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to load session")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, session)
}

// ValidateSQL handles POST /api/v1/sql/validate. Nothing is executed.
func (h *Handler) ValidateSQL(req *restful.Request, resp *restful.Response) {
	var validateRequest ValidateSQLRequest

	if err := req.ReadEntity(&validateRequest); err != nil {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, h.sql.Validate(validateRequest.SQL))
}

// ListRecipes handles GET /api/v1/recipes
func (h *Handler) ListRecipes(req *restful.Request, resp *restful.Response) {
	if h.recipes == nil {
		middleware.HandleError(resp, fmt.Errorf("recipe storage is not configured"), http.StatusServiceUnavailable)
		return
	}

	filter := database.ListFilter{Limit: 50}

	if t := req.QueryParameter("type"); t != "" {
		switch recipe.RecipeType(t) {
		case recipe.Cocktail, recipe.Food, recipe.Dessert:
			filter.RecipeType = recipe.RecipeType(t)
		default:
			middleware.HandleError(resp, middleware.ErrInvalidRecipeType, http.StatusBadRequest)
			return
		}
	}

	if l := req.QueryParameter("limit"); l != "" {
		limit, err := strconv.Atoi(l)
		if err != nil || limit < 1 || limit > 200 {
			middleware.HandleError(resp, middleware.ErrInvalidLimit, http.StatusBadRequest)
			return
		}
		filter.Limit = limit
	}

	summaries, err := h.recipes.ListRecipes(req.Request.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list recipes")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, RecipeListResponse{Recipes: summaries, Count: len(summaries)})
}

// GetRecipe handles GET /api/v1/recipes/{recipe_id}
func (h *Handler) GetRecipe(req *restful.Request, resp *restful.Response) {
	if h.recipes == nil {
		middleware.HandleError(resp, fmt.Errorf("recipe storage is not configured"), http.StatusServiceUnavailable)
		return
	}

	id := req.PathParameter("recipe_id")
	r, err := h.recipes.GetRecipe(req.Request.Context(), id)
	if errors.Is(err, database.ErrRecipeNotFound) {
		middleware.HandleError(resp, fmt.Errorf("%s: %w", id, middleware.ErrRecipeNotFound), http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("recipe_id", id).Msg("Failed to load recipe")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, r)
}

// DeleteRecipe handles DELETE /api/v1/recipes/{recipe_id}
func (h *Handler) DeleteRecipe(req *restful.Request, resp *restful.Response) {
	if h.recipes == nil {
		middleware.HandleError(resp, fmt.Errorf("recipe storage is not configured"), http.StatusServiceUnavailable)
		return
	}

	ctx := req.Request.Context()
	id := req.PathParameter("recipe_id")

	err := h.recipes.SoftDeleteRecipe(ctx, id)
	if errors.Is(err, database.ErrRecipeNotFound) {
		middleware.HandleError(resp, fmt.Errorf("%s: %w", id, middleware.ErrRecipeNotFound), http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("recipe_id", id).Msg("Failed to delete recipe")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	if h.images != nil {
		if err := h.images.Delete(ctx, id); err != nil {
			log.Warn().Err(err).Str("recipe_id", id).Msg("Failed to delete recipe image")
		}
	}

	resp.WriteHeader(http.StatusNoContent)
}

// Health handler GET API /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	healthResponse := HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
		Model:   h.service.Model(),
	}
	status := http.StatusOK

	if len(h.checks) > 0 {
		ctx, cancel := context.WithTimeout(req.Request.Context(), healthCheckTimeout)
		defer cancel()

		healthResponse.Checks = make(map[string]string, len(h.checks))
		for name, checker := range h.checks {
			if err := checker.Ping(ctx); err != nil {
				log.Warn().Err(err).Str("check", name).Msg("Health check failed")
				healthResponse.Checks[name] = "unavailable"
				healthResponse.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			healthResponse.Checks[name] = "ok"
		}
	}

	resp.WriteHeaderAndEntity(status, healthResponse)
}
