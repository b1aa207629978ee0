package agent

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/conversation"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/guardrails"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/middleware"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/recipe"
)

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Health endpoint
	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}).
			Returns(503, "A backend is unreachable", HealthResponse{}))

	ws.
		Route(ws.POST("/chat").
			To(handler.Chat).
			Doc("Chat with the recipe agent").
			Metadata(restfulspec.KeyOpenAPITags, []string{"chat"}).
			Reads(ChatRequest{}).
			Writes(ChatResponse{}).
			Returns(200, "OK", ChatResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/chat/stream").
			To(handler.ChatStream).
			Consumes(restful.MIME_JSON).
			Produces("text/event-stream").
			Doc("Chat with the recipe agent over server-sent events").
			Metadata(restfulspec.KeyOpenAPITags, []string{"chat"}).
			Reads(ChatRequest{}).
			Returns(200, "OK", nil).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.GET("/sessions/{session_id}").
			To(handler.Session).
			Doc("Get a conversation").
			Metadata(restfulspec.KeyOpenAPITags, []string{"chat"}).
			Param(ws.PathParameter("session_id", "Session identifier").DataType("string")).
			Writes(conversation.Session{}).
			Returns(200, "OK", conversation.Session{}).
			Returns(404, "Not Found", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/sql/validate").
			To(handler.ValidateSQL).
			Doc("Check a statement against the SQL guardrail without running it").
			Metadata(restfulspec.KeyOpenAPITags, []string{"sql"}).
			Reads(ValidateSQLRequest{}).
			Writes(guardrails.SQLResult{}).
			Returns(200, "OK", guardrails.SQLResult{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}))

	ws.
		Route(ws.GET("/recipes").
			To(handler.ListRecipes).
			Doc("List saved recipes").
			Metadata(restfulspec.KeyOpenAPITags, []string{"recipes"}).
			Param(ws.QueryParameter("type", "cocktail, food or dessert").DataType("string")).
			Param(ws.QueryParameter("limit", "Maximum recipes to return (1-200, default 50)").DataType("integer")).
			Writes(RecipeListResponse{}).
			Returns(200, "OK", RecipeListResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(503, "Service Unavailable", middleware.ErrorResponse{}))

	ws.
		Route(ws.GET("/recipes/{recipe_id}").
			To(handler.GetRecipe).
			Doc("Get a saved recipe").
			Metadata(restfulspec.KeyOpenAPITags, []string{"recipes"}).
			Param(ws.PathParameter("recipe_id", "Recipe UUID").DataType("string")).
			Writes(recipe.Recipe{}).
			Returns(200, "OK", recipe.Recipe{}).
			Returns(404, "Not Found", middleware.ErrorResponse{}))

	ws.
		Route(ws.DELETE("/recipes/{recipe_id}").
			To(handler.DeleteRecipe).
			Doc("Soft delete a saved recipe").
			Metadata(restfulspec.KeyOpenAPITags, []string{"recipes"}).
			Param(ws.PathParameter("recipe_id", "Recipe UUID").DataType("string")).
			Returns(204, "No Content", nil).
			Returns(404, "Not Found", middleware.ErrorResponse{}))

	container.Add(ws)
}
