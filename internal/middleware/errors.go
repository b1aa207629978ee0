package middleware

import (
	"errors"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog/log"
)

var (
	ErrEmptyPrompt        = errors.New("prompt cannot be empty")
	ErrPromptTooLong      = errors.New("prompt exceeds 10000 characters")
	ErrInvalidMaxTokens   = errors.New("max_tokens must be between 0 and 100000")
	ErrInvalidTemperature = errors.New("temperature must be between 0.0 and 1.0")
	ErrEmptyQuery         = errors.New("sql cannot be empty")
	ErrInvalidRecipeType  = errors.New("type must be cocktail, food or dessert")
	ErrInvalidLimit       = errors.New("limit must be between 1 and 200")
	ErrSessionNotFound    = errors.New("session not found")
	ErrRecipeNotFound     = errors.New("recipe not found")
)

type ErrorResponse struct {
	Error   string `json:"error" description:"Error message"`
	Code    int    `json:"code" description:"HTTP status code"`
	Details string `json:"details,omitempty" description:"Additional error details"`
}

func HandleError(resp *restful.Response, err error, status int) {
	errorResponse := ErrorResponse{
		Error: err.Error(),
		Code:  status,
	}

	if unwrapped := errors.Unwrap(err); unwrapped != nil {
		errorResponse.Details = unwrapped.Error()
	}

	if writeErr := resp.WriteHeaderAndEntity(status, errorResponse); writeErr != nil {
		log.Error().Err(writeErr).Msg("Failed to write error response")
	}
}
