package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"topic-quiz/internal/adapter/quizgen"
	"topic-quiz/internal/config"
	"topic-quiz/internal/dto"
	"topic-quiz/internal/handler"
	"topic-quiz/internal/llm"
	"topic-quiz/internal/service"
	"topic-quiz/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T, responses ...llm.MockResponse) *fiber.App {
	t.Helper()
	gen, err := quizgen.NewLLMQuizGenerator(llm.NewMockProvider(responses...), 0, 0, zap.NewNop())
	require.NoError(t, err)
	svc := service.NewQuizService(gen, nil, config.CacheConfig{})
	return newApp(config.ServerConfig{}, handler.NewQuizHandler(svc), handler.NewHealthHandler(nil))
}

func TestApp_GenerateQuizRoute(t *testing.T) {
	app := setupTestApp(t, llm.MockResponse{Payload: llm.TextPayload(
		`[{"question":"q","options":["a","b","c","d"],"answer":"a","difficulty":"Simple"}]`,
	)})

	req := httptest.NewRequest(http.MethodPost, "/api/generate-quiz", strings.NewReader(`{"topic":"Go"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, util.IsULID(resp.Header.Get(fiber.HeaderXRequestID)))

	var got []dto.QuizQuestionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Answer)
}

func TestApp_Health(t *testing.T) {
	app := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestApp_CORSPreflightReflectsOrigin(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/generate-quiz", nil)
	req.Header.Set(fiber.HeaderOrigin, "https://quiz.example.com")
	req.Header.Set(fiber.HeaderAccessControlRequestMethod, fiber.MethodPost)
	req.Header.Set(fiber.HeaderAccessControlRequestHeaders, "Content-Type,X-Custom")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "https://quiz.example.com", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", resp.Header.Get(fiber.HeaderAccessControlAllowCredentials))
	assert.Contains(t, resp.Header.Get(fiber.HeaderAccessControlAllowMethods), fiber.MethodPost)
	assert.Equal(t, "Content-Type,X-Custom", resp.Header.Get(fiber.HeaderAccessControlAllowHeaders))
}

func TestApp_UnknownRoute(t *testing.T) {
	app := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/quiz", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestApp_RecoversFromPanic(t *testing.T) {
	app := setupTestApp(t)
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("boom")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/panic", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var errResp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "boom", errResp.Detail)
}

func TestApp_UpstreamFailureIs500(t *testing.T) {
	app := setupTestApp(t, llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: context.DeadlineExceeded}})

	req := httptest.NewRequest(http.MethodPost, "/api/generate-quiz", strings.NewReader(`{"topic":"Go"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var errResp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, errResp.Detail, "context deadline exceeded")
}
