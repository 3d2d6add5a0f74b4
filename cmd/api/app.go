package main

import (
	"strings"

	"topic-quiz/internal/config"
	"topic-quiz/internal/handler"
	"topic-quiz/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

var corsMethods = strings.Join([]string{
	fiber.MethodGet,
	fiber.MethodHead,
	fiber.MethodPost,
	fiber.MethodPut,
	fiber.MethodPatch,
	fiber.MethodDelete,
	fiber.MethodOptions,
}, ",")

// newApp builds the Fiber application with its middleware chain and routes.
func newApp(serverCfg config.ServerConfig, quizHandler *handler.QuizHandler, healthHandler *handler.HealthHandler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "topic-quiz",
		ReadTimeout:  serverCfg.ReadTimeout,
		WriteTimeout: serverCfg.WriteTimeout,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger())
	// Any origin is reflected back so that credentials stay allowed.
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(string) bool { return true },
		AllowMethods:     corsMethods,
		AllowCredentials: true,
	}))
	app.Use(recover.New())

	// Swagger handler
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", healthHandler.Check)

	// API group
	apiGroup := app.Group("/api")
	validator := middleware.NewValidationMiddleware()
	apiGroup.Post("/generate-quiz", validator.ValidateGenerateQuiz(), quizHandler.GenerateQuiz)

	return app
}
