package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"topic-quiz/internal/adapter"
	"topic-quiz/internal/adapter/quizgen"
	"topic-quiz/internal/cache"
	"topic-quiz/internal/config"
	"topic-quiz/internal/domain"
	"topic-quiz/internal/llm"
	"topic-quiz/internal/logger"
	"topic-quiz/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "batch-generate [topic...]",
	Short: "Generate quizzes for many topics",
	Long: "Generates a quiz for every topic given as an argument or listed one per line in --file. " +
		"With the response cache enabled the results are stored in Redis, so later API requests are served from cache.",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringP("file", "f", "", "File with one topic per line")
	rootCmd.Flags().StringP("out", "o", "", "Write the JSON report to this file instead of stdout")
	rootCmd.Flags().IntP("concurrency", "c", 2, "Maximum topics generated at the same time")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	out, _ := cmd.Flags().GetString("out")
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	topics := append([]string(nil), args...)
	if file != "" {
		fromFile, err := readTopics(file)
		if err != nil {
			return err
		}
		topics = append(topics, fromFile...)
	}
	if len(service.DedupeTopics(topics)) == 0 {
		return fmt.Errorf("no topics given: pass topics as arguments or with --file")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider, err := llm.NewProvider(ctx, cfg.LLM, log.Named("llm"))
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w", err)
	}
	generator, err := quizgen.NewLLMQuizGenerator(provider, cfg.LLM.Timeout, cfg.LLM.MaxTokens, log.Named("quizgen"))
	if err != nil {
		return fmt.Errorf("failed to create quiz generator: %w", err)
	}

	// Initialize Cache Adapter
	var resultCache domain.Cache
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to initialize Redis client: %w", err)
		}
		defer redisClient.Close()
		resultCache = adapter.NewRedisCacheAdapter(redisClient)
		log.Info("Redis cache initialized", zap.String("address", cfg.Redis.Address))
	} else {
		log.Warn("Response cache is disabled. Generated quizzes will only be written to the report.")
	}

	quizService := service.NewQuizService(generator, resultCache, cfg.Cache)
	report := service.NewBatchService(quizService, concurrency, log.Named("batch")).GenerateTopics(ctx, topics)

	if err := writeReport(out, cmd.OutOrStdout(), report); err != nil {
		return err
	}
	if report.Failed > 0 {
		return fmt.Errorf("%d of %d topics failed", report.Failed, len(report.Results))
	}
	return nil
}

// readTopics returns the non-empty lines of path.
func readTopics(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open topics file: %w", err)
	}
	defer f.Close()

	var topics []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			topics = append(topics, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read topics file: %w", err)
	}
	return topics, nil
}

func writeReport(path string, stdout io.Writer, report service.BatchReport) error {
	w := stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create report file: %w", err)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
