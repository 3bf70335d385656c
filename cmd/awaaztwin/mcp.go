package main

import (
	"context"
	"errors"

	"github.com/mukundajmera/AwaazTwin/internal/domain/content"
	"github.com/mukundajmera/AwaazTwin/internal/infra/llm"
	"github.com/mukundajmera/AwaazTwin/internal/infra/tts"
	"github.com/mukundajmera/AwaazTwin/internal/mcpserver"
)

// runMCP serves the tools on stdio. stdout belongs to the protocol, so all logging goes
// to stderr or the configured log file.
func runMCP(ctx context.Context) int {
	cfg, logger, logCloser, err := setup()
	if err != nil {
		return 1
	}
	defer logCloser.Close() //nolint:errcheck

	deps := mcpserver.Deps{
		Connectivity: newConnectivity(cfg, logger, nil),
		Content:      content.NewStore(cfg.Data.ContentDir),
		Tests:        newRunner(cfg, logger),
		LLMDefaults: llm.Options{
			Provider:    llm.Provider(cfg.LLM.Provider),
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			APIKey:      cfg.LLM.APIKey,
			MaxTokens:   &cfg.LLM.MaxTokens,
			Temperature: &cfg.LLM.Temperature,
		},
		TTSDefaults: tts.Options{ServerURL: cfg.TTS.ServerURL},
	}
	logger.Info("mcp server starting on stdio")
	if err := mcpserver.Run(ctx, deps); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("mcp server stopped", "error", err)
		return 1
	}
	return 0
}
