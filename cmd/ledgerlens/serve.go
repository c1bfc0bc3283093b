// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/kadirpekel/ledgerlens/pkg/chunkproc"
	"github.com/kadirpekel/ledgerlens/pkg/config"
	"github.com/kadirpekel/ledgerlens/pkg/config/provider"
	"github.com/kadirpekel/ledgerlens/pkg/engine"
	"github.com/kadirpekel/ledgerlens/pkg/httpapi"
	"github.com/kadirpekel/ledgerlens/pkg/identity"
	"github.com/kadirpekel/ledgerlens/pkg/index"
	"github.com/kadirpekel/ledgerlens/pkg/jobstore"
	"github.com/kadirpekel/ledgerlens/pkg/llm"
	"github.com/kadirpekel/ledgerlens/pkg/logger"
	"github.com/kadirpekel/ledgerlens/pkg/processor"
	"github.com/kadirpekel/ledgerlens/pkg/prompt"
	"github.com/kadirpekel/ledgerlens/pkg/ratelimit"
	"github.com/kadirpekel/ledgerlens/pkg/retriever"
	"github.com/kadirpekel/ledgerlens/pkg/review"
	"github.com/kadirpekel/ledgerlens/pkg/router"
	"github.com/kadirpekel/ledgerlens/pkg/telemetry"
	"github.com/kadirpekel/ledgerlens/pkg/term"
	"github.com/kadirpekel/ledgerlens/pkg/vectorsearch"
)

// ServeCmd starts the HTTP server exposing the query engine (spec.md §6).
type ServeCmd struct {
	Host string `help:"Override server.host from config."`
	Port int    `help:"Override server.port from config."`
}

func (c *ServeCmd) Run(cli *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	p, err := provider.NewFileProvider(cli.Config)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	cfg, err := config.NewLoader(p).Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if c.Host != "" {
		cfg.Server.Host = c.Host
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}

	logFile := os.Stderr
	if cfg.Logger.File != "" {
		f, closeFile, err := logger.OpenLogFile(cfg.Logger.File)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer closeFile()
		logFile = f
	}
	logger.Init(logger.ParseLevel(cfg.Logger.Level), logFile, cfg.Logger.Format)
	log := logger.Get()

	var ready atomic.Bool

	store, err := index.Load(cfg.Indices.IndicesPath, cfg.Indices.ChunksPath, cfg.Indices.EndnotesPath, cfg.Indices.ChunkToEndnotesPath)
	if err != nil {
		return fmt.Errorf("load indices: %w", err)
	}

	dedupCache, err := chunkproc.LoadCache(cfg.Indices.DeduplicatedCachePath)
	if err != nil {
		return fmt.Errorf("load dedup cache: %w", err)
	}

	metrics := telemetry.New("ledgerlens")

	llmClient, err := llm.New(ctx, llm.Config{
		APIKey:         cfg.LLM.APIKey,
		Model:          cfg.LLM.Model,
		MaxRetries:     cfg.LLM.MaxRetries,
		RetryBaseDelay: cfg.LLM.RetryBaseDelay,
		Metrics:        metrics,
	})
	if err != nil {
		return fmt.Errorf("init llm client: %w", err)
	}
	defer llmClient.Close()

	vsProvider, err := vectorsearch.NewProvider(cfg.VectorSearch)
	if err != nil {
		log.Warn("vector search backend unavailable at startup, degrading to keyword-only", "error", err)
	}
	var vs *vectorsearch.VectorSearch
	if vsProvider != nil {
		embedder, err := llm.NewEmbedder(ctx, llm.EmbedderConfig{APIKey: cfg.LLM.APIKey})
		if err != nil {
			return fmt.Errorf("init embedder: %w", err)
		}
		vs = vectorsearch.New(vsProvider, embedder)
		defer vs.Close()
	}

	canon := term.New()
	hierarchy := identity.NewDefault()

	r := retriever.New(store, canon, hierarchy, vs, retriever.Config{
		KSem:            cfg.Retrieval.KSem,
		SparseThreshold: cfg.Retrieval.SparseThreshold,
		MaxRetrieved:    cfg.Retrieval.MaxRetrieved,
	}, log)
	rt := router.New(router.Config{LargeThreshold: cfg.Retrieval.LargeThreshold})
	gate := ratelimit.New(cfg.RateGate.RPMMax, cfg.RateGate.TPMMax)
	prompts := prompt.New()

	procDeps := processor.Deps{
		Gate:             gate,
		LLM:              llmClient,
		Prompts:          prompts,
		Concurrency:      cfg.RateGate.Concurrency,
		MaxWordsPerBatch: cfg.Retrieval.MaxWordsPerRequest,
		MaxOutputTokens:  4096,
		Temperature:      0.3,
		Metrics:          metrics,
	}
	period := processor.NewPeriodProcessor(procDeps)
	geo := processor.NewGeographicProcessor(procDeps)
	reviewer := review.New(llmClient, prompts, review.Config{MaxIterations: cfg.Review.MaxIterations}, log)

	eng := engine.New(r, rt, period, geo, reviewer, llmClient, prompts, gate, engine.Config{
		Deadline:        cfg.Job.Deadline,
		MaxOutputTokens: procDeps.MaxOutputTokens,
		Temperature:     procDeps.Temperature,
	}, log, metrics, dedupCache)

	jobs := jobstore.New(eng.Run, cfg.Job.Deadline, metrics)

	ready.Store(true)
	httpSrv := httpapi.New(jobs, ready.Load, gate, metrics, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      httpSrv.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server starting", "address", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	}
}
