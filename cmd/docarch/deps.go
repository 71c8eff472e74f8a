package main

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"docarch/internal/artifact"
	"docarch/internal/cache/disk"
	"docarch/internal/cache/memory"
	"docarch/internal/classify"
	"docarch/internal/config"
	"docarch/internal/hfinference"
	"docarch/internal/llm"
	llmclient "docarch/internal/llmClient"
	"docarch/internal/logger"
	"docarch/internal/pipeline"
	"docarch/internal/summarize"
)

// buildDeps wires the model provider, the summary cache and the optional
// artifact publisher from cfg. cleanup releases provider clients.
func buildDeps(ctx context.Context, cfg *config.Config, log logger.Logger) (pipeline.Deps, func(), error) {
	var (
		sum     summarize.Summarizer
		cls     classify.Classifier
		model   = cfg.SummaryModel
		closers []func() error
	)
	cleanup := func() {
		for _, c := range closers {
			_ = c()
		}
	}

	switch cfg.Provider {
	case config.ProviderHF:
		hf, err := hfinference.New(hfOptions(cfg))
		if err != nil {
			return pipeline.Deps{}, cleanup, err
		}
		model = hf.SummaryModel()
		log.Debug("hf provider ready", "summary_model", model, "classify_model", hf.ClassifyModel(), "retries", cfg.HFRetries)
		lim := limiter(cfg)
		sum = summarize.SummarizerFunc(func(ctx context.Context, text string, minLen, maxLen int) (string, error) {
			if err := lim.Wait(ctx); err != nil {
				return "", err
			}
			return hf.Summarize(ctx, text, minLen, maxLen)
		})
		cls = classify.ClassifierFunc(func(ctx context.Context, text string, labels []string, template string) (classify.Ranking, error) {
			if err := lim.Wait(ctx); err != nil {
				return classify.Ranking{}, err
			}
			return hf.Classify(ctx, text, labels, template)
		})
	default:
		sc, err := newLLMClient(ctx, cfg, cfg.SummaryModel)
		if err != nil {
			return pipeline.Deps{}, cleanup, err
		}
		cc, err := newLLMClient(ctx, cfg, cfg.ClassifyModel)
		if err != nil {
			_ = sc.Close()
			return pipeline.Deps{}, cleanup, err
		}
		closers = append(closers, sc.Close, cc.Close)
		mws := []llm.Middleware{
			llm.WithLogging(log),
			llm.Retry(cfg.RetryAttempts, 500*time.Millisecond),
			llm.RateLimit(cfg.RPS, cfg.Burst),
		}
		sum = llm.Summarizer(llm.Wrap(sc, mws...))
		cls = llm.Classifier(llm.Wrap(cc, mws...))
	}

	store, err := summaryStore(cfg)
	if err != nil {
		return pipeline.Deps{}, cleanup, err
	}
	deps := pipeline.Deps{
		Summarizer: summarize.Cached(sum, store, cfg.Provider+":"+model),
		Classifier: cls,
		Logger:     log,
	}

	if cfg.Artifact.Enabled {
		pub, err := artifact.NewS3Publisher(artifact.S3Config{
			Endpoint:  cfg.Artifact.Endpoint,
			Region:    cfg.Artifact.Region,
			AccessKey: cfg.Artifact.AccessKey,
			SecretKey: cfg.Artifact.SecretKey,
			Bucket:    cfg.Artifact.Bucket,
			UseSSL:    cfg.Artifact.UseSSL,
		})
		if err != nil {
			log.Warn("artifact publishing disabled", "err", err)
		} else {
			deps.Publisher = pub
		}
	}
	return deps, cleanup, nil
}

func hfOptions(cfg *config.Config) hfinference.Options {
	retries := cfg.HFRetries
	if retries == 0 {
		// hfinference reads 0 as "use the default"
		retries = -1
	}
	return hfinference.Options{
		BaseURL:       cfg.HFBaseURL,
		Token:         cfg.HFToken,
		SummaryModel:  cfg.SummaryModel,
		ClassifyModel: cfg.ClassifyModel,
		RetryCount:    retries,
	}
}

func newLLMClient(ctx context.Context, cfg *config.Config, model string) (llmclient.LLMClient, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return llmclient.NewGeminiClient(ctx, cfg.GeminiKey, model)
	case config.ProviderGroq:
		return llmclient.NewGroqClient(cfg.GroqKey, model, "")
	case config.ProviderFake:
		return llm.NewFakeClient(), nil
	}
	return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
}

// summaryStore persists summaries under cfg.CacheDir when set and keeps them
// in memory otherwise.
func summaryStore(cfg *config.Config) (summarize.Store, error) {
	if cfg.CacheDir == "" {
		return memory.New(0, 0), nil
	}
	return disk.Open(disk.Config{Dir: cfg.CacheDir})
}

func limiter(cfg *config.Config) *rate.Limiter {
	if cfg.RPS <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(cfg.RPS), max(1, cfg.Burst))
}
