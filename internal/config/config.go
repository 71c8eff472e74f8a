// Package config gathers docarch's settings from flags, the environment and
// an optional .env file into one explicit object.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"docarch/internal/hfinference"
	"docarch/internal/textprep"
)

const (
	ProviderHF     = "hf"
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
	ProviderFake   = "fake"

	ResultsFile      = "results.json"
	ReportFile       = "report.txt"
	ProcessedLogFile = "processed_inputs.txt"
)

type Config struct {
	Root          string
	OutDir        string
	Limit         int
	Provider      string
	SummaryModel  string
	ClassifyModel string
	Workers       int
	Exclude       []string
	IgnoreDirs    []string
	NoGitignore   bool
	MaxFileSize   int64
	CacheDir      string
	LogLevel      string
	LogJSON       bool
	ShowVersion   bool

	HFToken   string
	HFBaseURL string
	GeminiKey string
	GroqKey   string

	RPS           float64
	Burst         int
	RetryAttempts int
	// HFRetries is how often the hf provider retries 429/5xx answers; cold
	// models answer 503 until loaded. 0 disables retries.
	HFRetries int

	Artifact ArtifactConfig
}

type ArtifactConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func (c *Config) ResultsPath() string      { return filepath.Join(c.OutDir, ResultsFile) }
func (c *Config) ReportPath() string       { return filepath.Join(c.OutDir, ReportFile) }
func (c *Config) ProcessedLogPath() string { return filepath.Join(c.OutDir, ProcessedLogFile) }

type stringList []string

func (s *stringList) String() string     { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error { *s = append(*s, v); return nil }

// Load reads .env (when present), parses args (without the program name) and
// fills secrets and tuning knobs from the environment. Flags win over
// environment values where both exist.
func Load(args []string, output io.Writer) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	var exclude, ignoreDirs stringList
	fs := flag.NewFlagSet("docarch", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: docarch [flags] <repo>")
		fs.PrintDefaults()
	}
	fs.StringVar(&cfg.OutDir, "out", "artifacts", "output directory for results.json, report.txt and processed_inputs.txt")
	fs.IntVar(&cfg.Limit, "limit", textprep.DefaultLimit, "maximum characters per chunk (0 = no chunking)")
	fs.StringVar(&cfg.Provider, "provider", firstNonEmpty(os.Getenv("LLM_PROVIDER"), ProviderHF), "model provider: hf|gemini|groq|fake")
	fs.StringVar(&cfg.SummaryModel, "model-summary", os.Getenv("SUMMARY_MODEL"), "summarization model (provider default when empty)")
	fs.StringVar(&cfg.ClassifyModel, "model-classify", os.Getenv("CLASSIFY_MODEL"), "classification model (provider default when empty)")
	fs.IntVar(&cfg.Workers, "workers", 1, "documents processed concurrently")
	fs.Var(&exclude, "exclude", "doublestar glob of documents to skip (repeatable)")
	fs.Var(&ignoreDirs, "ignore-dir", "directory name to skip anywhere in the tree (repeatable)")
	fs.BoolVar(&cfg.NoGitignore, "no-gitignore", false, "do not honour the repository's root .gitignore")
	fs.Int64Var(&cfg.MaxFileSize, "max-file-size", envInt64("DOCARCH_MAX_FILE_SIZE", 0), "skip documents larger than this many bytes (0 = no limit)")
	fs.StringVar(&cfg.CacheDir, "cache-dir", os.Getenv("DOCARCH_CACHE_DIR"), "persist chunk summaries here across runs")
	fs.StringVar(&cfg.LogLevel, "log-level", firstNonEmpty(os.Getenv("LOG_LEVEL"), "info"), "debug|info|warn|error")
	fs.BoolVar(&cfg.LogJSON, "log-json", false, "emit logs as JSON")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.Exclude = exclude
	cfg.IgnoreDirs = ignoreDirs
	if cfg.ShowVersion {
		return cfg, nil
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, errors.New("exactly one repository path is required")
	}
	cfg.Root = fs.Arg(0)

	cfg.HFToken = firstNonEmpty(strings.TrimSpace(os.Getenv("HF_API_TOKEN")), strings.TrimSpace(os.Getenv("HF_TOKEN")))
	cfg.HFBaseURL = strings.TrimSpace(os.Getenv("HF_BASE_URL"))
	cfg.GeminiKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	cfg.GroqKey = strings.TrimSpace(os.Getenv("GROQ_API_KEY"))
	cfg.RPS = envFloat("LLM_RPS", 0)
	cfg.Burst = envInt("LLM_BURST", 1)
	cfg.RetryAttempts = envInt("LLM_RETRY_ATTEMPTS", 1)
	cfg.HFRetries = envInt("HF_RETRY_COUNT", 3)
	cfg.Artifact = loadArtifactConfig()

	cfg.applyModelDefaults()
	return cfg, cfg.Validate()
}

// Validate checks the settings that would otherwise fail late in a run.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderHF:
		if c.HFToken == "" {
			return errors.New("provider hf needs HF_API_TOKEN")
		}
	case ProviderGemini:
		if c.GeminiKey == "" {
			return errors.New("provider gemini needs GEMINI_API_KEY")
		}
	case ProviderGroq:
		if c.GroqKey == "" {
			return errors.New("provider groq needs GROQ_API_KEY")
		}
	case ProviderFake:
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	if c.Limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", c.Limit)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.MaxFileSize < 0 {
		return fmt.Errorf("max file size must not be negative, got %d", c.MaxFileSize)
	}
	if c.HFRetries < 0 {
		return fmt.Errorf("HF_RETRY_COUNT must not be negative, got %d", c.HFRetries)
	}
	if strings.TrimSpace(c.OutDir) == "" {
		return errors.New("output directory is required")
	}
	return nil
}

func (c *Config) applyModelDefaults() {
	var sum, cls string
	switch c.Provider {
	case ProviderHF:
		sum, cls = hfinference.DefaultSummaryModel, hfinference.DefaultClassifyModel
	case ProviderGemini:
		sum, cls = "gemini-2.5-flash", "gemini-2.5-flash"
	case ProviderGroq:
		sum, cls = "llama-3.3-70b-versatile", "llama-3.3-70b-versatile"
	case ProviderFake:
		sum, cls = "fake", "fake"
	}
	c.SummaryModel = firstNonEmpty(c.SummaryModel, sum)
	c.ClassifyModel = firstNonEmpty(c.ClassifyModel, cls)
}

func loadArtifactConfig() ArtifactConfig {
	endpoint := strings.TrimSpace(os.Getenv("ARTIFACT_S3_ENDPOINT"))
	return ArtifactConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_BUCKET")), "docarch-artifacts"),
		UseSSL:    envBool("ARTIFACT_S3_USE_SSL", true),
	}
}

func envFloat(key string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64)
	if err != nil {
		return def
	}
	return v
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return v
}

func envInt64(key string, def int64) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(os.Getenv(key)), 10, 64)
	if err != nil {
		return def
	}
	return v
}

func envBool(key string, def bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
