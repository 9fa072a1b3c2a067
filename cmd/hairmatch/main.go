// Package main is the hairmatch CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hyperjump/hairmatch/internal/catalog"
	"github.com/hyperjump/hairmatch/internal/cli"
	"github.com/hyperjump/hairmatch/internal/config"
	"github.com/hyperjump/hairmatch/internal/explain"
	"github.com/hyperjump/hairmatch/internal/insight"
	"github.com/hyperjump/hairmatch/internal/keyword"
	"github.com/hyperjump/hairmatch/internal/llm"
	"github.com/hyperjump/hairmatch/internal/models"
	"github.com/hyperjump/hairmatch/internal/profile"
	"github.com/hyperjump/hairmatch/internal/questionnaire"
	"github.com/hyperjump/hairmatch/internal/ranking"
	"github.com/hyperjump/hairmatch/internal/recommend"
	"github.com/hyperjump/hairmatch/internal/server"
	"github.com/hyperjump/hairmatch/internal/session"
	"github.com/hyperjump/hairmatch/internal/similarity"
	"github.com/hyperjump/hairmatch/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/hairmatch/config.yaml"

// loadConfig loads config from path. When path is the default, config.yaml in
// the current directory wins if it exists, and a missing default file means
// built-in defaults. Environment overrides are applied last. Returns the config
// and the path that was actually loaded ("" for defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				path = fallback
			}
		}
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			cfg := config.Default()
			config.ApplyEnv(cfg)
			return cfg, "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	config.ApplyEnv(cfg)
	return cfg, path, nil
}

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "recommend":
		runRecommend()
	case "products":
		runProducts()
	case "questions":
		runQuestions()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("hairmatch version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// setup loads config and builds the logger shared by every subcommand.
func setup(configPath string, debug bool) (*config.Config, string, *zap.Logger) {
	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug || debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	return cfg, resolved, logger
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	strategy := fs.String("strategy", "", "scoring strategy override: rules or similarity")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, logger := setup(*configPath, *debug)
	defer logger.Sync()
	if *strategy != "" {
		cfg.Recommend.Strategy = *strategy
	}

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", cfg.Debug || *debug),
		zap.Bool("llm_enabled", cfg.LLMEnabled()),
	)

	components, err := initializeComponents(cfg, logger, true)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	srv := server.NewServer(
		components.Engine,
		components.Sessions,
		components.Search,
		&cfg.Server,
		logger,
		version,
	)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// argsReorder moves any flags (and their values) that appear after the
// positional arguments to the front so that flag.Parse() sees them. Go's flag
// package stops at the first non-flag argument.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' && a != "-" {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// readAnswers decodes a JSON answers object. Both a bare object and a
// diagnose request body ({"answers": {...}}) are accepted.
func readAnswers(r io.Reader) (map[string]any, error) {
	var raw map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode answers: %w", err)
	}
	if inner, ok := raw["answers"].(map[string]any); ok {
		return inner, nil
	}
	return raw, nil
}

func openAnswers(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open answers: %w", err)
	}
	return f, nil
}

func runRecommend() {
	fs := flag.NewFlagSet("recommend", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	strategy := fs.String("strategy", "", "scoring strategy override: rules or similarity")
	topN := fs.Int("top-n", 0, "number of recommendations (default from config)")
	outputFormat := fs.String("format", "text", "output format: text, compact, or json")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: hairmatch recommend [flags] [answers.json|-]\n\nReads the answers object from the file, or stdin when omitted.\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(argsReorder(os.Args[2:]))

	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	in, err := openAnswers(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	raw, err := readAnswers(in)
	_ = in.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, _, logger := setup(*configPath, *debug)
	defer logger.Sync()
	if *strategy != "" {
		cfg.Recommend.Strategy = *strategy
	}

	components, err := initializeComponents(cfg, logger, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer components.Close()

	n := *topN
	if n <= 0 {
		n = cfg.Recommend.TopN
	}
	res := components.Engine.Recommend(context.Background(), models.ParseAnswers(raw), n)
	resp := &models.DiagnosisResponse{
		Strategy:        res.Strategy,
		Recommendations: res.Recommendations(),
		Timestamp:       time.Now().UTC(),
	}
	if err := cli.WriteRecommendations(os.Stdout, resp, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runProducts() {
	fs := flag.NewFlagSet("products", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	query := fs.String("query", "", "search query (remaining arguments are appended)")
	limit := fs.Int("limit", 10, "maximum number of search results")
	fuzzy := fs.Bool("fuzzy", false, "enable fuzzy matching for typo tolerance")
	outputFormat := fs.String("format", "text", "output format: text, compact, or json")
	_ = fs.Parse(argsReorder(os.Args[2:]))

	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, _, logger := setup(*configPath, false)
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer components.Close()

	products, err := findProducts(context.Background(), components, *query+" "+strings.Join(fs.Args(), " "), *limit, *fuzzy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteProducts(os.Stdout, products, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// findProducts lists the catalog, or searches it when query is not blank.
// Without hits, a plain query is retried with fuzzy matching.
func findProducts(ctx context.Context, c *Components, query string, limit int, fuzzy bool) ([]models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return c.Catalog.Products(), nil
	}
	opts := &keyword.SearchOptions{NameBoost: 3, FuzzyEnabled: fuzzy}
	hits, err := c.Search.Search(ctx, query, limit, opts)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 && !fuzzy {
		opts.FuzzyEnabled = true
		if hits, err = c.Search.Search(ctx, query, limit, opts); err != nil {
			return nil, err
		}
	}
	products := make([]models.Product, 0, len(hits))
	for _, hit := range hits {
		if p, ok := c.Catalog.Get(hit.ID); ok {
			products = append(products, p)
		}
	}
	return products, nil
}

func runQuestions() {
	fs := flag.NewFlagSet("questions", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	strategy := fs.String("strategy", "", "strategy whose quiz to print (default from config)")
	outputFormat := fs.String("format", "text", "output format: text, compact, or json")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	name := *strategy
	if name == "" {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		name = cfg.Recommend.Strategy
	}
	if err := cli.WriteQuestionnaire(os.Stdout, questionnaire.ForStrategy(name), format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// Components holds initialized services.
type Components struct {
	Catalog  *catalog.Catalog
	Search   keyword.Index
	Sessions session.Store
	LLM      *llm.Client
	Engine   *recommend.Engine
}

func (c *Components) Close() {
	if c.Search != nil {
		_ = c.Search.Close()
	}
	if c.Sessions != nil {
		_ = c.Sessions.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, withSessions bool) (*Components, error) {
	cat := catalog.Load(cfg.Catalog.Path, logger)
	c := &Components{Catalog: cat}

	if cfg.LLMEnabled() {
		client, err := llm.NewClient(&cfg.LLM, llm.WithLogger(logger))
		if err != nil {
			logger.Warn("llm client disabled", zap.Error(err))
		} else {
			c.LLM = client
		}
	}

	scorer, err := newScorer(cfg, cat, c.LLM, logger)
	if err != nil {
		return nil, err
	}

	genOpts := []explain.Option{explain.WithLogger(logger)}
	opts := []recommend.Option{
		recommend.WithLogger(logger),
		recommend.WithEncoder(profile.NewEncoder(profile.WithLogger(logger))),
		recommend.WithScorer(scorer),
		recommend.WithRanker(ranking.NewRankerForStrategy(&cfg.Ranking, scorer.Name())),
	}
	if c.LLM != nil {
		if cfg.Recommend.InsightsEnabled() {
			extractor := llm.NewInsightExtractor(c.LLM)
			opts = append(opts, recommend.WithAdjuster(insight.NewAdjuster(extractor, &cfg.Insight, insight.WithLogger(logger))))
		}
		if cfg.Recommend.DetailedExplanationsEnabled() {
			genOpts = append(genOpts, explain.WithExplainer(llm.NewExplainer(c.LLM)))
		}
	}
	opts = append(opts, recommend.WithGenerator(explain.NewGenerator(genOpts...)))
	c.Engine = recommend.NewEngine(cat, opts...)

	search, err := keyword.NewBleveIndex(cfg.Catalog.SearchIndexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize search index: %w", err)
	}
	c.Search = search
	if err := search.Index(context.Background(), cat.Products()); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to index catalog: %w", err)
	}

	if withSessions {
		store, err := session.New(cfg.Session)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to initialize session store: %w", err)
		}
		c.Sessions = store
	}

	logger.Info("components initialized",
		zap.String("strategy", c.Engine.Strategy()),
		zap.Int("products", cat.Len()),
		zap.Bool("llm", c.LLM != nil),
		zap.String("session_backend", cfg.Session.Backend))
	return c, nil
}

func newScorer(cfg *config.Config, cat *catalog.Catalog, client *llm.Client, logger *zap.Logger) (ranking.Scorer, error) {
	switch cfg.Recommend.Strategy {
	case ranking.StrategyRules:
		return ranking.NewRuleScorer(&cfg.Ranking.Rules), nil
	case ranking.StrategySimilarity:
		simOpts := []similarity.Option{similarity.WithLogger(logger)}
		if client != nil && cfg.Recommend.MatchScoringEnabled() {
			simOpts = append(simOpts, similarity.WithMatchScorer(llm.NewMatchScorer(client)))
		}
		s, err := similarity.NewScorer(cat.Products(), &cfg.Similarity, simOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize similarity scorer: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (want %s or %s)", cfg.Recommend.Strategy, ranking.StrategyRules, ranking.StrategySimilarity)
	}
}

func printUsage() {
	fmt.Println(`hairmatch - Hair product recommendations from a diagnosis questionnaire

Usage:
  hairmatch server [flags]                 Start the HTTP API
  hairmatch recommend [flags] [answers]    Recommend products for an answers JSON file (or stdin)
  hairmatch products [flags] [query]       List or search the product catalog
  hairmatch questions [flags]              Print the questionnaire
  hairmatch status [flags]                 Show catalog, search index and session status
  hairmatch version                        Show version
  hairmatch help                           Show this help

Common Flags:
  --config string    Config file path (default: /usr/local/etc/hairmatch/config.yaml, or ./config.yaml)
  --format string    Output format: text, compact, or json (default: text)

Server Flags:
  --debug            Enable debug logging
  --strategy string  Scoring strategy: rules or similarity

Recommend Flags:
  --strategy string  Scoring strategy: rules or similarity
  --top-n int        Number of recommendations (default from config)

Products Flags:
  --query string     Search query; positional arguments are appended
  --limit int        Maximum number of search results (default: 10)
  --fuzzy            Enable fuzzy matching for typo tolerance

Questions Flags:
  --strategy string  Print the quiz for this strategy

Environment:
  HAIRMATCH_LLM_API_KEY       API key for insights, match scoring and explanations (LLAMA_API_KEY also accepted)
  HAIRMATCH_STRATEGY          Scoring strategy override
  HAIRMATCH_SESSION_BACKEND   memory, sqlite, or redis
  HAIRMATCH_REDIS_ADDR        Redis address for the redis session backend
  HAIRMATCH_PORT              HTTP port

Examples:
  hairmatch server
  hairmatch recommend answers.json
  echo '{"damage_level": 8, "hair_goal": "repair"}' | hairmatch recommend --format json
  hairmatch products frizz
  hairmatch products --fuzzy volumising
  hairmatch questions --strategy similarity
  hairmatch status --format json`)
}
