package main

import (
	"context"
	"embed"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/joho/godotenv/autoload"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/proxy"

	"github.com/kova98/threadbrief/config"
	"github.com/kova98/threadbrief/data"
	"github.com/kova98/threadbrief/data/repos"
	"github.com/kova98/threadbrief/digest"
	"github.com/kova98/threadbrief/handlers"
	"github.com/kova98/threadbrief/llm"
	"github.com/kova98/threadbrief/notifiers"
	"github.com/kova98/threadbrief/sources"
)

//go:embed data/migrations/*.sql
var embedMigrations embed.FS

func main() {
	config.LoadConfig()

	opts := slog.HandlerOptions{Level: config.Config.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &opts))
	slog.SetDefault(logger)

	db, err := sqlx.Connect("postgres", config.Config.PostgresURL)
	if err != nil {
		slog.Error("failed to connect to db", "error", err)
		os.Exit(1)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	if err := data.RunMigrations(db.DB, embedMigrations); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	digestRepo := repos.NewDigestRepo(db)
	cacheRepo := repos.NewCacheRepo(db)

	client, err := httpClient(config.Config.ProxyURL)
	if err != nil {
		slog.Error("failed to create http client", "error", err)
		os.Exit(1)
	}

	fetcher := sources.NewRedditFetcher(logger, client, cacheRepo)
	llmClient := llm.NewClient(config.Config.LLMAPIKey, config.Config.LLMModel, config.Config.LLMBaseURL)
	summarizer := digest.NewSummarizer(logger, llmClient)
	describer := digest.NewDescriber(logger, llmClient)
	pipeline := digest.NewPipeline(logger, fetcher, summarizer, describer, digestRepo)

	var mailer *notifiers.Mailer
	if config.Config.MailerConfigured() {
		mailer = notifiers.NewMailer(
			config.Config.SMTPHost,
			config.Config.SMTPPort,
			config.Config.SMTPFrom,
			config.Config.SMTPPassword,
		)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if config.Config.EnableScheduler {
		scheduler := NewScheduler(
			pipeline,
			cacheRepo,
			mailer,
			config.Config.Subreddits,
			config.Config.DigestRecipients,
			time.Duration(config.Config.RunIntervalSeconds)*time.Second,
		)
		go scheduler.Start(ctx)
	}

	digests := handlers.NewDigestHandler(digestRepo)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /digests/{subreddit}", public(digests.GetDigest))
	mux.HandleFunc("GET /digests/{subreddit}/markdown", digests.GetDigestMarkdown)
	mux.Handle("GET /metrics", promhttp.Handler())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sigCh
		slog.Info("Shutting down...")
		cancel()
		if err := db.Close(); err != nil {
			slog.Error("failed to close database connection", "error", err)
		}
		os.Exit(0)
	}()

	slog.Info("Starting server", "port", config.Config.Port)
	err = http.ListenAndServe(":"+config.Config.Port, mux)
	if err != nil {
		slog.Error("failed to start server", "error", err)
	}
}

func httpClient(proxyURL string) (*http.Client, error) {
	client := &http.Client{Timeout: 30 * time.Second}

	if proxyURL == "" {
		return client, nil
	}

	parsedURL, err := url.Parse(proxyURL)
	if err != nil {
		return nil, err
	}
	if parsedURL.Scheme != "socks5" {
		return client, nil
	}

	// SOCKS5 proxy with authentication
	var auth *proxy.Auth
	if parsedURL.User != nil {
		password, _ := parsedURL.User.Password()
		auth = &proxy.Auth{
			User:     parsedURL.User.Username(),
			Password: password,
		}
	}

	dialer, err := proxy.SOCKS5("tcp", parsedURL.Host, auth, proxy.Direct)
	if err != nil {
		return nil, err
	}

	client.Transport = &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		},
	}
	slog.Info("using SOCKS5 proxy", "proxy", parsedURL.Host)

	return client, nil
}

func public(handler handlers.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts := time.Now()
		res := handler(w, r)
		elapsedMs := time.Since(ts).Milliseconds()
		slog.Debug("req", "method", r.Method, "path", r.URL.Path, "code", res.Code, "elapsed", elapsedMs)
		writeResult(w, res)
	}
}

func writeResult(w http.ResponseWriter, res handlers.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.Code)
	if res.Body != nil {
		if err := json.NewEncoder(w).Encode(res.Body); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
	if res.Code == http.StatusInternalServerError {
		slog.Error("internal error", "error", res.Error.Error())
	}
}
