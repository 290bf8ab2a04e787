package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ikehiro79/RakutenROOM/internal/api"
	"github.com/ikehiro79/RakutenROOM/internal/browser"
	"github.com/ikehiro79/RakutenROOM/internal/config"
	"github.com/ikehiro79/RakutenROOM/internal/fetcher"
	"github.com/ikehiro79/RakutenROOM/internal/parser"
	"github.com/ikehiro79/RakutenROOM/internal/poster"
	"github.com/ikehiro79/RakutenROOM/internal/preview"
	"github.com/ikehiro79/RakutenROOM/internal/review"
	"github.com/ikehiro79/RakutenROOM/pkg/logger"
)

const fetchFailedMessage = "商品情報の取得に失敗しました。ネットワーク環境を確認し、再度お試しください。"

var (
	flagUsername   string
	flagPassword   string
	flagNoHeadless bool
	flagRetries    int
	flagTimeout    time.Duration
)

func main() {
	// Load .env file if present (silently ignore if not found)
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "room-poster <product_url>",
		Short: "Generate a review for a Rakuten product and post it to ROOM",
		Long: `room-poster fetches product metadata from a Rakuten item page, generates a
concise review (400 characters max) and posts it to Rakuten ROOM through the
ROOMへ投稿 link on the product page.

Credentials are read from RAKUTEN_ROOM_USERNAME / RAKUTEN_ROOM_PASSWORD or
passed with --username / --password.

Example:
  room-poster "https://item.rakuten.co.jp/shop/item/"`,
		Args:          cobra.ExactArgs(1),
		RunE:          runPost,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flagUsername, "username", "", "Rakuten ID (default: RAKUTEN_ROOM_USERNAME)")
	rootCmd.PersistentFlags().StringVar(&flagPassword, "password", "", "Rakuten password (default: RAKUTEN_ROOM_PASSWORD)")
	rootCmd.PersistentFlags().BoolVar(&flagNoHeadless, "no-headless", false, "Show the browser window for debugging")
	rootCmd.PersistentFlags().IntVar(&flagRetries, "retries", 0, "Fetch retry attempts (default: FETCH_RETRIES or 3)")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "Fetch timeout per attempt (default: FETCH_TIMEOUT or 20s)")

	previewCmd := &cobra.Command{
		Use:   "preview <product_url>",
		Short: "Print the review that would be posted, without a browser",
		Args:  cobra.ExactArgs(1),
		RunE:  runPreview,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the review preview HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	rootCmd.AddCommand(previewCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if flagUsername != "" {
		cfg.Room.Username = flagUsername
	}
	if flagPassword != "" {
		cfg.Room.Password = flagPassword
	}
	if flagNoHeadless {
		cfg.Browser.Headless = false
	}
	if flagRetries > 0 {
		cfg.Fetcher.Retries = flagRetries
	}
	if flagTimeout > 0 {
		cfg.Fetcher.Timeout = flagTimeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	return cfg, log, nil
}

func newFetcher(cfg *config.Config) *fetcher.Fetcher {
	return fetcher.New(&fetcher.Options{
		Retries:   cfg.Fetcher.Retries,
		Timeout:   cfg.Fetcher.Timeout,
		UserAgent: cfg.Fetcher.UserAgent,
	})
}

func runPost(cmd *cobra.Command, args []string) error {
	productURL := args[0]

	cfg, log, err := setup()
	if err != nil {
		return err
	}
	log = log.With("run_id", uuid.NewString())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := preview.NewService(newFetcher(cfg), parser.NewRakutenParser())
	result, err := svc.Preview(ctx, productURL)
	if err != nil {
		if errors.Is(err, fetcher.ErrFetchFailed) {
			fmt.Fprintln(os.Stderr, fetchFailedMessage)
		}
		return err
	}

	log.Info("starting posting workflow",
		"url", productURL,
		"title", result.Product.Title,
		"login", cfg.Room.HasCredentials(),
		"headless", cfg.Browser.Headless)

	b, err := browser.New(&browser.Options{
		Headless:       cfg.Browser.Headless,
		Timeout:        cfg.Browser.Timeout,
		UserAgent:      cfg.Fetcher.UserAgent,
		ViewportWidth:  cfg.Browser.ViewportWidth,
		ViewportHeight: cfg.Browser.ViewportHeight,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize browser: %w", err)
	}
	defer b.Close()

	p := poster.New(b, poster.Config{
		Username:      cfg.Room.Username,
		Password:      cfg.Room.Password,
		LinkTimeout:   cfg.Room.LinkTimeout,
		LoginTimeout:  cfg.Room.LoginTimeout,
		ReviewTimeout: cfg.Room.ReviewTimeout,
	})

	if err := p.Run(ctx, productURL, result.Review); err != nil {
		return fmt.Errorf("posting failed: %w", err)
	}

	fmt.Println("ROOMへの投稿が完了しました。")
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	productURL := args[0]

	cfg, _, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := preview.NewService(newFetcher(cfg), parser.NewRakutenParser())
	result, err := svc.Preview(ctx, productURL)
	if err != nil {
		if errors.Is(err, fetcher.ErrFetchFailed) {
			fmt.Fprintln(os.Stderr, fetchFailedMessage)
		}
		return err
	}

	fmt.Printf("商品名: %s\n", result.Product.Title)
	if result.Product.Price != "" {
		fmt.Printf("価格: %s\n", result.Product.Price)
	}
	if result.Product.ShopName != "" {
		fmt.Printf("ショップ: %s\n", result.Product.ShopName)
	}
	fmt.Printf("---\n%s\n---\n%d/%d 文字\n", result.Review, len([]rune(result.Review)), review.MaxLength)

	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	svc := preview.NewService(newFetcher(cfg), parser.NewRakutenParser())
	handlers := api.NewHandlers(svc, log.With("component", "api"))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "https://localhost:*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", handlers.Health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/preview", handlers.GetPreview)
	})

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("preview API listening", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-sigCh:
		log.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}
