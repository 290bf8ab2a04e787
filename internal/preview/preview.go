package preview

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ikehiro79/RakutenROOM/internal/fetcher"
	"github.com/ikehiro79/RakutenROOM/internal/models"
	"github.com/ikehiro79/RakutenROOM/internal/parser"
	"github.com/ikehiro79/RakutenROOM/internal/review"
)

// Service produces the review that would be posted for a product URL without
// touching a browser: fetch, extract, generate.
type Service struct {
	fetcher *fetcher.Fetcher
	parser  *parser.RakutenParser
	logger  *slog.Logger
}

func NewService(f *fetcher.Fetcher, p *parser.RakutenParser) *Service {
	return &Service{
		fetcher: f,
		parser:  p,
		logger:  slog.Default().With("component", "preview"),
	}
}

func (s *Service) Preview(ctx context.Context, url string) (*models.PreviewResult, error) {
	html, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	info, err := s.parser.ParseProduct(html)
	if err != nil {
		return nil, fmt.Errorf("failed to extract product: %w", err)
	}

	text := review.Generate(info)
	s.logger.Info("generated review", "url", url, "title", info.Title, "review_length", len([]rune(text)))

	return &models.PreviewResult{
		Product: info,
		Review:  text,
	}, nil
}
