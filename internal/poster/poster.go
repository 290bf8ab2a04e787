package poster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/ikehiro79/RakutenROOM/internal/browser"
)

var (
	// ErrRoomLinkNotFound means the ROOMへ投稿 link never became available on
	// the product page.
	ErrRoomLinkNotFound = errors.New("ROOM link not found on product page")
	// ErrReviewFieldNotFound means the ROOM review textarea could not be
	// located.
	ErrReviewFieldNotFound = errors.New("ROOM review textarea not found")
	// ErrSubmitNotFound means a submit control (login or post) could not be
	// located.
	ErrSubmitNotFound = errors.New("submit button not found")
)

// The product page links into ROOM through its posting widget.
const roomLinkLabel = "ROOMへ投稿"

var roomLinkLocators = []browser.Locator{
	browser.PartialLinkText(roomLinkLabel),
}

// ROOM renders the review input as a textarea with a distinct name attribute.
// Selectors change over time, so each logical element keeps a fallback list.
var (
	DefaultReviewLocators = []browser.Locator{
		browser.CSS("textarea[name='comment']"),
		browser.CSS("textarea[class*='comment']"),
	}
	DefaultSubmitLocators = []browser.Locator{
		browser.CSS("button[type='submit']"),
		browser.CSS("button[class*='submit']"),
	}
)

// Rakuten login forms use a variety of input names depending on the flow.
var (
	loginUsernameLocators = []browser.Locator{
		browser.ID("loginInner_u"),
		browser.Name("u"),
		browser.Name("login_id"),
	}
	loginPasswordLocators = []browser.Locator{
		browser.ID("loginInner_p"),
		browser.Name("p"),
		browser.Name("passwd"),
	}
	loginSubmitLocators = []browser.Locator{
		browser.ID("loginInner_y"),
		browser.Name("submit"),
		browser.CSS("button[type='submit']"),
	}
)

type Config struct {
	Username       string
	Password       string
	LinkTimeout    time.Duration
	LoginTimeout   time.Duration
	ReviewTimeout  time.Duration
	ReviewLocators []browser.Locator
	SubmitLocators []browser.Locator
}

func DefaultConfig() Config {
	return Config{
		LinkTimeout:    15 * time.Second,
		LoginTimeout:   15 * time.Second,
		ReviewTimeout:  20 * time.Second,
		ReviewLocators: DefaultReviewLocators,
		SubmitLocators: DefaultSubmitLocators,
	}
}

// Poster drives the browser through the ROOM posting flow: open the product
// page, follow the ROOM link, log in when needed, fill the review and submit.
type Poster struct {
	browser *browser.Browser
	config  Config
	logger  *slog.Logger
	page    playwright.Page

	// pause is replaced in tests.
	pause func(time.Duration)
}

func New(b *browser.Browser, cfg Config) *Poster {
	if cfg.LinkTimeout <= 0 {
		cfg.LinkTimeout = DefaultConfig().LinkTimeout
	}
	if cfg.LoginTimeout <= 0 {
		cfg.LoginTimeout = DefaultConfig().LoginTimeout
	}
	if cfg.ReviewTimeout <= 0 {
		cfg.ReviewTimeout = DefaultConfig().ReviewTimeout
	}
	if len(cfg.ReviewLocators) == 0 {
		cfg.ReviewLocators = DefaultReviewLocators
	}
	if len(cfg.SubmitLocators) == 0 {
		cfg.SubmitLocators = DefaultSubmitLocators
	}

	return &Poster{
		browser: b,
		config:  cfg,
		logger:  slog.Default().With("component", "poster"),
		pause:   time.Sleep,
	}
}

// Run executes the full posting workflow for one product URL. The browser
// itself is owned by the caller; Run only closes the pages it opened.
func (p *Poster) Run(ctx context.Context, productURL, review string) error {
	page, err := p.browser.NewPage()
	if err != nil {
		return fmt.Errorf("failed to create page: %w", err)
	}
	defer page.Close()
	p.page = page

	steps := []struct {
		name string
		fn   func() error
	}{
		{"navigate", func() error { return p.navigateToRoom(productURL) }},
		{"login", p.loginIfRequired},
		{"post", func() error { return p.postReview(review) }},
	}

	for _, step := range steps {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := step.fn(); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	p.logger.Info("review posted", "url", productURL, "review_length", len([]rune(review)))
	return nil
}

// navigateToRoom opens the product page and follows the ROOM link. The ROOM
// flow opens in a new tab, so the active page switches to the newest one.
func (p *Poster) navigateToRoom(productURL string) error {
	if _, err := p.page.Goto(productURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		return fmt.Errorf("failed to open product page: %w", err)
	}

	link, err := p.browser.FindFirst(p.page, roomLinkLocators, p.config.LinkTimeout)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRoomLinkNotFound, err)
	}

	if err := link.Click(); err != nil {
		return fmt.Errorf("failed to click ROOM link: %w", err)
	}

	p.pause(time.Second)
	p.switchToNewestPage()

	return nil
}

// loginIfRequired fills the Rakuten login form when credentials were supplied
// and a login form is present. A missing form is not an error: the session
// may already be authenticated.
func (p *Poster) loginIfRequired() error {
	if p.config.Username == "" || p.config.Password == "" {
		p.logger.Info("login skipped, no credentials supplied")
		return nil
	}

	username, err := p.browser.FindFirst(p.page, loginUsernameLocators, p.config.LoginTimeout)
	if err != nil {
		p.logger.Warn("no login form detected, continuing", "error", err)
		return nil
	}
	password, err := p.browser.FindFirst(p.page, loginPasswordLocators, p.config.LoginTimeout)
	if err != nil {
		p.logger.Warn("no login form detected, continuing", "error", err)
		return nil
	}

	if err := username.Fill(p.config.Username); err != nil {
		return fmt.Errorf("failed to fill username: %w", err)
	}
	if err := password.Fill(p.config.Password); err != nil {
		return fmt.Errorf("failed to fill password: %w", err)
	}

	submit, err := p.browser.FindFirst(p.page, loginSubmitLocators, p.config.LoginTimeout)
	if err != nil {
		return fmt.Errorf("login %w: %v", ErrSubmitNotFound, err)
	}
	if err := submit.Click(); err != nil {
		return fmt.Errorf("failed to click login button: %w", err)
	}

	// Login flows may close their popup; wait for the windows to settle.
	if err := p.browser.WaitForPageCount(1, p.config.LoginTimeout); err != nil {
		return fmt.Errorf("login did not complete: %w", err)
	}
	p.switchToNewestPage()
	p.pause(time.Second)

	return nil
}

// postReview fills the ROOM review form and submits it. No confirmation is
// read back; success is assumed once the submit click settles.
func (p *Poster) postReview(review string) error {
	textarea, err := p.browser.FindFirst(p.page, p.config.ReviewLocators, p.config.ReviewTimeout)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReviewFieldNotFound, err)
	}

	if err := textarea.Clear(); err != nil {
		return fmt.Errorf("failed to clear review field: %w", err)
	}
	if err := textarea.Fill(review); err != nil {
		return fmt.Errorf("failed to fill review field: %w", err)
	}

	submit, err := p.browser.FindFirst(p.page, p.config.SubmitLocators, p.config.ReviewTimeout)
	if err != nil {
		return fmt.Errorf("post %w: %v", ErrSubmitNotFound, err)
	}
	if err := submit.Click(); err != nil {
		return fmt.Errorf("failed to click submit button: %w", err)
	}

	p.pause(3 * time.Second)

	return nil
}

func (p *Poster) switchToNewestPage() {
	pages := p.browser.Context().Pages()
	if len(pages) == 0 {
		return
	}

	newest := pages[len(pages)-1]
	if newest != p.page {
		p.logger.Debug("switching to newest page", "open_pages", len(pages))
		p.page = newest
		if err := newest.BringToFront(); err != nil {
			p.logger.Warn("failed to focus newest page", "error", err)
		}
	}
}
