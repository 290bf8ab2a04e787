package browser

import (
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

var (
	// ErrElementNotFound means no locator in a fallback list matched within
	// its timeout.
	ErrElementNotFound = errors.New("no element matched any locator")
	// ErrNoLocators means an empty fallback list was supplied.
	ErrNoLocators = errors.New("no locators provided")
)

// Strategy identifies how a Locator value is interpreted.
type Strategy int

const (
	ByCSS Strategy = iota
	ByID
	ByName
	ByPartialLinkText
)

// Locator describes one way to find a UI element. Ordered Locator slices
// encode fallback policy: each entry is tried in turn until one matches.
type Locator struct {
	Strategy Strategy
	Value    string
}

func CSS(value string) Locator  { return Locator{Strategy: ByCSS, Value: value} }
func ID(value string) Locator   { return Locator{Strategy: ByID, Value: value} }
func Name(value string) Locator { return Locator{Strategy: ByName, Value: value} }

func PartialLinkText(value string) Locator {
	return Locator{Strategy: ByPartialLinkText, Value: value}
}

// Selector resolves the descriptor to a playwright selector string.
func (l Locator) Selector() string {
	switch l.Strategy {
	case ByID:
		return "#" + l.Value
	case ByName:
		return fmt.Sprintf("[name=%q]", l.Value)
	case ByPartialLinkText:
		return fmt.Sprintf("a:has-text(%q)", l.Value)
	default:
		return l.Value
	}
}

// FindFirst tries each locator in order, waiting up to timeout for it to be
// present, and returns the first match. All-miss returns ErrElementNotFound
// carrying the last wait failure.
func (b *Browser) FindFirst(page playwright.Page, locators []Locator, timeout time.Duration) (playwright.Locator, error) {
	if len(locators) == 0 {
		return nil, ErrNoLocators
	}

	var lastErr error
	for _, locator := range locators {
		element := page.Locator(locator.Selector()).First()
		err := element.WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateAttached,
			Timeout: playwright.Float(float64(timeout.Milliseconds())),
		})
		if err == nil {
			b.logger.Debug("locator matched", "selector", locator.Selector())
			return element, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w: %v", ErrElementNotFound, lastErr)
}

// WaitForPageCount polls until the context holds exactly count open pages or
// the timeout elapses.
func (b *Browser) WaitForPageCount(count int, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if len(b.context.Pages()) == count {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("timed out waiting for %d open pages, have %d", count, len(b.context.Pages()))
		}
		time.Sleep(200 * time.Millisecond)
	}
}
