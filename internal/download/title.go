package download

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chromedp/chromedp"

	"github.com/handiism/stemline/internal/http"
)

// TitleResolver looks up the title of a video.
type TitleResolver interface {
	Name() string
	Title(ctx context.Context, link string) (string, error)
}

// BrowserTitle reads the page title with a headless Chrome.
type BrowserTitle struct {
	// ExecPath overrides the browser executable when set.
	ExecPath string
}

// Name implements TitleResolver.
func (b *BrowserTitle) Name() string {
	return "browser"
}

// Title implements TitleResolver.
func (b *BrowserTitle) Title(ctx context.Context, link string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("mute-audio", true),
	)
	if b.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(b.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()
	bctx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var title string
	if err := chromedp.Run(bctx,
		chromedp.Navigate(link),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Title(&title),
	); err != nil {
		return "", fmt.Errorf("browser title lookup: %w", err)
	}

	title = cleanPageTitle(title)
	if title == "" {
		return "", errors.New("browser title lookup: empty title")
	}
	return title, nil
}

// cleanPageTitle strips the site suffix and notification counter
// YouTube adds to document titles.
func cleanPageTitle(title string) string {
	title = strings.TrimSpace(title)
	title = strings.TrimSuffix(title, "- YouTube")
	title = strings.TrimSpace(title)
	if strings.HasPrefix(title, "(") {
		if i := strings.Index(title, ") "); i > 0 && isDigits(title[1:i]) {
			title = title[i+2:]
		}
	}
	if title == "YouTube" {
		return ""
	}
	return strings.TrimSpace(title)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// OEmbedTitle asks the oEmbed endpoint for the title.
type OEmbedTitle struct {
	Client *http.Client
}

// Name implements TitleResolver.
func (o *OEmbedTitle) Name() string {
	return "oembed"
}

// Title implements TitleResolver.
func (o *OEmbedTitle) Title(ctx context.Context, link string) (string, error) {
	return o.Client.VideoTitle(ctx, link)
}

// FirstTitle tries resolvers in order and returns the first title found.
type FirstTitle []TitleResolver

// Resolve returns the title and the name of the resolver that found it.
func (f FirstTitle) Resolve(ctx context.Context, link string) (string, string, error) {
	var errs []error
	for _, r := range f {
		title, err := r.Title(ctx, link)
		if err == nil {
			return title, r.Name(), nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", r.Name(), err))
	}
	if len(errs) == 0 {
		return "", "", errors.New("no title resolvers configured")
	}
	return "", "", errors.Join(errs...)
}
