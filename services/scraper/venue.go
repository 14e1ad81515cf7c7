// File: services/scraper/venue.go
package scraper

import (
	"context"
	"fmt"
	"time"

	"retreatly/models"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// VenueScraper pulls event cards off configured wellness-venue pages with a
// headless browser. One scrape call is one attempt per page; retries and
// scheduling are the caller's problem.
type VenueScraper struct {
	name   string
	urls   []string
	logger *zap.Logger
}

// NewVenueScraper creates a scraper over the configured venue page URLs.
func NewVenueScraper(name string, urls []string, logger *zap.Logger) *VenueScraper {
	return &VenueScraper{name: name, urls: urls, logger: logger}
}

// Name identifies this provider in ScrapingInfo.Sources.
func (s *VenueScraper) Name() string { return s.name }

// newContext creates a fresh chromedp context (one browser, one tab at a time).
func (s *VenueScraper) newContext(parent context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("log-level", "3"), // suppress Chrome logs
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		chromedp.WindowSize(1280, 900),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	cancel := func() {
		cancelCtx()
		cancelAlloc()
	}
	return ctx, cancel
}

// cardData mirrors what the in-page extraction script returns per event card.
type cardData struct {
	Title    string `json:"title"`
	Desc     string `json:"desc"`
	Category string `json:"category"`
	Day      string `json:"day"`
	Month    string `json:"month"`
	TimeText string `json:"timeText"`
	Location string `json:"location"`
	Price    string `json:"price"`
	URL      string `json:"url"`
	Image    string `json:"image"`
}

// Scrape visits every configured page and returns the raw event records it
// could extract. A page that fails is logged and skipped; the query is not
// used for server-side filtering because the venue pages have none.
func (s *VenueScraper) Scrape(ctx context.Context, q Query) ([]models.ScrapedRecord, error) {
	browserCtx, cancel := s.newContext(ctx)
	defer cancel()

	var records []models.ScrapedRecord
	var lastErr error
	for _, pageURL := range s.urls {
		cards, err := s.scrapePage(browserCtx, pageURL)
		if err != nil {
			s.logger.Warn("venue page scrape failed",
				zap.String("provider", s.name), zap.String("url", pageURL), zap.Error(err))
			lastErr = err
			continue
		}
		now := time.Now()
		for _, card := range cards {
			records = append(records, models.ScrapedRecord{
				SourceID:    card.URL,
				Title:       card.Title,
				Description: card.Desc,
				Category:    card.Category,
				Day:         card.Day,
				Month:       card.Month,
				TimeText:    card.TimeText,
				Location:    card.Location,
				PriceText:   card.Price,
				URL:         card.URL,
				ImageURL:    card.Image,
				ScrapedAt:   now,
			})
		}
	}

	if len(records) == 0 && lastErr != nil {
		return nil, fmt.Errorf("all venue pages failed: %w", lastErr)
	}
	return records, nil
}

// scrapePage loads one page and extracts event cards via in-page JS.
func (s *VenueScraper) scrapePage(ctx context.Context, pageURL string) ([]cardData, error) {
	err := chromedp.Run(ctx,
		chromedp.Navigate(pageURL),
		chromedp.Sleep(3*time.Second), // give JS time to render
	)
	if err != nil {
		return nil, fmt.Errorf("navigation failed: %w", err)
	}

	var cards []cardData
	err = chromedp.Run(ctx, chromedp.Evaluate(`
		(function() {
			var results = [];
			document.querySelectorAll('.event-card, article.event, .tribe-events-calendar-list__event').forEach(function(card) {
				var pick = function(sel) {
					var el = card.querySelector(sel);
					return el ? el.innerText.trim() : '';
				};
				var link = card.querySelector('a[href]');
				var img = card.querySelector('img');
				results.push({
					title: pick('h2, h3, .event-title'),
					desc: pick('.event-description, .description, p'),
					category: pick('.event-category, .category'),
					day: pick('.date-day, .day'),
					month: pick('.date-month, .month'),
					timeText: pick('.event-time, .time'),
					location: pick('.event-location, .location, .venue'),
					price: pick('.event-price, .price'),
					url: link ? link.href : '',
					image: img ? img.src : ''
				});
			});
			return results;
		})()
	`, &cards))
	if err != nil {
		return nil, fmt.Errorf("card extraction failed: %w", err)
	}
	return cards, nil
}
