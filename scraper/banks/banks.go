package banks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"marketcap-etl/config"
	"marketcap-etl/models"
	"marketcap-etl/utils"
)

// Scraper fetches the source page and extracts the bank table.
type Scraper struct {
	cfg    *config.Config
	logger *utils.Logger
	client *http.Client
}

// New creates a ready-to-use Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:    cfg,
		logger: logger,
		client: http.DefaultClient,
	}
}

// Scrape fetches the configured URL and returns one record per qualifying
// table row, in page order.
func (s *Scraper) Scrape(ctx context.Context) ([]models.Bank, error) {
	s.logger.Info("[banks] Fetching %s (mode: %s)", s.cfg.URL, s.cfg.FetchMode)

	var doc *goquery.Document
	var err error
	if s.cfg.FetchMode == "rendered" {
		var html string
		if html, err = s.fetchRendered(ctx); err == nil {
			doc, err = goquery.NewDocumentFromReader(strings.NewReader(html))
		}
	} else {
		doc, err = s.fetch(ctx)
	}
	if err != nil {
		return nil, err
	}

	extracted, err := ExtractTable(doc)
	if err != nil {
		return nil, err
	}

	s.logger.Info("[banks] Extracted %d rows", len(extracted))
	return extracted, nil
}

// fetch retrieves the page over plain HTTP and parses it. The body is
// decoded to UTF-8 first, using the response charset when one is declared.
func (s *Scraper) fetch(ctx context.Context) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("extract: build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extract: fetch %s: %w", s.cfg.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("extract: fetch %s: unexpected status %s", s.cfg.URL, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("extract: read body: %w", err)
	}

	enc, _, _ := charset.DetermineEncoding(data, resp.Header.Get("Content-Type"))
	utf8data, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		// fallback: if already utf-8, continue
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("extract: decode body: %w", err)
		}
		utf8data = data
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(utf8data))
	if err != nil {
		return nil, fmt.Errorf("extract: parse html: %w", err)
	}
	return doc, nil
}

// ExtractTable pulls (name, raw market cap) pairs out of the first <tbody>
// on the page. A <tr> is used only if it has at least one <td>; the name is
// the text of the second anchor in the second cell, and the market cap is
// the verbatim text of the third cell. A qualifying row that lacks the
// third cell or a second anchor is a hard error, not a skip: it means the
// page layout has drifted and silent extraction would ship wrong data.
func ExtractTable(doc *goquery.Document) ([]models.Bank, error) {
	body := doc.Find("tbody").First()
	if body.Length() == 0 {
		return nil, fmt.Errorf("extract: no <tbody> found in page")
	}

	var extracted []models.Bank
	var extractErr error

	body.Find("tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() == 0 {
			// header or separator row
			return true
		}
		if cells.Length() < 3 {
			extractErr = fmt.Errorf("extract: row %d has %d data cells, want at least 3", i, cells.Length())
			return false
		}

		anchors := cells.Eq(1).Find("a")
		if anchors.Length() < 2 {
			extractErr = fmt.Errorf("extract: row %d name cell has %d anchors, want at least 2", i, anchors.Length())
			return false
		}

		extracted = append(extracted, models.Bank{
			Name:         anchors.Eq(1).Text(),
			RawMarketCap: cells.Eq(2).Text(),
		})
		return true
	})
	if extractErr != nil {
		return nil, extractErr
	}
	return extracted, nil
}
