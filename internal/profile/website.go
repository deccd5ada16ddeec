package profile

import (
	"fmt"
	"log"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/microcosm-cc/bluemonday"
)

// priorityPaths are checked in order on parish and school sites. They cover
// the pages that usually carry facts a grant application needs.
var priorityPaths = []string{
	"/",
	"/about",
	"/about-us",
	"/about-our-parish",
	"/parish",
	"/school",
	"/our-school",
	"/academics",
	"/ministries",
	"/our-ministries",
	"/staff",
	"/leadership",
	"/pastor",
	"/contact",
	"/news",
	"/announcements",
	"/giving",
	"/stewardship",
}

// Page is one scanned page with its extracted plain text.
type Page struct {
	URL   string `json:"url"`
	Path  string `json:"path"`
	Title string `json:"title,omitempty"`
	Text  string `json:"-"`
}

// ScanResult is the output of one website scan: the pages that answered,
// fact hints mined from their text, and the combined text for need
// extraction downstream.
type ScanResult struct {
	BaseURL   string    `json:"base_url"`
	Pages     []Page    `json:"pages"`
	Hints     FactHints `json:"-"`
	ScannedAt time.Time `json:"scanned_at"`
}

// CombinedText concatenates page texts in scan order, capped per page so a
// bulletin archive cannot drown out the about page.
func (s *ScanResult) CombinedText(perPageLimit int) string {
	var b strings.Builder
	for _, p := range s.Pages {
		text := p.Text
		if perPageLimit > 0 && len(text) > perPageLimit {
			text = text[:perPageLimit]
		}
		b.WriteString("[" + p.Path + "]\n")
		b.WriteString(text)
		b.WriteString("\n\n")
	}
	return b.String()
}

// Scanner crawls an organization's website over the priority paths.
type Scanner struct {
	UserAgent string
	Timeout   time.Duration
	Delay     time.Duration
	MaxPages  int

	sanitizer *bluemonday.Policy
}

func NewScanner() *Scanner {
	return &Scanner{
		UserAgent: "GrantMatcher Bot/1.0",
		Timeout:   10 * time.Second,
		Delay:     500 * time.Millisecond,
		MaxPages:  25,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Scan fetches the priority paths of baseURL and mines each page for facts.
// Pages that 404 or fail are skipped; the scan succeeds if any page answered.
func (s *Scanner) Scan(baseURL string) (*ScanResult, error) {
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("profile: invalid website url %q", baseURL)
	}

	now := time.Now().UTC()
	result := &ScanResult{BaseURL: baseURL, ScannedAt: now}
	pageOrder := make(map[string]int, len(priorityPaths))

	c := colly.NewCollector(
		colly.UserAgent(s.UserAgent),
		colly.AllowedDomains(parsed.Host),
		colly.DetectCharset(),
		colly.MaxBodySize(2*1024*1024),
	)
	c.SetRequestTimeout(s.Timeout)
	c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: 1, Delay: s.Delay})

	c.OnHTML("html", func(e *colly.HTMLElement) {
		if len(result.Pages) >= s.MaxPages {
			return
		}
		text := s.pageText(e.DOM)
		if text == "" {
			return
		}
		path := e.Request.URL.Path
		if path == "" {
			path = "/"
		}
		result.Pages = append(result.Pages, Page{
			URL:   e.Request.URL.String(),
			Path:  path,
			Title: strings.TrimSpace(e.DOM.Find("title").First().Text()),
			Text:  text,
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		log.Printf("profile: scan %s: %v", r.Request.URL, err)
	})

	for i, path := range priorityPaths {
		full := baseURL + path
		if path == "/" {
			full = baseURL + "/"
		}
		pageOrder[full] = i
		c.Visit(full)
	}
	c.Wait()

	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("profile: no pages reachable at %s", baseURL)
	}

	// Priority-path order, not response order.
	sort.SliceStable(result.Pages, func(i, j int) bool {
		return pageOrder[result.Pages[i].URL] < pageOrder[result.Pages[j].URL]
	})

	for _, p := range result.Pages {
		hints := ExtractFacts(p.Text, now)
		result.Hints.Merge(hints)
	}
	return result, nil
}

// pageText strips navigation and script noise, sanitizes the remaining HTML,
// and collapses it to plain text.
func (s *Scanner) pageText(doc *goquery.Selection) string {
	body := doc.Find("body").Clone()
	body.Find("script, style, nav, header, footer, noscript").Remove()

	html, err := body.Html()
	if err != nil {
		return ""
	}
	clean := s.sanitizer.Sanitize(html)
	return strings.Join(strings.Fields(clean), " ")
}
