// Package integration handles external service interactions
package integration

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/abelzeko/health-watch/internal/entities"
)

// ObservationScraper pulls water-quality measurements from a public
// monitoring page. The page is expected to carry a table whose rows hold
// location, turbidity, pH and bacteria count, plus a sampling timestamp in
// the page header.
type ObservationScraper struct {
	sourceURL string
}

// NewObservationScraper creates a new water-quality scraper
func NewObservationScraper(url string) *ObservationScraper {
	return &ObservationScraper{
		sourceURL: url,
	}
}

// FetchObservations retrieves water-quality observations from the website
func (s *ObservationScraper) FetchObservations() ([]entities.WaterObservation, error) {
	log.Printf("Sending HTTP request to water monitoring page %s", s.sourceURL)
	res, err := http.Get(s.sourceURL)
	if err != nil {
		log.Printf("Error fetching observations: %v", err)
		return nil, fmt.Errorf("failed to fetch the monitoring page: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != 200 {
		log.Printf("Received unexpected status code: %d %s", res.StatusCode, res.Status)
		return nil, fmt.Errorf("unexpected status code: %d %s", res.StatusCode, res.Status)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		log.Printf("Error parsing HTML: %v", err)
		return nil, fmt.Errorf("failed to parse the monitoring page: %v", err)
	}

	// Extract the sampling timestamp from the page header
	sampledAt := s.ExtractTimestamp(doc)

	var observations []entities.WaterObservation
	rowCount := 0
	skipped := 0

	doc.Find("table tbody tr").Each(func(index int, row *goquery.Selection) {
		rowCount++
		cells := row.Find("td")
		if cells.Length() < 4 {
			skipped++
			return
		}

		location := strings.TrimSpace(cells.Eq(0).Text())
		if location == "" {
			skipped++
			return
		}

		turbidity, err1 := parseCell(cells.Eq(1).Text())
		ph, err2 := parseCell(cells.Eq(2).Text())
		bacteria, err3 := parseCell(cells.Eq(3).Text())
		if err1 != nil || err2 != nil || err3 != nil {
			log.Printf("Warning: skipping row for %s with non-numeric measurements", location)
			skipped++
			return
		}

		observations = append(observations, entities.WaterObservation{
			Location:      location,
			Turbidity:     turbidity,
			PH:            ph,
			BacteriaCount: bacteria,
			ObservedAt:    sampledAt,
		})
	})

	log.Printf("Parsed %d rows, extracted %d valid observations, skipped %d", rowCount, len(observations), skipped)
	return observations, nil
}

// ExtractTimestamp extracts the sampling timestamp from the HTML document.
// Falls back to the current time when the page carries none.
func (s *ObservationScraper) ExtractTimestamp(doc *goquery.Document) time.Time {
	timestamp := time.Now().UTC()
	timestampText := ""

	// Look for the timestamp in the page using multiple selectors
	selectors := []string{"h4", "div.header", "div"}
	for _, selector := range selectors {
		doc.Find(selector).Each(func(i int, sel *goquery.Selection) {
			text := strings.TrimSpace(sel.Text())
			if strings.Contains(text, "Sampled:") {
				timestampText = text
			}
		})
		if timestampText != "" {
			break
		}
	}

	if timestampText != "" {
		if extracted := parseTimestampText(timestampText); !extracted.IsZero() {
			timestamp = extracted
			log.Printf("Extracted sampling timestamp: %s", timestamp.Format(time.RFC3339))
		} else {
			log.Printf("Failed to parse sampling timestamp from: %s", timestampText)
		}
	} else {
		log.Printf("Sampling timestamp not found, using current time")
	}

	return timestamp
}

// parseTimestampText parses timestamp text like "Sampled: 18.04.2025 08:00".
// The page posts timestamps in UTC.
func parseTimestampText(text string) time.Time {
	idx := strings.Index(text, "Sampled:")
	if idx < 0 {
		return time.Time{}
	}
	dateText := strings.TrimSpace(text[idx+len("Sampled:"):])

	timestamp, err := time.ParseInLocation("02.01.2006 15:04", dateText, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return timestamp
}

func parseCell(text string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(text), 64)
}
