package history

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shritish20/Volguard-4/pkg/httputil"
	"github.com/shritish20/Volguard-4/pkg/logger"
)

// ErrNoCloseColumn means the CSV carries no Close column
var ErrNoCloseColumn = errors.New("csv file does not contain 'Close' column")

// Bar is one daily candle of the index history. Only Date and Close are
// consumed downstream; the other columns in the source CSV are ignored.
type Bar struct {
	Date  time.Time
	Close float64
}

// Series is a date-sorted close-price history
type Series struct {
	Bars []Bar
}

// Closes returns just the close prices, oldest first
func (s *Series) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// LastDate returns the date of the newest bar, zero for an empty series
func (s *Series) LastDate() time.Time {
	if len(s.Bars) == 0 {
		return time.Time{}
	}
	return s.Bars[len(s.Bars)-1].Date
}

// Window returns the trailing sub-series covering the last `days` calendar
// days, inclusive of the final bar.
func (s *Series) Window(days int) *Series {
	if len(s.Bars) == 0 {
		return &Series{}
	}

	cutoff := s.LastDate().AddDate(0, 0, -days)
	for i, b := range s.Bars {
		if !b.Date.Before(cutoff) {
			return &Series{Bars: s.Bars[i:]}
		}
	}
	return &Series{}
}

// Loader fetches and parses the historical index CSV
type Loader struct {
	client *httputil.Client
	logger *logger.Logger
	url    string
}

// NewLoader creates a loader for the given CSV URL
func NewLoader(client *httputil.Client, log *logger.Logger, url string) *Loader {
	return &Loader{client: client, logger: log, url: url}
}

// Load fetches the CSV and returns a date-sorted series. Rows with an
// unparseable date or close value are skipped, mirroring how the dashboard
// data is curated: occasional bad rows must not poison the whole history.
func (l *Loader) Load(ctx context.Context) (*Series, error) {
	resp, err := l.client.Get(ctx, l.url)
	if err != nil {
		return nil, fmt.Errorf("fetching historical data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching historical data: unexpected status %d", resp.StatusCode)
	}

	series, err := parseCSV(resp.Body)
	if err != nil {
		return nil, err
	}

	l.logger.WithFields(map[string]interface{}{
		"bars": len(series.Bars),
		"url":  l.url,
	}).Debug("Historical data loaded")

	return series, nil
}

// parseCSV reads the candle CSV. Headers are matched case-insensitively
// after trimming, the source file pads its column names with spaces.
func parseCSV(r io.Reader) (*Series, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing historical csv: %w", err)
	}
	if len(records) < 2 {
		return &Series{}, nil
	}

	dateCol, closeCol := -1, -1
	for i, h := range records[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "date":
			dateCol = i
		case "close":
			closeCol = i
		}
	}
	if closeCol < 0 {
		return nil, ErrNoCloseColumn
	}
	if dateCol < 0 {
		return nil, errors.New("csv file does not contain 'Date' column")
	}

	bars := make([]Bar, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) <= dateCol || len(rec) <= closeCol {
			continue
		}

		date, err := time.Parse("02-Jan-2006", strings.TrimSpace(rec[dateCol]))
		if err != nil {
			continue
		}

		closeStr := strings.ReplaceAll(strings.TrimSpace(rec[closeCol]), ",", "")
		closePrice, err := strconv.ParseFloat(closeStr, 64)
		if err != nil {
			continue
		}

		bars = append(bars, Bar{Date: date, Close: closePrice})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	return &Series{Bars: bars}, nil
}
