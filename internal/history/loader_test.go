package history

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shritish20/Volguard-4/pkg/httputil"
	"github.com/shritish20/Volguard-4/pkg/logger"
)

const sampleCSV = `Date , Open , High , Low , Close
20-Aug-2026,24400.00,24550.00,24350.00,"24,512.35"
21-Aug-2026,24512.35,24600.00,24480.00,"24,580.10"
19-Aug-2026,24300.00,24450.00,24250.00,"24,398.50"
bad-date,1,2,3,4
24-Aug-2026,24580.10,24700.00,24560.00,not-a-number
`

func TestParseCSV(t *testing.T) {
	series, err := parseCSV(strings.NewReader(sampleCSV))

	require.NoError(t, err)
	require.Len(t, series.Bars, 3)

	// sorted oldest first despite out-of-order rows
	assert.Equal(t, time.Date(2026, 8, 19, 0, 0, 0, 0, time.UTC), series.Bars[0].Date)
	assert.InDelta(t, 24398.50, series.Bars[0].Close, 1e-9)
	assert.InDelta(t, 24580.10, series.Bars[2].Close, 1e-9)
	assert.Equal(t, time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC), series.LastDate())
}

func TestParseCSVMissingCloseColumn(t *testing.T) {
	_, err := parseCSV(strings.NewReader("Date,Open\n20-Aug-2026,24400\n"))

	assert.ErrorIs(t, err, ErrNoCloseColumn)
}

func TestSeriesCloses(t *testing.T) {
	series, err := parseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	closes := series.Closes()

	assert.Equal(t, []float64{24398.50, 24512.35, 24580.10}, closes)
}

func TestSeriesWindow(t *testing.T) {
	series, err := parseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	window := series.Window(1)

	require.Len(t, window.Bars, 2)
	assert.Equal(t, time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), window.Bars[0].Date)
}

func TestLoad(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleCSV))
	}))
	defer server.Close()

	loader := NewLoader(httputil.New(logger.NewNop()), logger.NewNop(), server.URL)

	series, err := loader.Load(context.Background())

	require.NoError(t, err)
	assert.Len(t, series.Bars, 3)
}

func TestLoadBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	loader := NewLoader(httputil.New(logger.NewNop()).DisableRetry(), logger.NewNop(), server.URL)

	_, err := loader.Load(context.Background())

	assert.Error(t, err)
}
