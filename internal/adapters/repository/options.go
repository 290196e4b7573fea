package repository

import (
	"net/http"

	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"github.com/okian/sheetboard/pkg/logger"
)

// SheetsOption configures a SheetsWorkbook.
type SheetsOption func(*sheetsConfig)

type sheetsConfig struct {
	credentialsJSON []byte
	credentialsFile string
	clientOptions   []option.ClientOption
	limit           rate.Limit
	burst           int
	createSheets    bool
	log             logger.Logger
}

// WithCredentialsJSON authenticates with a service account or authorized
// user JSON document.
func WithCredentialsJSON(data []byte) SheetsOption {
	return func(c *sheetsConfig) {
		if len(data) > 0 {
			c.credentialsJSON = data
		}
	}
}

// WithCredentialsFile reads credentials JSON from path at open time.
func WithCredentialsFile(path string) SheetsOption {
	return func(c *sheetsConfig) {
		if path != "" {
			c.credentialsFile = path
		}
	}
}

// WithClientOptions passes options through to the Sheets client. When set,
// credential discovery is skipped.
func WithClientOptions(opts ...option.ClientOption) SheetsOption {
	return func(c *sheetsConfig) {
		c.clientOptions = append(c.clientOptions, opts...)
	}
}

// WithHTTPClient uses client for every API call.
func WithHTTPClient(client *http.Client) SheetsOption {
	return func(c *sheetsConfig) {
		if client != nil {
			c.clientOptions = append(c.clientOptions, option.WithHTTPClient(client))
		}
	}
}

// WithRateLimit caps API calls per second. A non-positive rps disables the cap.
func WithRateLimit(rps float64, burst int) SheetsOption {
	return func(c *sheetsConfig) {
		if rps <= 0 {
			c.limit = rate.Inf
			return
		}
		c.limit = rate.Limit(rps)
		if burst > 0 {
			c.burst = burst
		}
	}
}

// WithSheetCreation adds missing tabs instead of failing with ErrSheetNotFound.
func WithSheetCreation(enabled bool) SheetsOption {
	return func(c *sheetsConfig) {
		c.createSheets = enabled
	}
}

// WithSheetsLogger sets the adapter logger.
func WithSheetsLogger(l logger.Logger) SheetsOption {
	return func(c *sheetsConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// XLSXOption configures an XLSXWorkbook.
type XLSXOption func(*XLSXWorkbook)

// WithXLSXSheetCreation adds missing tabs instead of failing with ErrSheetNotFound.
func WithXLSXSheetCreation(enabled bool) XLSXOption {
	return func(w *XLSXWorkbook) {
		w.createSheets = enabled
	}
}

// WithAutoSave controls whether every mutation is flushed to disk.
func WithAutoSave(enabled bool) XLSXOption {
	return func(w *XLSXWorkbook) {
		w.autoSave = enabled
	}
}
