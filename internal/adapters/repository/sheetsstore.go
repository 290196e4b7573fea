package repository

import (
	"context"
	"fmt"
	"os"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/okian/sheetboard/pkg/logger"
)

const (
	defaultSheetsRPS   = 1.0
	defaultSheetsBurst = 5
	backgroundFields   = "userEnteredFormat.backgroundColor"
)

// SheetsWorkbook is a Workbook backed by one Google Sheets spreadsheet.
type SheetsWorkbook struct {
	srv           *sheets.Service
	spreadsheetID string
	limiter       *rate.Limiter
	createSheets  bool
	log           logger.Logger

	mu  sync.Mutex
	ids map[string]int64
}

// OpenSheets connects to spreadsheetID. Without explicit client options it
// uses the configured credentials, falling back to application default
// credentials.
func OpenSheets(ctx context.Context, spreadsheetID string, opts ...SheetsOption) (*SheetsWorkbook, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("%w: spreadsheet id is required", ErrStoreRequest)
	}
	cfg := sheetsConfig{
		limit: rate.Limit(defaultSheetsRPS),
		burst: defaultSheetsBurst,
		log:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	clientOpts := cfg.clientOptions
	if len(clientOpts) == 0 {
		ts, err := tokenSource(ctx, cfg)
		if err != nil {
			return nil, err
		}
		clientOpts = []option.ClientOption{option.WithTokenSource(ts)}
	}

	srv, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: sheets client: %v", ErrStoreRequest, err)
	}
	return &SheetsWorkbook{
		srv:           srv,
		spreadsheetID: spreadsheetID,
		limiter:       rate.NewLimiter(cfg.limit, cfg.burst),
		createSheets:  cfg.createSheets,
		log:           cfg.log.Named("sheets"),
		ids:           make(map[string]int64),
	}, nil
}

func tokenSource(ctx context.Context, cfg sheetsConfig) (oauth2.TokenSource, error) {
	data := cfg.credentialsJSON
	if data == nil && cfg.credentialsFile != "" {
		b, err := os.ReadFile(cfg.credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials: %w", err)
		}
		data = b
	}

	var (
		creds *google.Credentials
		err   error
	)
	if data != nil {
		creds, err = google.CredentialsFromJSON(ctx, data, sheets.SpreadsheetsScope)
	} else {
		creds, err = google.FindDefaultCredentials(ctx, sheets.SpreadsheetsScope)
	}
	if err != nil {
		return nil, fmt.Errorf("google credentials: %w", err)
	}
	return oauth2.ReuseTokenSource(nil, creds.TokenSource), nil
}

// Sheet implements Workbook.
func (w *SheetsWorkbook) Sheet(ctx context.Context, title string) (Sheet, error) {
	id, err := w.sheetID(ctx, title)
	if err != nil {
		return nil, err
	}
	return &sheetsSheet{wb: w, title: title, id: id}, nil
}

// Link implements Workbook.
func (w *SheetsWorkbook) Link(ctx context.Context, title string) (string, error) {
	id, err := w.sheetID(ctx, title)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit#gid=%d", w.spreadsheetID, id), nil
}

// Close implements Workbook.
func (w *SheetsWorkbook) Close() error { return nil }

func (w *SheetsWorkbook) sheetID(ctx context.Context, title string) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if id, ok := w.ids[title]; ok {
		return id, nil
	}

	if err := w.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	ss, err := w.srv.Spreadsheets.Get(w.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, requestError("get spreadsheet", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil {
			w.ids[sh.Properties.Title] = sh.Properties.SheetId
		}
	}
	if id, ok := w.ids[title]; ok {
		return id, nil
	}
	if !w.createSheets {
		return 0, fmt.Errorf("%w: %q", ErrSheetNotFound, title)
	}

	resp, err := w.batch(ctx, &sheets.Request{
		AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: title}},
	})
	if err != nil {
		return 0, err
	}
	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil || resp.Replies[0].AddSheet.Properties == nil {
		return 0, fmt.Errorf("%w: add sheet %q: empty reply", ErrStoreRequest, title)
	}
	id := resp.Replies[0].AddSheet.Properties.SheetId
	w.ids[title] = id
	w.log.Info(ctx, "sheet created", logger.String("title", title))
	return id, nil
}

// batch does not wait on the limiter; callers do.
func (w *SheetsWorkbook) batch(ctx context.Context, reqs ...*sheets.Request) (*sheets.BatchUpdateSpreadsheetResponse, error) {
	resp, err := w.srv.Spreadsheets.BatchUpdate(w.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: reqs,
	}).Context(ctx).Do()
	if err != nil {
		return nil, requestError("batch update", err)
	}
	return resp, nil
}

func requestError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreRequest, err)
}

type sheetsSheet struct {
	wb    *SheetsWorkbook
	title string
	id    int64
}

func (s *sheetsSheet) GetRange(ctx context.Context, r Range) ([][]string, error) {
	a1, err := QualifiedRange(s.title, r)
	if err != nil {
		return nil, err
	}
	if err := s.wb.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	vr, err := s.wb.srv.Spreadsheets.Values.Get(s.wb.spreadsheetID, a1).
		MajorDimension("ROWS").
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).Do()
	if err != nil {
		return nil, requestError("get "+a1, err)
	}
	grid := make([][]string, len(vr.Values))
	for i, row := range vr.Values {
		grid[i] = make([]string, len(row))
		for j, v := range row {
			grid[i][j] = fmt.Sprint(v)
		}
	}
	return grid, nil
}

func (s *sheetsSheet) GetCell(ctx context.Context, c Cell) (string, bool, error) {
	grid, err := s.GetRange(ctx, CellRange(c))
	if err != nil {
		return "", false, err
	}
	v := At(grid, 0, 0)
	return v, v != "", nil
}

func (s *sheetsSheet) CreateRow(ctx context.Context, row int) error {
	if row < 0 {
		return fmt.Errorf("%w: row %d", ErrInvalidRange, row)
	}
	if err := s.wb.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := s.wb.batch(ctx, &sheets.Request{
		InsertDimension: &sheets.InsertDimensionRequest{
			Range: &sheets.DimensionRange{
				SheetId:         s.id,
				Dimension:       "ROWS",
				StartIndex:      int64(row),
				EndIndex:        int64(row + 1),
				ForceSendFields: []string{"SheetId", "StartIndex"},
			},
		},
	})
	return err
}

func (s *sheetsSheet) EditCell(ctx context.Context, c Cell, value string) error {
	a1, err := QualifiedRange(s.title, CellRange(c))
	if err != nil {
		return err
	}
	if err := s.wb.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err = s.wb.srv.Spreadsheets.Values.Update(s.wb.spreadsheetID, a1, &sheets.ValueRange{
		Values: [][]interface{}{{value}},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return requestError("update "+a1, err)
	}
	return nil
}

func (s *sheetsSheet) SetColor(ctx context.Context, r Range, color Color) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := s.wb.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := s.wb.batch(ctx, &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range: &sheets.GridRange{
				SheetId:          s.id,
				StartRowIndex:    int64(r.From.Row),
				EndRowIndex:      int64(r.To.Row + 1),
				StartColumnIndex: int64(r.From.Col),
				EndColumnIndex:   int64(r.To.Col + 1),
				ForceSendFields:  []string{"SheetId", "StartRowIndex", "StartColumnIndex"},
			},
			Cell: &sheets.CellData{
				UserEnteredFormat: &sheets.CellFormat{
					BackgroundColor: &sheets.Color{
						Red:             color.Red,
						Green:           color.Green,
						Blue:            color.Blue,
						ForceSendFields: []string{"Red", "Green", "Blue"},
					},
				},
			},
			Fields: backgroundFields,
		},
	})
	return err
}
