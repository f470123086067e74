package table

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/agentstation/ingest/pkg/constants"
	"github.com/agentstation/ingest/pkg/errors"
	"github.com/agentstation/ingest/pkg/logging"
	"github.com/agentstation/ingest/pkg/rows"
)

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// Scopes are the OAuth scopes the spreadsheet adapter needs.
var Scopes = []string{sheets.SpreadsheetsScope, drive.DriveMetadataReadonlyScope}

// SheetConfig names the worksheet to ingest.
type SheetConfig struct {
	// Spreadsheet is the Drive file name, used when SpreadsheetID is empty.
	Spreadsheet   string
	SpreadsheetID string
	Worksheet     string
}

// SheetTable reads a worksheet and writes the output columns back in place.
type SheetTable struct {
	grid
	cfg    SheetConfig
	sheets *sheets.Service
	drive  *drive.Service
}

// NewSheet creates the Sheets and Drive clients from opts, typically a
// credentials file and Scopes.
func NewSheet(ctx context.Context, cfg SheetConfig, opts ...option.ClientOption) (*SheetTable, error) {
	sheetsSvc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.NewAuthenticationError("sheets", "adc", "failed to create Sheets client", err)
	}
	driveSvc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.NewAuthenticationError("drive", "adc", "failed to create Drive client", err)
	}
	return NewSheetFromServices(cfg, sheetsSvc, driveSvc)
}

// NewSheetFromServices uses already configured API clients.
func NewSheetFromServices(cfg SheetConfig, sheetsSvc *sheets.Service, driveSvc *drive.Service) (*SheetTable, error) {
	if cfg.Worksheet == "" {
		return nil, errors.NewValidationError("worksheet", cfg.Worksheet, "is required")
	}
	if cfg.Spreadsheet == "" && cfg.SpreadsheetID == "" {
		return nil, errors.NewValidationError("spreadsheet", "", "name or id is required")
	}
	return &SheetTable{cfg: cfg, sheets: sheetsSvc, drive: driveSvc}, nil
}

// Describe implements Table.
func (t *SheetTable) Describe() (string, string) {
	name := t.cfg.Spreadsheet
	if name == "" {
		name = t.cfg.SpreadsheetID
	}
	return "sheet", name + "/" + t.cfg.Worksheet
}

// Read implements Table.
func (t *SheetTable) Read(ctx context.Context) ([]*rows.Row, error) {
	_, target := t.Describe()
	ctx, cancel := context.WithTimeout(ctx, constants.SheetTimeout)
	defer cancel()

	if err := t.resolveID(ctx); err != nil {
		return nil, errors.NewAdapterError("sheet", "open", target, err)
	}
	if err := t.checkWorksheet(ctx); err != nil {
		return nil, errors.NewAdapterError("sheet", "open", target, err)
	}

	resp, err := t.sheets.Spreadsheets.Values.Get(t.cfg.SpreadsheetID, quoteSheet(t.cfg.Worksheet)).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, errors.NewAdapterError("sheet", "read", target, googleError("sheets", err))
	}

	records := make([][]string, len(resp.Values))
	for i, line := range resp.Values {
		records[i] = make([]string, len(line))
		for j, cell := range line {
			records[i][j] = fmt.Sprint(cell)
		}
	}

	parsed, err := t.load(records)
	if err != nil {
		return nil, errors.NewAdapterError("sheet", "read", target, err)
	}
	if extra := t.header.Extra(); len(extra) > 0 {
		logging.FromContext(ctx).Debug().Strs("columns", extra).Msg("Keeping extra columns")
	}
	return parsed, nil
}

// Write implements Table. Only the four output columns are sent, one value
// range per column, so concurrent edits to other cells survive.
func (t *SheetTable) Write(ctx context.Context, processed []*rows.Row) error {
	_, target := t.Describe()
	if !t.read {
		return errors.NewAdapterError("sheet", "write", target, errors.New("table was not read"))
	}
	ctx, cancel := context.WithTimeout(ctx, constants.SheetTimeout)
	defer cancel()

	header, merged := t.render(processed)

	req := &sheets.BatchUpdateValuesRequest{ValueInputOption: "RAW"}
	for _, col := range rows.OutputColumns {
		pos := header.Position(col)
		values := make([]interface{}, len(merged))
		for i, record := range merged {
			values[i] = record[pos]
		}
		letter := ColumnLetter(pos)
		req.Data = append(req.Data, &sheets.ValueRange{
			Range:          fmt.Sprintf("%s!%s1:%s%d", quoteSheet(t.cfg.Worksheet), letter, letter, len(merged)),
			MajorDimension: "COLUMNS",
			Values:         [][]interface{}{values},
		})
	}

	resp, err := t.sheets.Spreadsheets.Values.BatchUpdate(t.cfg.SpreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return errors.NewAdapterError("sheet", "write", target, googleError("sheets", err))
	}

	logging.FromContext(ctx).Debug().
		Int64("cells", resp.TotalUpdatedCells).
		Str("spreadsheet_id", t.cfg.SpreadsheetID).
		Msg("Worksheet updated")
	return nil
}

// resolveID finds the spreadsheet by name through Drive.
func (t *SheetTable) resolveID(ctx context.Context) error {
	if t.cfg.SpreadsheetID != "" {
		return nil
	}
	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		strings.ReplaceAll(t.cfg.Spreadsheet, "'", `\'`), spreadsheetMimeType)

	list, err := t.drive.Files.List().
		Q(q).
		Fields("files(id, name)").
		PageSize(10).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return googleError("drive", err)
	}

	switch len(list.Files) {
	case 0:
		return errors.NewNotFoundError("spreadsheet", t.cfg.Spreadsheet)
	case 1:
		t.cfg.SpreadsheetID = list.Files[0].Id
		logging.FromContext(ctx).Debug().Str("spreadsheet_id", t.cfg.SpreadsheetID).Msg("Spreadsheet resolved")
		return nil
	default:
		return errors.NewValidationError("spreadsheet", t.cfg.Spreadsheet,
			fmt.Sprintf("name matches %d spreadsheets; pass --spreadsheet-id", len(list.Files)))
	}
}

func (t *SheetTable) checkWorksheet(ctx context.Context) error {
	ss, err := t.sheets.Spreadsheets.Get(t.cfg.SpreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return googleError("sheets", err)
	}
	for _, s := range ss.Sheets {
		if s.Properties != nil && s.Properties.Title == t.cfg.Worksheet {
			return nil
		}
	}
	return errors.NewNotFoundError("worksheet", t.cfg.Worksheet)
}

// ColumnLetter converts a zero-based column index into A1 notation.
func ColumnLetter(index int) string {
	var b []byte
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}
	return string(b)
}

func quoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func googleError(service string, err error) error {
	var gErr *googleapi.Error
	if !errors.As(err, &gErr) {
		return errors.WrapAPI(service, 0, err)
	}
	if gErr.Code == http.StatusNotFound {
		return errors.Join(errors.NewNotFoundError(service, gErr.Message), gErr)
	}
	return &errors.APIError{
		Service:    service,
		StatusCode: gErr.Code,
		Message:    gErr.Message,
		Err:        gErr,
	}
}
