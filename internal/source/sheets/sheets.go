// Package sheets reads raw holdings rows from a Google Sheets workbook
// using a read-only service-account credential. Workbooks are located
// by name through the Drive API, so the credential also needs drive
// metadata read access when the workbook lives in a shared drive.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/gcouto/patrimonio/internal/source"
)

// Client is the authenticated handle to the Sheets and Drive services.
// It is constructed once and reused for the lifetime of the process;
// re-authenticating per call is expensive and rate-limited.
type Client struct {
	sheets *gsheets.Service
	drive  *drive.Service
}

// New authenticates with the given service-account credential JSON.
func New(ctx context.Context, credentialsJSON []byte) (*Client, error) {
	opts := []option.ClientOption{
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(
			gsheets.SpreadsheetsReadonlyScope,
			drive.DriveMetadataReadonlyScope,
		),
	}

	sheetsSvc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	driveSvc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating drive service: %w", err)
	}

	return &Client{sheets: sheetsSvc, drive: driveSvc}, nil
}

// Fetch retrieves all rows of the named tab as raw string records. The
// first sheet row is the header. An empty tab yields an empty table,
// not an error.
func (c *Client) Fetch(ctx context.Context, workbook, tab string) (source.Table, error) {
	id, err := c.lookupWorkbook(ctx, workbook)
	if err != nil {
		return source.Table{}, err
	}

	resp, err := c.sheets.Spreadsheets.Values.Get(id, tab).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return source.Table{}, classify(err)
	}

	records := make([][]string, 0, len(resp.Values))

	for _, row := range resp.Values {
		rec := make([]string, 0, len(row))
		for _, cell := range row {
			rec = append(rec, cellString(cell))
		}

		records = append(records, rec)
	}

	return source.FromRecords(records), nil
}

// lookupWorkbook resolves a workbook name to its spreadsheet ID via the
// Drive API, searching shared drives as well.
func (c *Client) lookupWorkbook(ctx context.Context, name string) (string, error) {
	query := fmt.Sprintf(
		"name = '%s' and mimeType = 'application/vnd.google-apps.spreadsheet' and trashed = false",
		strings.ReplaceAll(name, "'", `\'`),
	)

	list, err := c.drive.Files.List().
		Q(query).
		Fields("files(id, name)").
		PageSize(1).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", classify(err)
	}

	if len(list.Files) == 0 {
		return "", fmt.Errorf("workbook %q: %w", name, source.ErrNotFound)
	}

	return list.Files[0].Id, nil
}

// classify maps Google API failures onto the source error taxonomy.
func classify(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden:
			return fmt.Errorf("%w: %s", source.ErrAuthentication, gerr.Message)
		case gerr.Code == http.StatusNotFound:
			return fmt.Errorf("%w: %s", source.ErrNotFound, gerr.Message)
		case gerr.Code == http.StatusBadRequest && strings.Contains(gerr.Message, "Unable to parse range"):
			// The Sheets API reports a missing tab as a range parse failure.
			return fmt.Errorf("%w: %s", source.ErrNotFound, gerr.Message)
		}

		return fmt.Errorf("%w: %s", source.ErrTransient, gerr.Message)
	}

	return fmt.Errorf("%w: %v", source.ErrTransient, err)
}

func cellString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}

	return fmt.Sprint(v)
}
