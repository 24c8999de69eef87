package sheets

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client implements ports.Sheet backed by the Google Sheets v4 API.
// Reads cover a fixed A1 range; writes target one cell at a time.
type Client struct {
	srv           *sheets.Service
	spreadsheetID string
	sheetName     string
	readRange     string
}

func NewClient(srv *sheets.Service, spreadsheetID, sheetName, readRange string) *Client {
	return &Client{
		srv:           srv,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		readRange:     readRange,
	}
}

// NewService builds a Sheets service authenticated as a service account
// through the JWT bearer exchange.
func NewService(ctx context.Context, email, privateKey string) (*sheets.Service, error) {
	conf := &jwt.Config{
		Email:      email,
		PrivateKey: []byte(privateKey),
		Scopes:     []string{sheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}
	return sheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
}

// ReadRows returns the read range as rows of cell strings.
func (c *Client) ReadRows(ctx context.Context) ([][]string, error) {
	resp, err := c.srv.Spreadsheets.Values.Get(c.spreadsheetID, c.readRange).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("sheets read %s failed: %w", c.readRange, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, raw := range resp.Values {
		row := make([]string, len(raw))
		for j, cell := range raw {
			row[j] = cellString(cell)
		}
		rows[i] = row
	}
	return rows, nil
}

// WriteCell writes one RAW value at (row, col); row is 1-based, col 0-based.
func (c *Client) WriteCell(ctx context.Context, row, col int, value string) error {
	addr := CellAddress(c.sheetName, col, row)
	vr := &sheets.ValueRange{Values: [][]any{{value}}}

	_, err := c.srv.Spreadsheets.Values.Update(c.spreadsheetID, addr, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets write %s failed: %w", addr, err)
	}
	return nil
}

func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
