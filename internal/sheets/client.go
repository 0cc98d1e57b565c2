// Package sheets reads the tracking spreadsheet through the Google Sheets API
// and parses its rows into records.
package sheets

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// Sheet tab names, in the order they are reconciled.
const (
	SheetWords   = "Words"
	SheetPhrases = "Phrases"
	SheetSongs   = "Songs"
	SheetLetters = "Letters"
)

// Tabs lists every sheet tab the tracker reads.
var Tabs = []string{SheetWords, SheetPhrases, SheetSongs, SheetLetters}

// ErrNotConfigured is returned when no spreadsheet or credentials are set.
var ErrNotConfigured = errors.New("google sheets is not configured")

// Info describes a spreadsheet.
type Info struct {
	Title   string   `json:"title"`
	Sheets  []string `json:"sheets"`
	// Missing lists the tracker tabs the spreadsheet lacks.
	Missing []string `json:"missing,omitempty"`
}

// Client reads one spreadsheet with a service-account credential.
type Client struct {
	svc           *gsheets.Service
	spreadsheetID string
}

// NewClient creates a read-only Sheets client from a service-account key file.
func NewClient(ctx context.Context, spreadsheetID, credentialsFile, applicationName string) (*Client, error) {
	if spreadsheetID == "" || credentialsFile == "" {
		return nil, ErrNotConfigured
	}

	return newClient(ctx, spreadsheetID,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gsheets.SpreadsheetsReadonlyScope),
		option.WithUserAgent(applicationName),
	)
}

func newClient(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*Client, error) {
	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// Values returns every row of the named tab, header row included.
// An empty tab yields no rows.
func (c *Client) Values(ctx context.Context, sheet string) ([][]interface{}, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, sheet).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return resp.Values, nil
}

// Info returns the spreadsheet title and its tab names.
func (c *Client) Info(ctx context.Context) (*Info, error) {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet metadata: %w", err)
	}

	info := &Info{
		Sheets: lo.FilterMap(ss.Sheets, func(s *gsheets.Sheet, _ int) (string, bool) {
			if s.Properties == nil {
				return "", false
			}
			return s.Properties.Title, true
		}),
	}
	if ss.Properties != nil {
		info.Title = ss.Properties.Title
	}
	info.Missing = lo.Without(Tabs, info.Sheets...)
	return info, nil
}
