package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// GoogleStore reads and appends ranges of a Google spreadsheet using a
// service account.
//
// A new authenticated service is built for every call; no connection state is
// shared between requests.
type GoogleStore struct {
	spreadsheetID string
	options       func(ctx context.Context) []option.ClientOption
}

// NewGoogleStore creates a store for the given spreadsheet and service account.
func NewGoogleStore(email, privateKey, spreadsheetID string) (*GoogleStore, error) {
	if email == "" || privateKey == "" {
		return nil, errors.New("missing Google service account credentials")
	}
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	conf := &jwt.Config{
		Email:      email,
		PrivateKey: []byte(privateKey),
		Scopes:     []string{gsheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	return &GoogleStore{
		spreadsheetID: spreadsheetID,
		options: func(ctx context.Context) []option.ClientOption {
			return []option.ClientOption{option.WithHTTPClient(conf.Client(ctx))}
		},
	}, nil
}

func (g *GoogleStore) service(ctx context.Context) (*gsheets.Service, error) {
	srv, err := gsheets.NewService(ctx, g.options(ctx)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return srv, nil
}

// FetchTable reads rng with formatted values.
func (g *GoogleStore) FetchTable(ctx context.Context, rng string) (Table, error) {
	srv, err := g.service(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := srv.Spreadsheets.Values.Get(g.spreadsheetID, rng).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if isUnknownRange(err) {
		return nil, fmt.Errorf("%w: %s", ErrRangeNotFound, rng)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", rng, err)
	}

	return toTable(resp.Values), nil
}

// AppendRow appends one raw row to the end of rng. It is not retried.
func (g *GoogleStore) AppendRow(ctx context.Context, rng string, row []string) error {
	srv, err := g.service(ctx)
	if err != nil {
		return err
	}

	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}

	//nolint:exhaustruct // Only Values is needed for an append
	body := &gsheets.ValueRange{Values: [][]interface{}{values}}
	_, err = srv.Spreadsheets.Values.Append(g.spreadsheetID, rng, body).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append to range %s: %w", rng, err)
	}

	return nil
}

// isUnknownRange reports the API's answer for a sheet that does not exist.
func isUnknownRange(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}

	return apiErr.Code == http.StatusBadRequest && strings.Contains(apiErr.Message, "Unable to parse range")
}

func toTable(values [][]interface{}) Table {
	out := make(Table, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			if v == nil {
				continue
			}
			cells[j] = fmt.Sprint(v)
		}
		out[i] = cells
	}

	return out
}
