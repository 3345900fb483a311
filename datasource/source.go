package datasource

import (
	"context"
	"net/http"
	"net/url"

	"github.com/lalallama/proposaldesk/model"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// EvaluationPayload is forwarded to the backend untouched.
type EvaluationPayload []byte

// DataSource is the set of calls the front end makes against the evaluation
// backend. Every call is independent; implementations hold no per-call state.
type DataSource interface {
	CreateEvaluation(ctx context.Context, files EvaluationPayload) (Document, error)
	GetReport(ctx context.Context, proposalID string) (Document, error)
	DownloadReportPDF(ctx context.Context, proposalID string) ([]byte, error)
	SendChatMessage(ctx context.Context, proposalID string, message string, questionCount int) (Document, error)
	// GetChatHistory has no caller in the front end yet.
	GetChatHistory(ctx context.Context, proposalID string) (Document, error)
	Mode() model.Mode
}

var (
	_ DataSource = (*FixtureSource)(nil)
	_ DataSource = (*APISource)(nil)
)

type Options struct {
	// Mock mode
	FixtureFs  afero.Fs // defaults to the OS filesystem
	FixtureDir string
	Sleeper    Sleeper

	// Live mode
	APIURL     *url.URL // base URL, including "/api"
	APIKey     string
	HTTPClient *http.Client
}

// New returns the strategy for mode. The choice is made here once; the
// returned DataSource never changes strategy.
func New(mode model.Mode, opts Options) (DataSource, error) {
	switch mode {
	case model.ModeMock:
		fs := opts.FixtureFs
		if fs == nil {
			fs = afero.NewOsFs()
		}
		var fixtureOpts []FixtureOption
		if opts.Sleeper != nil {
			fixtureOpts = append(fixtureOpts, WithSleeper(opts.Sleeper))
		}
		return NewFixtureSource(fs, opts.FixtureDir, fixtureOpts...), nil
	case model.ModeLive:
		if opts.APIURL == nil || opts.APIURL.String() == "" {
			return nil, errors.New("live mode requires an API URL")
		}
		source := NewAPISource(opts.APIKey, *opts.APIURL)
		if opts.HTTPClient != nil {
			source.HTTPClient = opts.HTTPClient
		}
		return source, nil
	default:
		return nil, errors.Errorf("unsupported data source mode: %s", mode)
	}
}
