package service

import (
	"context"

	"github.com/lalallama/proposaldesk/config"
	"github.com/lalallama/proposaldesk/datasource"
	"github.com/lalallama/proposaldesk/model"
	"github.com/spf13/afero"

	log "github.com/sirupsen/logrus"
)

// NewDataSource builds the DataSource cfg asks for. secrets may be nil unless
// the API key lives in Secrets Manager.
func NewDataSource(ctx context.Context, cfg config.Config, secrets SecretGetter) (datasource.DataSource, error) {
	return newDataSource(ctx, cfg, secrets, afero.NewOsFs())
}

func newDataSource(ctx context.Context, cfg config.Config, secrets SecretGetter, fs afero.Fs) (datasource.DataSource, error) {
	opts := datasource.Options{
		FixtureFs:  fs,
		FixtureDir: cfg.DataSource.MockDir,
		APIURL:     cfg.DataSource.ApiURL,
	}

	switch cfg.DataSource.Mode {
	case model.ModeLive:
		if cfg.DataSource.SecretPath != "" {
			var apiSecrets config.ApiSecretData
			if err := ReadSecret(ctx, secrets, cfg.DataSource.SecretPath, &apiSecrets); err != nil {
				return nil, err
			}
			opts.APIKey = apiSecrets.ApiKey
		}
	case model.ModeMock:
		if exists, _ := afero.DirExists(fs, cfg.DataSource.MockDir); !exists {
			log.WithField("mockDir", cfg.DataSource.MockDir).Warn("mock directory not found; every call will fail")
		}
	}

	source, err := datasource.New(cfg.DataSource.Mode, opts)
	if err != nil {
		return nil, err
	}
	if source.Mode() == model.ModeLive {
		log.Infof("API data source initialized. Host: %s", cfg.DataSource.ApiURL.String())
	} else {
		log.Infof("mock data source initialized. Fixtures: %s", cfg.DataSource.MockDir)
	}
	return source, nil
}
