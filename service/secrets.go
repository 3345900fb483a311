package service

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/lalallama/proposaldesk/config"
	"github.com/lalallama/proposaldesk/model"
	"github.com/pkg/errors"
)

// SecretGetter is the part of the Secrets Manager client this package uses.
type SecretGetter interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

func NewSecretsClient(ctx context.Context) (*secretsmanager.Client, error) {
	awsConfig, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return secretsmanager.NewFromConfig(awsConfig), nil
}

// NeedsSecrets reports whether cfg refers to anything stored in Secrets Manager.
func NeedsSecrets(cfg config.Config) bool {
	apiKeyFromSecret := cfg.DataSource.Mode == model.ModeLive && cfg.DataSource.SecretPath != ""
	postgresFromSecret := cfg.PostgresURL == "" && cfg.PostgresSecretPath != ""
	return apiKeyFromSecret || postgresFromSecret
}

// ReadSecret fetches the secret at path and decodes its JSON string into out.
func ReadSecret(ctx context.Context, secrets SecretGetter, path string, out interface{}) error {
	if secrets == nil {
		return errors.Errorf("no secrets client to read %s", path)
	}
	result, err := secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: aws.String(path)})
	if err != nil {
		return errors.Wrapf(err, "reading secret %s", path)
	}
	if result.SecretString == nil {
		return errors.Errorf("secret %s has no string value", path)
	}
	if err := json.Unmarshal([]byte(*result.SecretString), out); err != nil {
		return errors.Wrapf(err, "decoding secret %s", path)
	}
	return nil
}

// ResolvePostgresURL prefers POSTGRES_URL and falls back to the secret.
// An empty result means the journal is disabled.
func ResolvePostgresURL(ctx context.Context, cfg config.Config, secrets SecretGetter) (string, error) {
	if cfg.PostgresURL != "" || cfg.PostgresSecretPath == "" {
		return cfg.PostgresURL, nil
	}
	var pgSecrets config.PostgresSecretData
	if err := ReadSecret(ctx, secrets, cfg.PostgresSecretPath, &pgSecrets); err != nil {
		return "", err
	}
	return pgSecrets.ConnectionString, nil
}
