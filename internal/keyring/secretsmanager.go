package keyring

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsManagerAPI is the subset of the Secrets Manager client used here.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManagerStore is a read-only Store backed by one AWS Secrets
// Manager secret. The secret is a JSON map keyed like the keyring, e.g.
// {"key_id": "...", "secret_key": "..."}. The service argument is ignored.
type SecretsManagerStore struct {
	client   SecretsManagerAPI
	secretID string
	timeout  time.Duration

	mu     sync.Mutex
	values map[string]string
}

// NewSecretsManagerStore loads the default AWS configuration for region and
// returns a store reading secretID.
func NewSecretsManagerStore(ctx context.Context, region, secretID string) (*SecretsManagerStore, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewSecretsManagerStoreWithClient(secretsmanager.NewFromConfig(cfg), secretID), nil
}

// NewSecretsManagerStoreWithClient returns a store using client.
func NewSecretsManagerStoreWithClient(client SecretsManagerAPI, secretID string) *SecretsManagerStore {
	return &SecretsManagerStore{
		client:   client,
		secretID: secretID,
		timeout:  10 * time.Second,
	}
}

// Get returns one key of the secret. The secret is fetched once and cached.
func (s *SecretsManagerStore) Get(_, key string) (string, error) {
	values, err := s.load()
	if err != nil {
		return "", err
	}
	v, ok := values[key]
	if !ok || v == "" {
		return "", ErrNotFound
	}
	return v, nil
}

// Set always fails; rotate the secret in AWS instead.
func (s *SecretsManagerStore) Set(_, _, _ string) error {
	return ErrReadOnly
}

// Delete always fails; the secret is managed in AWS.
func (s *SecretsManagerStore) Delete(_, _ string) error {
	return ErrReadOnly
}

func (s *SecretsManagerStore) load() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values != nil {
		return s.values, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(s.secretID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch secret [%s]: %w", s.secretID, err)
	}
	if out.SecretString == nil {
		return nil, fmt.Errorf("secret [%s] has no string value", s.secretID)
	}

	var values map[string]string
	if err := json.Unmarshal([]byte(*out.SecretString), &values); err != nil {
		return nil, fmt.Errorf("invalid secret format for [%s]: %w", s.secretID, err)
	}
	s.values = values
	return values, nil
}
