package secrets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeVault struct {
	values map[string]string
	calls  int
}

func (f *fakeVault) GetSecret(_ context.Context, name string, _ string, _ *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error) {
	f.calls++
	value, ok := f.values[name]
	if !ok {
		return azsecrets.GetSecretResponse{}, errors.New("secret not found")
	}
	return azsecrets.GetSecretResponse{Secret: azsecrets.Secret{Value: &value}}, nil
}

func TestResolveSource(t *testing.T) {
	assert.Equal(t, SourceEnvironment, ResolveSource(SourceAuto, "development"))
	assert.Equal(t, SourceEnvironment, ResolveSource(SourceAuto, ""))
	assert.Equal(t, SourceVault, ResolveSource(SourceAuto, "production"))
	assert.Equal(t, SourceVault, ResolveSource(SourceAuto, "staging"))
	assert.Equal(t, SourceEnvironment, ResolveSource(SourceEnvironment, "production"))
}

func TestProvider_Environment(t *testing.T) {
	t.Setenv("DASHBOARD_TEST_SECRET", "from-env")
	t.Setenv("DASHBOARD_TEST_OVERRIDE", "override")

	p, err := NewProvider(&ProviderConfig{Source: SourceAuto, Environment: "development"}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, p.IsVaultEnabled())

	value, err := p.GetSecret(context.Background(), "DASHBOARD_TEST_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "from-env", value)

	_, err = p.GetSecret(context.Background(), "DASHBOARD_TEST_MISSING")
	assert.Error(t, err)
	assert.Equal(t, "fallback", p.GetSecretWithDefault(context.Background(), "DASHBOARD_TEST_MISSING", "fallback"))

	value, err = p.GetSecretOrEnv(context.Background(), "DASHBOARD_TEST_SECRET", "DASHBOARD_TEST_OVERRIDE")
	require.NoError(t, err)
	assert.Equal(t, "override", value)
}

func TestProvider_VaultRequiresName(t *testing.T) {
	_, err := NewProvider(&ProviderConfig{Source: SourceVault}, zap.NewNop())
	assert.Error(t, err)
}

func TestVaultClient_Cache(t *testing.T) {
	fake := &fakeVault{values: map[string]string{"dashboard-jwt-secret": "s3cret"}}
	client := newVaultClient(fake, &VaultConfig{CacheEnabled: true, CacheTTL: time.Minute}, zap.NewNop())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	client.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		value, err := client.GetSecret(context.Background(), "dashboard-jwt-secret")
		require.NoError(t, err)
		assert.Equal(t, "s3cret", value)
	}
	assert.Equal(t, 1, fake.calls)

	now = now.Add(2 * time.Minute)
	_, err := client.GetSecret(context.Background(), "dashboard-jwt-secret")
	require.NoError(t, err)
	assert.Equal(t, 2, fake.calls)

	client.ClearCache()
	_, err = client.GetSecret(context.Background(), "dashboard-jwt-secret")
	require.NoError(t, err)
	assert.Equal(t, 3, fake.calls)
}

func TestVaultClient_NoCacheAndErrors(t *testing.T) {
	fake := &fakeVault{values: map[string]string{"admin-api-key": "key"}}
	client := newVaultClient(fake, &VaultConfig{}, zap.NewNop())

	_, _ = client.GetSecret(context.Background(), "admin-api-key")
	_, _ = client.GetSecret(context.Background(), "admin-api-key")
	assert.Equal(t, 2, fake.calls)

	_, err := client.GetSecret(context.Background(), "missing")
	assert.Error(t, err)
}
