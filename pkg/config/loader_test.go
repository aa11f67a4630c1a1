package config_test

import (
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/templatestyles/pkg/config"
)

type loaderConfig struct {
	Name  string   `env:"TEST_LOADER_NAME" envDefault:"default"`
	Count int      `env:"TEST_LOADER_COUNT" envDefault:"3"`
	Tags  []string `env:"TEST_LOADER_TAGS" envSeparator:","`
}

type requiredConfig struct {
	Value string `env:"TEST_LOADER_REQUIRED,required"`
}

type fileConfig struct {
	FromFile   string `env:"TEST_FROM_FILE"`
	Overridden string `env:"TEST_OVERRIDDEN"`
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		config.ResetCache()
		t.Cleanup(config.ResetCache)

		var cfg loaderConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "default", cfg.Name)
		assert.Equal(t, 3, cfg.Count)
		assert.Empty(t, cfg.Tags)
	})

	t.Run("environment", func(t *testing.T) {
		config.ResetCache()
		t.Cleanup(config.ResetCache)
		t.Setenv("TEST_LOADER_NAME", "custom")
		t.Setenv("TEST_LOADER_TAGS", "a,b")

		var cfg loaderConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "custom", cfg.Name)
		assert.Equal(t, []string{"a", "b"}, cfg.Tags)
	})

	t.Run("cached per type", func(t *testing.T) {
		config.ResetCache()
		t.Cleanup(config.ResetCache)

		var first loaderConfig
		require.NoError(t, config.Load(&first))

		t.Setenv("TEST_LOADER_NAME", "changed")
		var second loaderConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, first, second)
	})

	t.Run("concurrent loads agree", func(t *testing.T) {
		config.ResetCache()
		t.Cleanup(config.ResetCache)

		var wg sync.WaitGroup
		results := make([]loaderConfig, 8)
		for i := range results {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, config.Load(&results[i]))
			}()
		}
		wg.Wait()
		for _, r := range results {
			assert.Equal(t, results[0], r)
		}
	})

	t.Run("missing required", func(t *testing.T) {
		config.ResetCache()
		t.Cleanup(config.ResetCache)
		require.NoError(t, os.Unsetenv("TEST_LOADER_REQUIRED"))

		var cfg requiredConfig
		err := config.Load(&cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
		assert.Panics(t, func() { config.MustLoad(&cfg) })
	})

	t.Run("nil pointer", func(t *testing.T) {
		var cfg *loaderConfig
		assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
	})
}

func TestLoadEnv(t *testing.T) {
	config.ResetCache()
	t.Cleanup(config.ResetCache)
	t.Setenv("TEST_OVERRIDDEN", "process-value")
	t.Setenv("TEST_FROM_FILE", "")
	require.NoError(t, os.Unsetenv("TEST_FROM_FILE"))

	require.NoError(t, config.LoadEnv("testdata/.env.test"))
	t.Cleanup(func() { _ = os.Unsetenv("TEST_FROM_FILE") })

	var cfg fileConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "from-file", cfg.FromFile)
	assert.Equal(t, "process-value", cfg.Overridden)

	err := config.LoadEnv("testdata/missing.env")
	assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
}

func TestApp_Backend(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "memory", want: config.BackendMemory},
		{in: " Postgres ", want: config.BackendPostgres},
		{in: "pg", want: config.BackendPostgres},
		{in: "mongodb", want: config.BackendMongo},
		{in: "redis", want: config.BackendRedis},
		{in: "s3", want: config.BackendS3},
		{in: "etcd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := config.App{StoreBackend: tt.in}.Backend()
			if tt.wantErr {
				assert.ErrorIs(t, err, config.ErrUnknownBackend)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
