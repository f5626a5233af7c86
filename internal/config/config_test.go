package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.Grid.Rows)
	assert.Equal(t, 40, cfg.Grid.Cols)
	assert.Equal(t, int64(42), cfg.Grid.Seed)
	assert.Equal(t, "outputs", cfg.Export.Dir)
	assert.Equal(t, "synthetic_uhi_dataset", cfg.Export.BaseName)
	assert.Equal(t, 0.009, cfg.Export.CellSizeDeg)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "uhi-synth.db", cfg.Store.Path)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10000, cfg.Server.MaxCells)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("UHI_GRID_ROWS", "12")
	t.Setenv("UHI_STORE_DRIVER", "postgres")
	t.Setenv("UHI_STORE_DATABASE_URL", "postgres://localhost:5432/uhi")
	t.Setenv("UHI_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Grid.Rows)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost:5432/uhi", cfg.Store.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		component string
		wantErr   string
	}{
		{"defaults valid for store", func(*Config) {}, "store", ""},
		{"defaults valid for server", func(*Config) {}, "server", ""},
		{
			"sqlite without path",
			func(c *Config) { c.Store.Path = "" },
			"store", "store.path",
		},
		{
			"postgres without url",
			func(c *Config) { c.Store.Driver = "postgres" },
			"store", "store.database_url",
		},
		{
			"unknown driver",
			func(c *Config) { c.Store.Driver = "oracle" },
			"store", "unknown store driver",
		},
		{
			"port out of range",
			func(c *Config) { c.Server.Port = 70000 },
			"server", "invalid server port",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate(tt.component)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "warn", Format: "json"}))

	err := InitLogger(LogConfig{Level: "shout", Format: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log level")
}
