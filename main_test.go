package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showreel/internal/config"
	"showreel/internal/source"
)

const portfolioYAML = `
projects:
  - title: Weather Dashboard
    technologies: [React, Node]
  - title: Chat App
certificates:
  - title: Cloud Practitioner
    issuer: AWS
    date: 2023-05-10
`

func TestApplySource(t *testing.T) {
	tests := []struct {
		in   string
		kind string
		want func(config.SourceConfig) string
	}{
		{"portfolio.yaml", "file", func(s config.SourceConfig) string { return s.Path }},
		{"sqlite:data/portfolio.db", "sqlite", func(s config.SourceConfig) string { return s.DSN }},
		{"https://api.example.com", "http", func(s config.SourceConfig) string { return s.URL }},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cfg := config.DefaultConfig()
			applySource(cfg, tt.in)
			assert.Equal(t, tt.kind, cfg.Source.Kind)
			assert.Contains(t, tt.in, tt.want(cfg.Source))
		})
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	configPath = filepath.Join(t.TempDir(), config.FileName)
	t.Cleanup(func() { configPath = "" })

	cmd := serveCmd
	require.NoError(t, cmd.ParseFlags([]string{"--interval", "3s", "--no-autoplay", "--collection", "certificates"}))

	cfg, err := loadConfig(cmd, []string{"sqlite:portfolio.db"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Source.Kind)
	assert.Equal(t, "portfolio.db", cfg.Source.DSN)
	assert.Equal(t, "certificates", cfg.Source.Collection)
	assert.Equal(t, "3s", cfg.Autoplay.Interval)
	assert.False(t, cfg.Autoplay.Enabled)
}

func TestImportAndInit(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "portfolio.yaml")
	dbPath := filepath.Join(dir, "portfolio.db")
	require.NoError(t, os.WriteFile(yamlPath, []byte(portfolioYAML), 0644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"import", yamlPath, dbPath})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Imported 3 items")

	db, err := source.OpenSQLite(dbPath, source.CollectionAll)
	require.NoError(t, err)
	defer db.Close()
	items, err := db.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 3)

	cfgPath := filepath.Join(dir, "conf", config.FileName)
	rootCmd.SetArgs([]string{"init", "--config", cfgPath})
	require.NoError(t, rootCmd.Execute())
	assert.FileExists(t, cfgPath)

	rootCmd.SetArgs([]string{"init", "--config", cfgPath})
	assert.Error(t, rootCmd.Execute(), "init refuses to overwrite")
	configPath = ""
}
