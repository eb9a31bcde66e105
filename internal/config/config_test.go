package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MissingFileIsCreated(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	t.Setenv("EDITHOR_OUTPUT_DIR", out)

	path := filepath.Join(dir, "config.yaml")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "EDI.xlsx", cfg.TemplatePath)
	assert.Equal(t, out, cfg.OutputDir)
	assert.Equal(t, "corrections_ean.json", cfg.CorrectionsFile)
	assert.Equal(t, "PCE", cfg.UnitOfMeasure)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.ZipOutput)

	assert.FileExists(t, path)
	assert.DirExists(t, out)

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoad_FileValues(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "commandes")
	path := writeConfig(t, dir, "template_path: /srv/EDI.xlsx\n"+
		"output_dir: "+out+"\n"+
		"log_level: debug\n"+
		"zip_output: true\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/EDI.xlsx", cfg.TemplatePath)
	assert.Equal(t, out, cfg.OutputDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.ZipOutput)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "output_dir: "+filepath.Join(dir, "a")+"\n")
	t.Setenv("EDITHOR_OUTPUT_DIR", filepath.Join(dir, "b"))
	t.Setenv("EDITHOR_UNIT_OF_MEASURE", "UVC")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "b"), cfg.OutputDir)
	assert.Equal(t, "UVC", cfg.UnitOfMeasure)
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "output_dir: "+filepath.Join(dir, "o")+"\nlog_level: loud\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "output_dir: [unterminated\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.OutputDir = filepath.Join(dir, "out")
	cfg.TemplatePath = filepath.Join(dir, "tpl.xlsx")

	path := filepath.Join(dir, "nested", "config.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.OutputDir = filepath.Join(t.TempDir(), "x")
	assert.NoError(t, cfg.Validate())

	cfg.LogFormat = "xml"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.TemplatePath = ""
	assert.Error(t, cfg.Validate())
}
