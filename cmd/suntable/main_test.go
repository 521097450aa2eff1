package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/daslab/treeshade/internal/domain/shadow"
)

func TestGenerateJSON(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"generate", "--format", "json", "--slots", "5", "--first-slot", "10h", "2022-06-21"})
	require.NoError(t, rootCmd.Execute())

	var table shadow.SunTable
	require.NoError(t, json.Unmarshal(out.Bytes(), &table))
	require.Len(t, table.Seasons, 1)
	require.Len(t, table.Seasons[0], 5)
	for _, pos := range table.Seasons[0] {
		// Mid-morning to early afternoon in June, New York.
		require.True(t, pos.Visible)
		require.Greater(t, pos.AltitudeDegrees, 40.0)
	}
}

func TestGenerateWritesFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Cleanup(func() {
		flagOut = ""
		flagFormat = "yaml"
	})
	path := filepath.Join(t.TempDir(), "suntable.yaml")
	rootCmd.SetArgs([]string{"generate", "--format", "yaml", "-o", path, "2022-03-20", "2022-06-21"})
	require.NoError(t, rootCmd.Execute())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var table shadow.SunTable
	require.NoError(t, yaml.Unmarshal(raw, &table))
	require.Len(t, table.Seasons, 2)

	rootCmd.SetArgs([]string{"generate", "-o", filepath.Join(t.TempDir(), "missing", "table.yaml")})
	require.Error(t, rootCmd.Execute())
}

func TestRejectsUnknownFormat(t *testing.T) {
	rootCmd.SetArgs([]string{"day", "2022-06-21", "--format", "xml"})
	require.Error(t, rootCmd.Execute())
}
