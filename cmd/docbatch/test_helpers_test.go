package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docbatch/internal/config"
	"docbatch/internal/testsupport"
)

// stubPandoc answers the readiness probes, writes its -o target, and fails
// for inputs whose name contains "broken".
const stubPandoc = `case "$1" in
--version) echo "pandoc 3.1.11"; exit 0 ;;
--list-input-formats) printf 'markdown\nrst\n'; exit 0 ;;
--list-output-formats) printf 'docx\nhtml\npdf\n'; exit 0 ;;
esac
out=""
prev=""
last=""
for arg in "$@"; do
  if [ "$prev" = "-o" ]; then out="$arg"; fi
  prev="$arg"
  last="$arg"
done
case "$last" in
*broken*) echo "Could not parse $last" >&2; exit 1 ;;
esac
echo "converted" > "$out"
`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	homeDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	homeDir := filepath.Join(t.TempDir(), "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	cfg := testsupport.NewConfig(t, append([]testsupport.ConfigOption{testsupport.WithStubbedTool(stubPandoc)}, opts...)...)
	configPath := filepath.Join(homeDir, ".config", "docbatch", "config.toml")
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{cfg: cfg, configPath: configPath, homeDir: homeDir}
}

func (env *cliTestEnv) reload(t *testing.T) *config.Config {
	t.Helper()
	cfg, _, _, err := config.Load(env.configPath)
	if err != nil {
		t.Fatalf("reload config: %v", err)
	}
	return cfg
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
