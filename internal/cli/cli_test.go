package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirbrooks/sisyphus/internal/config"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	args = append([]string{"--log-level", "disabled"}, args...)
	code := RunIO(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func TestConsoleFreshSession(t *testing.T) {
	data := filepath.Join(t.TempDir(), "data.txt")

	r := run(t, "todo read book\nlist\nbye\n", "--data", data)
	require.Equal(t, ExitOK, r.code, r.stderr)

	assert.True(t, strings.HasPrefix(r.stdout, "No file found, starting fresh!\nHello, I am Sisyphus"))
	assert.Contains(t, r.stdout, "    added: [T] [ ] read book\n    You now have 1 task in the list.\n-----------------------------\n")
	assert.Contains(t, r.stdout, "    1.[T] [ ] read book\n")
	assert.True(t, strings.HasSuffix(r.stdout, "Saved.\nSee you!\n-----------------------------\n"))

	b, err := os.ReadFile(data)
	require.NoError(t, err)
	assert.Equal(t, "T | 0 | read book\n", string(b))
}

func TestConsoleStopsAtBye(t *testing.T) {
	data := filepath.Join(t.TempDir(), "data.txt")

	r := run(t, "todo a\nbye\ntodo never\n", "--data", data)
	require.Equal(t, ExitOK, r.code)
	assert.NotContains(t, r.stdout, "never")
}

func TestConsoleSavesAtEndOfInput(t *testing.T) {
	data := filepath.Join(t.TempDir(), "data.txt")

	r := run(t, "deadline submit report /by 2024-10-01 14:00", "--data", data)
	require.Equal(t, ExitOK, r.code)
	assert.True(t, strings.HasSuffix(r.stdout, "Saved.\nSee you!\n-----------------------------\n"))

	b, err := os.ReadFile(data)
	require.NoError(t, err)
	assert.Equal(t, "D | 0 | submit report | 2024-10-01 14:00\n", string(b))
}

func TestConsoleReportsSkippedRecords(t *testing.T) {
	data := filepath.Join(t.TempDir(), "data.txt")
	require.NoError(t, os.WriteFile(data, []byte("T | 1 | keep\nX | 0 | what\n"), 0o644))

	r := run(t, "list\n", "--data", data)
	require.Equal(t, ExitOK, r.code)
	assert.True(t, strings.HasPrefix(r.stdout, "1 task loaded.\nSkipped line 2: unknown type tag"))
	assert.Contains(t, r.stdout, "    1.[T] [X] keep\n")

	// the unreadable record is dropped on the next save
	b, err := os.ReadFile(data)
	require.NoError(t, err)
	assert.Equal(t, "T | 1 | keep\n", string(b))
}

func TestConsoleRejectsExtraArgs(t *testing.T) {
	r := run(t, "", "--data", filepath.Join(t.TempDir(), "data.txt"), "frobnicate")
	assert.Equal(t, ExitUsage, r.code)
	assert.Contains(t, r.stderr, `unknown command "frobnicate"`)
}

func TestConfigFileAndFlags(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sisyphus.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("data_file: from-config.txt\ndivider: \"==\"\nindent: \"\"\n"), 0o644))

	r := run(t, "", "--config", cfgPath, "config")
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "data_file    from-config.txt")
	assert.Contains(t, r.stdout, "divider      ==")
	assert.Contains(t, r.stdout, `indent       ""`)
	assert.Contains(t, r.stdout, "log.file     (stderr)")

	r = run(t, "", "--config", cfgPath, "--data", "from-flag.txt", "config")
	require.Equal(t, ExitOK, r.code)
	assert.Contains(t, r.stdout, "data_file    from-flag.txt")
}

func TestConfigDrivesConsole(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "tasks.txt")
	cfgPath := filepath.Join(dir, "sisyphus.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("data_file: "+data+"\ndivider: \"==\"\nindent: \"\"\nseparator: \";\"\n"), 0o644))

	r := run(t, "todo a\nlist\nbye\n", "--config", cfgPath)
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "\n1.[T] [ ] a\n==\n")

	b, err := os.ReadFile(data)
	require.NoError(t, err)
	assert.Equal(t, "T;0;a\n", string(b))
}

func TestInvalidConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "sisyphus.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log:\n  level: loud\n"), 0o644))

	var out, errOut bytes.Buffer
	code := RunIO(context.Background(), []string{"--config", cfgPath, "config"}, strings.NewReader(""), &out, &errOut)
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, errOut.String(), "load config")
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		data := filepath.Join(dir, "absent.txt")
		r := run(t, "", "--data", data, "check")
		assert.Equal(t, ExitOK, r.code)
		assert.Equal(t, data+": no file found\n", r.stdout)
	})

	t.Run("clean file", func(t *testing.T) {
		data := filepath.Join(dir, "clean.txt")
		require.NoError(t, os.WriteFile(data, []byte("T | 0 | a\nE | 0 | b | 2024-10-01 00:00 | 2024-10-02 00:00\n"), 0o644))
		r := run(t, "", "--data", data, "check")
		assert.Equal(t, ExitOK, r.code)
		assert.Equal(t, data+": 2 ok, 0 skipped\n", r.stdout)
	})

	t.Run("corrupt file", func(t *testing.T) {
		data := filepath.Join(dir, "corrupt.txt")
		original := "T | 0 | a\nD | 0 | b | someday\n"
		require.NoError(t, os.WriteFile(data, []byte(original), 0o644))
		r := run(t, "", "--data", data, "check")
		assert.Equal(t, ExitCorrupt, r.code)
		assert.Contains(t, r.stdout, data+": 1 ok, 1 skipped\n  line 2: invalid deadline")
		assert.Contains(t, r.stderr, "1 corrupt record(s)")

		b, err := os.ReadFile(data)
		require.NoError(t, err)
		assert.Equal(t, original, string(b), "check never rewrites the file")
	})
}

func TestLoadFailureIsInternal(t *testing.T) {
	// config validation rejects a directory, so skip it to reach the load
	data := filepath.Join(t.TempDir(), "data.txt")
	var out, errOut bytes.Buffer
	require.NoError(t, os.Mkdir(data, 0o755))

	cfg := config.DefaultConfig()
	cfg.DataFile = data
	a := &app{cfg: &cfg, closer: func() {}, stdin: strings.NewReader(""), stdout: &out, stderr: &errOut}
	cmd := a.command()
	cmd.Before = nil

	err := cmd.Run(context.Background(), []string{"sisyphus"})
	require.Error(t, err)
	var ee *exitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, ExitInternal, ee.code)
}
