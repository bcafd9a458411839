package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/omeyang/xipscan/pkg/util/xnet"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("gopkg.in/natefinch/lumberjack%2ev2.(*Logger).millRun"),
	)
}

const mixed = "gw 10.0.0.1 and ::1, dns 8.8.8.8"

type runResult struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) runResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := runApp(context.Background(), append([]string{"xipscan"}, args...),
		strings.NewReader(stdin), &stdout, &stderr)
	return runResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestScan_Stdin(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"v4", []string{"v4"}, "10.0.0.1\n8.8.8.8\n"},
		{"v6", []string{"v6"}, "::1\n"},
		{"all", []string{"all"}, "10.0.0.1\n::1\n8.8.8.8\n"},
		{"dash", []string{"all", "-"}, "10.0.0.1\n::1\n8.8.8.8\n"},
		{"offsets", []string{"--offsets", "all"}, "3:8:10.0.0.1\n16:3:::1\n25:7:8.8.8.8\n"},
		{"range", []string{"-r", "10.0.0.0/8", "-r", "::1", "all"}, "10.0.0.1\n::1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, mixed, tt.args...)
			assert.Equal(t, exitOK, res.code, res.stderr)
			assert.Equal(t, tt.want, res.stdout)
		})
	}
}

func TestScan_NoMatchesIsSuccess(t *testing.T) {
	res := runCLI(t, "nothing to see here", "v6")
	assert.Equal(t, exitOK, res.code)
	assert.Empty(t, res.stdout)
}

func TestScan_Unique(t *testing.T) {
	res := runCLI(t, "1.1.1.1 2.2.2.2 1.1.1.1", "--unique", "v4")
	assert.Equal(t, exitOK, res.code)
	assert.Equal(t, "1.1.1.1\n2.2.2.2\n", res.stdout)

	res = runCLI(t, "1.1.1.1 2.2.2.2 1.1.1.1", "v4")
	assert.Equal(t, "1.1.1.1\n2.2.2.2\n1.1.1.1\n", res.stdout)
}

func TestScan_JSON(t *testing.T) {
	res := runCLI(t, mixed, "--format", "json", "all")
	require.Equal(t, exitOK, res.code, res.stderr)

	var got jsonResult
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &got))
	assert.Equal(t, "-", got.Source)
	require.Len(t, got.Matches, 3)
	assert.Equal(t, "::1", got.Matches[1].Text)
	assert.Equal(t, xnet.V6, got.Matches[1].Version)
	assert.Equal(t, 16, got.Matches[1].Offset)
	assert.Contains(t, res.stdout, `"version":"IPv6"`)
}

func TestScan_JSONEmptyMatches(t *testing.T) {
	res := runCLI(t, "none", "-f", "json", "v4")
	require.Equal(t, exitOK, res.code)
	assert.JSONEq(t, `{"source":"-","matches":[]}`, res.stdout)
}

func TestScan_Files(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.log", "from 192.168.1.10 to fe80::1")
	b := writeFile(t, dir, "b.log", "dns 8.8.8.8")

	res := runCLI(t, "", "v4", a, b)
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, a+":192.168.1.10\n"+b+":8.8.8.8\n", res.stdout)

	res = runCLI(t, "", "v6", a)
	require.Equal(t, exitOK, res.code)
	assert.Equal(t, "fe80::1\n", res.stdout, "single file has no name prefix")
}

func TestScan_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.log", "10.1.2.3")
	missing := filepath.Join(dir, "missing.log")

	res := runCLI(t, "", "v4", missing, good)
	assert.Equal(t, exitFailure, res.code)
	assert.Equal(t, good+":10.1.2.3\n", res.stdout)
	assert.Contains(t, res.stderr, "missing.log")
}

func TestScan_UsageErrors(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "a.log", "1.2.3.4")

	tests := []struct {
		name string
		args []string
	}{
		{"bad_format", []string{"-f", "xml", "v4"}},
		{"bad_range", []string{"-r", "not-a-range", "v4"}},
		{"unknown_flag", []string{"--bogus", "v4"}},
		{"dash_with_files", []string{"v4", "-", file}},
		{"files_with_dash", []string{"all", file, "-"}},
		{"dash_between_files", []string{"v6", file, "-", file}},
		{"flag_after_command", []string{"v4", "--offsets", file}},
		{"flag_after_dash", []string{"v4", "-", "--unique"}},
		{"bad_log_level", []string{"--log-level", "loud", "v4"}},
		{"bad_workers", []string{"--workers", "0", "v4"}},
		{"path_traversal_watch", []string{"watch", "../x.log"}},
		{"watch_no_files", []string{"watch"}},
		{"watch_stdin", []string{"watch", "-"}},
		{"watch_bad_family", []string{"watch", "--family", "v5", file}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, "1.2.3.4", tt.args...)
			assert.Equal(t, exitUsage, res.code, res.stderr)
		})
	}
}

func TestScan_DashWithFilesReportsUsage(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "a.log", "10.9.9.9")

	res := runCLI(t, "1.2.3.4", "v4", "-", file)
	assert.Equal(t, exitUsage, res.code)
	assert.Empty(t, res.stdout, "no input may be scanned")
	assert.Contains(t, res.stderr, `"-" cannot be combined`)
}

func TestScanInputs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		want     []string
		wantHelp bool
		wantErr  bool
	}{
		{name: "none", args: nil, want: nil},
		{name: "files", args: []string{"a", "b"}, want: []string{"a", "b"}},
		{name: "dash", args: []string{"-"}, want: []string{"-"}},
		{name: "dash_kept_with_files", args: []string{"-", "a"}, want: []string{"-", "a"}},
		{name: "double_dash", args: []string{"a", "--", "-b", "--offsets"}, want: []string{"a", "-b", "--offsets"}},
		{name: "help", args: []string{"a", "--help"}, wantHelp: true},
		{name: "short_help", args: []string{"-h"}, wantHelp: true},
		{name: "flag", args: []string{"a", "--unique"}, wantErr: true},
		{name: "short_flag", args: []string{"-f", "json"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, help, err := scanInputs(tt.args)
			if tt.wantErr {
				var usageErr *usageError
				require.ErrorAs(t, err, &usageErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHelp, help)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScan_DoubleDashFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "-odd.log", "10.3.3.3")

	res := runCLI(t, "", "v4", "--", filepath.Join(dir, "-odd.log"))
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, "10.3.3.3\n", res.stdout)
}

func TestScan_SubcommandHelp(t *testing.T) {
	res := runCLI(t, "", "v4", "--help")
	assert.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "v4")
}

func TestScan_Config(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "xipscan.yaml", `
scan:
  workers: 2
  cache_size: 0
  ranges:
    - 10.0.0.0/8
log:
  level: error
`)

	res := runCLI(t, "10.0.0.1 192.168.0.1", "-c", cfg, "v4")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, "10.0.0.1\n", res.stdout)

	// flag 优先于配置文件。
	res = runCLI(t, "10.0.0.1 192.168.0.1", "-c", cfg, "-r", "192.168.0.0/16", "v4")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, "192.168.0.1\n", res.stdout)
}

func TestScan_ConfigErrors(t *testing.T) {
	dir := t.TempDir()
	unknown := writeFile(t, dir, "unknown.yaml", "scan:\n  colour: red\n")
	res := runCLI(t, "", "-c", unknown, "v4")
	assert.Equal(t, exitUsage, res.code)

	res = runCLI(t, "", "-c", writeFile(t, dir, "bad.toml", "x = 1"), "v4")
	assert.Equal(t, exitUsage, res.code)

	res = runCLI(t, "", "-c", filepath.Join(dir, "missing.yaml"), "v4")
	assert.Equal(t, exitFailure, res.code)
}

func TestScan_LogFile(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "logs", "xipscan.log")

	res := runCLI(t, "10.0.0.1", "--log-file", logFile, "--log-level", "debug", "--log-format", "json", "v4")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, "10.0.0.1\n", res.stdout)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"extracted"`)
	assert.Empty(t, res.stderr)
}

func TestVersion(t *testing.T) {
	res := runCLI(t, "", "version")
	assert.Equal(t, exitOK, res.code)
	assert.Contains(t, res.stdout, Version)
	assert.Contains(t, res.stdout, GitCommit)
}

func TestExitCode(t *testing.T) {
	var stderr bytes.Buffer

	assert.Equal(t, 7, exitCode(&exitError{code: 7}, &stderr))
	assert.Empty(t, stderr.String())

	assert.Equal(t, exitUsage, exitCode(&usageError{msg: "bad"}, &stderr))
	assert.Contains(t, stderr.String(), "bad")

	stderr.Reset()
	assert.Equal(t, exitFailure, exitCode(errors.New("boom"), &stderr))
	assert.Contains(t, stderr.String(), "boom")
}

func TestDedupe(t *testing.T) {
	in := xnet.ScanIPv4("1.1.1.1 1.1.1.1 2.2.2.2")
	out := dedupe(in)
	require.Len(t, out, 2)
	assert.Equal(t, 0, out[0].Offset)
	assert.Equal(t, "2.2.2.2", out[1].Text)
}

// syncBuffer 可被 watch 回调与测试 goroutine 并发访问。
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "peers.conf", "peer 10.1.1.1\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stdout, stderr syncBuffer
	done := make(chan int, 1)
	go func() {
		done <- runApp(ctx, []string{"xipscan", "watch", "--debounce", "20ms", "--family", "v4", path},
			strings.NewReader(""), &stdout, &stderr)
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(stdout.String(), "10.1.1.1")
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("peer 10.2.2.2 fe80::1\n"), 0600))
	require.Eventually(t, func() bool {
		return strings.Contains(stdout.String(), "10.2.2.2")
	}, 5*time.Second, 10*time.Millisecond)
	assert.NotContains(t, stdout.String(), "fe80::1")

	cancel()
	select {
	case code := <-done:
		assert.Equal(t, exitOK, code, stderr.String())
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
