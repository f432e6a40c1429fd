// Package testutil provides the shared harness for integration tests: it
// materializes in-memory item files into a temp directory, builds a full App
// around them, and captures everything the build pass writes.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/itemforge/internal/app"
	"github.com/vk/itemforge/internal/hcl"
	"github.com/vk/itemforge/internal/registry"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Output string
	Err    error
	App    *app.App
}

// RunBuildTest runs a full build pass over the given item files using a
// default background context. Modules default to the compiled-in set when
// none are given.
func RunBuildTest(t *testing.T, files map[string]string, format string, modules ...registry.Module) *HarnessResult {
	t.Helper()
	return RunBuildTestWithContext(context.Background(), t, files, format, modules...)
}

// RunBuildTestWithContext is RunBuildTest with a caller-provided context.
func RunBuildTestWithContext(ctx context.Context, t *testing.T, files map[string]string, format string, modules ...registry.Module) *HarnessResult {
	t.Helper()

	// 1. Write all item files into a temporary root directory. Relative paths
	//    with subdirectories are materialized as given.
	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	if format == "" {
		format = app.FormatJSON
	}
	appConfig := &app.Config{
		ItemsPath: tmpDir,
		Format:    format,
		LogLevel:  "debug",
		LogFormat: "text",
	}

	outBuffer := &SafeBuffer{}

	// 2. Startup panics (unparseable files, broken inheritance) surface as
	//    harness errors so tests can assert on them.
	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(outBuffer, appConfig, hcl.NewLoader(), modules...)
	}()

	if panicErr != nil {
		return &HarnessResult{
			Output: outBuffer.String(),
			Err:    fmt.Errorf("application startup panicked | %v", panicErr),
		}
	}

	runErr := testApp.Run(ctx, appConfig)

	if os.Getenv("ITEMFORGE_TEST_LOGS") == "true" {
		t.Logf("--- Full Output for %s ---\n%s", t.Name(), outBuffer.String())
	}

	return &HarnessResult{
		Output: outBuffer.String(),
		Err:    runErr,
		App:    testApp,
	}
}
