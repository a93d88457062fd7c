// Package testsupport builds the sisyphus binary for script tests.
package testsupport

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

var (
	buildOnce    sync.Once
	sisyphusPath string
	buildErr     error
)

// BuildSisyphus builds the sisyphus binary once and returns its path.
func BuildSisyphus(t testing.TB) string {
	t.Helper()

	buildOnce.Do(func() {
		moduleRoot, err := findModuleRoot()
		if err != nil {
			buildErr = err
			return
		}

		binDir, err := os.MkdirTemp("", "sisyphus-bin-")
		if err != nil {
			buildErr = err
			return
		}

		sisyphusPath = filepath.Join(binDir, "sisyphus")
		cmd := exec.Command("go", "build", "-o", sisyphusPath, "./cmd/sisyphus")
		cmd.Dir = moduleRoot
		output, err := cmd.CombinedOutput()
		if err != nil {
			buildErr = fmt.Errorf("build sisyphus: %w: %s", err, strings.TrimSpace(string(output)))
		}
	})

	if buildErr != nil {
		t.Fatalf("%v", buildErr)
	}

	return sisyphusPath
}

// SetupScriptEnv exposes the binary as $SISYPHUS and clears the SISYPHUS_*
// variables so a developer's environment cannot leak into scripts.
func SetupScriptEnv(t testing.TB, env *testscript.Env) error {
	t.Helper()

	env.Setenv("SISYPHUS", BuildSisyphus(t))
	for _, name := range []string{"SISYPHUS_DATA", "SISYPHUS_CONFIG", "SISYPHUS_LOG_FILE"} {
		env.Setenv(name, "")
	}
	env.Setenv("SISYPHUS_LOG_LEVEL", "disabled")
	env.Setenv("NO_COLOR", "1")
	return nil
}

func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find module root (go.mod)")
		}
		dir = parent
	}
}
