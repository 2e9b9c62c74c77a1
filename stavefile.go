//go:build stave

package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const (
	binary   = "bin/regioneval"
	fixtures = "testdata/fixtures.yaml"
)

var Default = All

var Aliases = map[string]interface{}{
	"b": Build,
	"t": Test,
	"l": Lint,
	"c": Clean,
}

// All lints, tests and builds.
func All() error {
	st.Deps(Init)
	st.Deps(Lint, Test)
	st.Deps(Build)
	return nil
}

// Init ensures the module dependencies are up to date.
func Init() error {
	return sh.Run("go", "mod", "tidy")
}

// Build compiles the regioneval binary with version information.
func Build() error {
	st.Deps(Init)

	rebuild, err := target.Glob(binary, "**/*.go", "go.mod", "go.sum")
	if err != nil {
		return fmt.Errorf("checking rebuild: %w", err)
	}
	if !rebuild {
		if st.Verbose() {
			fmt.Println("regioneval is up to date")
		}
		return nil
	}

	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, "./cmd/regioneval")
}

func ldflags() string {
	version, _ := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	commit, _ := sh.Output("git", "rev-parse", "--short", "HEAD")

	return fmt.Sprintf(
		"-X main.version=%s -X main.commit=%s -X main.date=%s",
		strings.TrimSpace(version),
		strings.TrimSpace(commit),
		time.Now().Format(time.RFC3339),
	)
}

// Test runs unit tests with race detection and coverage.
func Test() error {
	st.Deps(Init)
	return sh.RunV("go", "test", "-race", "-cover", "./...")
}

// TestIntegration also runs the PostgreSQL tests. Requires Docker.
func TestIntegration() error {
	st.Deps(Init)
	if err := os.Setenv("REGIONEVAL_INTEGRATION", "1"); err != nil {
		return err
	}
	return sh.RunV("go", "test", "-race", "./source/...")
}

// Lint runs golangci-lint on the codebase.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	for _, a := range []string{"bin/", "coverage.out"} {
		if err := sh.Rm(a); err != nil {
			return fmt.Errorf("removing %s: %w", a, err)
		}
	}
	return nil
}

// Install builds regioneval and copies it to GOBIN.
func Install() error {
	st.Deps(Build)

	gocmd := st.GoCmd()
	bin, err := sh.Output(gocmd, "env", "GOBIN")
	if err != nil {
		return fmt.Errorf("determining GOBIN: %w", err)
	}
	if bin == "" {
		gopath, err := sh.Output(gocmd, "env", "GOPATH")
		if err != nil {
			return fmt.Errorf("determining GOPATH: %w", err)
		}
		bin = gopath + "/bin"
	}

	dst := bin + "/regioneval"
	if runtime.GOOS == "windows" {
		dst += ".exe"
	}
	return sh.Copy(dst, binary)
}

// Eval namespace runs the evaluator.
type Eval st.Namespace

// Fixtures evaluates the bundled fixture papers.
func (Eval) Fixtures() error {
	st.Deps(Build)
	return sh.RunV(binary, "evaluate",
		"--fixtures", fixtures,
		"--expected-schema", "gold",
		"--all-papers",
		"--pages",
	)
}

// Sweep runs a minimum IoU sweep over the bundled fixture papers.
func (Eval) Sweep() error {
	st.Deps(Build)
	return sh.RunV(binary, "sweep",
		"--fixtures", fixtures,
		"--expected-schema", "gold",
		"--all-papers",
	)
}

// Database evaluates every paper in the gold schema of $DATABASE_URL.
func (Eval) Database() error {
	st.Deps(Build)
	if os.Getenv("DATABASE_URL") == "" {
		return errors.New("DATABASE_URL is not set")
	}
	return sh.RunV(binary, "evaluate", "--expected-schema", "gold", "--all-papers")
}

// CI runs lint, tests and build in order.
func CI() error {
	st.Deps(Init)
	st.SerialDeps(Lint, Test, Build)
	return nil
}
