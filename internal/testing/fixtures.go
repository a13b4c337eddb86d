package testing

import (
	"os"
	"path/filepath"
	"testing"
)

// ModuleRoot returns the directory holding go.mod, searching upward from the
// test's working directory.
func ModuleRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("go.mod not found above working directory")
		}
		dir = parent
	}
}

// Fixture returns the absolute path of a file under the module root, failing
// the test if it does not exist.
func Fixture(t *testing.T, rel string) string {
	t.Helper()

	path := filepath.Join(ModuleRoot(t), filepath.FromSlash(rel))
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Fixture %s: %v", rel, err)
	}
	return path
}

// RelaxTable is the trimmed relaxation table used across packages.
const RelaxTable = "relax/testdata/pdrelax.p11"

// CopperRun is the directory of PENEPMA output for Cu at 15 kV.
const CopperRun = "penepma/testdata/cu_15kV"
