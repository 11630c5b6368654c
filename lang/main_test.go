package lang

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestMain(m *testing.M) {
	// Negative-path tests intentionally trigger interpreter diagnostics;
	// keep them out of the test output unless DEBUG_TESTS=1 is set.
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.FatalLevel)
	}
	os.Exit(m.Run())
}
