package history_test

import (
	"os"
	"testing"

	"github.com/Black-And-White-Club/golf-scorecard/integration_tests/testutils"
)

func TestMain(m *testing.M) {
	code := m.Run()
	testutils.Shutdown()
	os.Exit(code)
}
