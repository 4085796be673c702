package application_test

import (
	"os"
	"testing"

	"clubledger/config"
)

func TestMain(m *testing.M) {
	config.SetTestConfig(config.NewTestConfig())

	// Ensure config is loaded before running tests
	_ = config.Get()

	code := m.Run()
	os.Exit(code)
}
