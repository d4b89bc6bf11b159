package config

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestCreateLogger(t *testing.T) {
	for _, tt := range []struct{ debug, quiet bool }{
		{false, false},
		{true, false},
		{false, true},
		{true, true},
	} {
		assert.NotNil(t, CreateLogger(tt.debug, tt.quiet))
	}
}

func TestPrintBanner(t *testing.T) {
	logger := CreateLogger(false, true)

	PrintBanner(logger, "chip8vm", true, "dev", "", "")
	PrintBanner(logger, "chip8vm", false, "1.0.0", "0123456789", "2026-10-18")
}
