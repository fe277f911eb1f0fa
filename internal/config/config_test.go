package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "campushub.db", cfg.DBPath)
	assert.Equal(t, 3000.0, cfg.BudgetLimit)
	assert.False(t, cfg.AlertDedupe)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("BUDGET_LIMIT", "1500.5")
	t.Setenv("ALERT_DEDUPE", "true")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, 1500.5, cfg.BudgetLimit)
	assert.True(t, cfg.AlertDedupe)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("BUDGET_LIMIT", "lots")
	t.Setenv("ALERT_DEDUPE", "yep")

	cfg := Load()

	assert.Equal(t, 3000.0, cfg.BudgetLimit)
	assert.False(t, cfg.AlertDedupe)
}
