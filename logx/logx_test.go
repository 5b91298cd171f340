package logx

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)

	Info("LEDGER", "merged", 3, "accounts")
	Warn("SERVICE", "transfer", "rejected:", "paused")
	Debug("RISK", "ok")
	err := Errorf("commit failed: %s", "disk full")

	out := buf.String()
	assert.Contains(t, out, "[INFO][LEDGER]"+ColorReset+": merged 3 accounts")
	assert.Contains(t, out, "[WARN][SERVICE]"+ColorReset+": transfer rejected: paused")
	assert.Contains(t, out, "[DEBUG][RISK]")
	assert.Contains(t, out, "[ERROR][ERROR]"+ColorReset+": commit failed: disk full")
	assert.EqualError(t, err, "commit failed: disk full")
	assert.Equal(t, 4, strings.Count(out, "\n"))
}

func TestEnvInt(t *testing.T) {
	t.Setenv("LOGX_TEST_INT", "")
	assert.Equal(t, 5, envInt("LOGX_TEST_INT", 5))

	t.Setenv("LOGX_TEST_INT", "42")
	assert.Equal(t, 42, envInt("LOGX_TEST_INT", 5))

	t.Setenv("LOGX_TEST_INT", "many")
	assert.Panics(t, func() { envInt("LOGX_TEST_INT", 5) })
}
