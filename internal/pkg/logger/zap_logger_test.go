package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogsNewestFirstWithLevelFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	lines := `{"level":"INFO","timestamp":"t1","message":"first","module":"HTTP"}
not json
{"level":"ERROR","timestamp":"t2","message":"second","module":"AnswerStore"}
{"level":"INFO","timestamp":"t3","message":"third","module":"HTTP"}
`
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o600))

	l := &ZapLogger{logger: NewNopLogger().logger, filePath: path}

	all, err := l.GetLogs("", 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Message)

	errs, err := l.GetLogs("ERROR", 10, 0)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "AnswerStore", errs[0].Module)

	page, err := l.GetLogs("", 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "second", page[0].Message)

	byID, err := l.GetLogById(errs[0].Id)
	require.NoError(t, err)
	assert.Equal(t, "second", byID.Message)
}

func TestNopLoggerHasNoLogs(t *testing.T) {
	l := NewNopLogger()
	l.Info("test", "ignored", nil)

	logs, err := l.GetLogs("", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, logs)
}
