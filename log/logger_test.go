package log

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	now = time.Now().Unix()
	err = fmt.Errorf("error message")
)

// Fatal Fatalf is not test
func TestLogger(t *testing.T) {
	SetLogger(6, false, true)

	WithFields("timestamp", now, "err", err).Debugf("test WithFields Debugf at %v", now)
	WithFields("odd").Infof("test WithFields odd fields at %v", now)

	Trace("test Trace", "timestamp", now, "err", err)
	Debug("test Debug", "timestamp", now, "err", err)
	Info("test Info", "timestamp", now, "err", err)
	Infof("test Infof, timestamp=%v err=%v", now, err)
	Warn("test Warn", "timestamp", now, "err", err)
	Error("test Error", "timestamp", now, "err", err)

	assert.Panics(t, func() { Panic("test Panic", "timestamp", now, "err", err) }, "not panic")
}

func TestSetLogFile(t *testing.T) {
	defer logrus.SetOutput(os.Stdout)

	assert.NoError(t, SetLogFile("", 0, 0))

	logFile := filepath.Join(t.TempDir(), "wallet.log")
	require.NoError(t, SetLogFile(logFile, 1, 1))
	SetLogger(4, true, false)
	Info("written to file", "file", logFile)

	matches, globErr := filepath.Glob(logFile + ".*")
	require.NoError(t, globErr)
	assert.NotEmpty(t, matches)
}
