package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAbsolutePath(t *testing.T) {
	assert.Equal(t, "/etc/wallet.toml", AbsolutePath("/var", "/etc/wallet.toml"))
	assert.Equal(t, "/var/data/keys", AbsolutePath("/var", "data/keys"))

	home, err := os.UserHomeDir()
	if err == nil {
		assert.Equal(t, filepath.Join(home, "keys"), AbsolutePath("/var", "~/keys"))
	}
}

func TestFileExist(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, FileExist(dir))
	assert.False(t, FileExist(filepath.Join(dir, "missing")))
}

func TestSecondsDuration(t *testing.T) {
	assert.Equal(t, 90*time.Second, SecondsDuration(90))
	assert.Zero(t, SecondsDuration(0))
}
