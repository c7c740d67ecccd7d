package watch

import (
	"testing"

	"go.uber.org/goleak"
)

// Watch owns an fsnotify watcher; every test must leave no goroutines behind.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
