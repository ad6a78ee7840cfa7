package proteintree

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
)

// Verbose enables progress output while an index is built. It is off by
// default so that the library stays quiet when embedded.
var Verbose = false

var (
	logLock    sync.RWMutex
	logger     = zap.NewNop().Sugar()
	verboseOut io.Writer = os.Stderr
)

// SetLogger installs the logger used for verbose messages. A nil logger
// restores the no-op default.
func SetLogger(l *zap.SugaredLogger) {
	logLock.Lock()
	defer logLock.Unlock()

	if l == nil {
		l = zap.NewNop().Sugar()
	}
	logger = l
}

// SetVerboseOutput changes where raw progress output (see ProgressBar) is
// written. The default is stderr.
func SetVerboseOutput(w io.Writer) {
	logLock.Lock()
	defer logLock.Unlock()

	verboseOut = w
}

func currentLogger() *zap.SugaredLogger {
	logLock.RLock()
	defer logLock.RUnlock()
	return logger
}

// Vprintf logs a formatted message when Verbose is set.
func Vprintf(format string, v ...interface{}) {
	if !Verbose {
		return
	}
	currentLogger().Infof(format, v...)
}

// Vprintln logs s when Verbose is set.
func Vprintln(s string) {
	if !Verbose {
		return
	}
	currentLogger().Info(s)
}

// Vprint writes s unformatted to the verbose output. Used for progress bars
// that redraw a single terminal line.
func Vprint(s string) {
	if !Verbose {
		return
	}
	logLock.RLock()
	defer logLock.RUnlock()
	fmt.Fprint(verboseOut, s)
}
