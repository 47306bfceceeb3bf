package debug

import (
	"fmt"
	"net/http"
	_ "net/http/pprof"

	"go.uber.org/zap"
)

// StartPprofServer exposes the standard pprof handlers on the given port.
func StartPprofServer(logger *zap.SugaredLogger, port int) {
	go func() {
		logger.Infof("running pprof server on :%d", port)
		if err := http.ListenAndServe(fmt.Sprintf(":%d", port), nil); err != nil {
			logger.Warnf("pprof server exited: %s", err)
		}
	}()
}
