package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func newTestLogger(verbose, debug bool) (*Logger, *bytes.Buffer, *bytes.Buffer) {
	color.NoColor = true
	var out, errOut bytes.Buffer
	return &Logger{Verbose: verbose, Debug: debug, Out: &out, Err: &errOut}, &out, &errOut
}

func TestLogger_QuietByDefault(t *testing.T) {
	log, out, errOut := newTestLogger(false, false)

	log.Infof("hidden %d", 1)
	log.Debugf("hidden %d", 2)
	log.Warnf("visible %s", "warning")
	log.Errorf("visible %s", "error")

	assert.Empty(t, out.String())
	assert.Equal(t, "[warn] visible warning\n[error] visible error\n", errOut.String())
}

func TestLogger_Verbose(t *testing.T) {
	log, out, _ := newTestLogger(true, false)

	log.Infof("pushing %s", "hush-prod")
	log.Debugf("not shown")

	assert.Equal(t, "[info] pushing hush-prod\n", out.String())
}

func TestLogger_Debug(t *testing.T) {
	log, out, _ := newTestLogger(false, true)

	log.Infof("info")
	log.Debugf("debug")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{"[info] info", "[debug] debug"}, lines)
}
