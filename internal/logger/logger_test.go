package logger_test

import (
	"bytes"
	"fmt"
	"os"
	"testing"

	. "gopkg.in/check.v1"

	"supermon/internal/logger"
)

// Hook up check.v1 into the "go test" runner.
func Test(t *testing.T) { TestingT(t) }

var _ = Suite(&LogSuite{})

type LogSuite struct {
	logbuf        fmt.Stringer
	restoreLogger func()
}

func (s *LogSuite) SetUpTest(c *C) {
	s.logbuf, s.restoreLogger = logger.MockLogger()
}

func (s *LogSuite) TearDownTest(c *C) {
	s.restoreLogger()
}

func (s *LogSuite) TestNew(c *C) {
	var buf bytes.Buffer
	l := logger.New(&buf)
	c.Assert(l, NotNil)
}

func (s *LogSuite) TestNoticefPrefix(c *C) {
	logger.Noticef("xyzzy")
	c.Check(s.logbuf.String(), Equals, "[supermon] xyzzy\n")
}

func (s *LogSuite) TestDebugfSilentByDefault(c *C) {
	logger.Debugf("xyzzy")
	c.Check(s.logbuf.String(), Equals, "")
}

func (s *LogSuite) TestDebugfEnabledByEnv(c *C) {
	os.Setenv("SUPERMON_DEBUG", "1")
	defer os.Unsetenv("SUPERMON_DEBUG")

	logger.Debugf("xyzzy")
	c.Check(s.logbuf.String(), Equals, "[supermon] DEBUG xyzzy\n")
}

func (s *LogSuite) TestNullLogger(c *C) {
	old := logger.SetLogger(logger.NullLogger)
	defer logger.SetLogger(old)

	logger.Noticef("should be discarded")
	logger.Debugf("also discarded")
	c.Check(s.logbuf.String(), Equals, "")
}
