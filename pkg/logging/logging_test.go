package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLevel("error", true))
	assert.Equal(t, logrus.WarnLevel, ParseLevel(" warn ", false))
	assert.Equal(t, logrus.InfoLevel, ParseLevel("chatty", false))
}

func TestInitLogger(t *testing.T) {
	l := InitLogger(logrus.DebugLevel, true)
	assert.Same(t, logger, l)
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, l.Formatter)

	InitLogger(logrus.InfoLevel, false)
	assert.IsType(t, &logrus.TextFormatter{}, l.Formatter)
}
