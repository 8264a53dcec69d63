package logging_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"taxdecl/internal/config"
	"taxdecl/internal/logging"
)

func TestNew_JSONFormatAndLevel(t *testing.T) {
	logger := logging.New(config.LogConfig{Level: "warn", Format: "json"})

	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	logger := logging.New(config.LogConfig{Level: "loud", Format: "console"})

	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, logrus.StandardLogger(), logging.OrDefault(nil))

	l := logging.Discard()
	assert.Equal(t, l, logging.OrDefault(l))
}
