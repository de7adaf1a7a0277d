package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "warn", Format: "json", Output: &buf})
	assert.Equal(t, logrus.WarnLevel, log.Logger.GetLevel())

	log.Info("hidden")
	log.WithField("chunks", 3).Warn("visible")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "visible", entry["msg"])
	assert.Equal(t, "docintel", entry["service"])
	assert.EqualValues(t, 3, entry["chunks"])
}

func TestNew_VerboseAndBadLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, New(Options{Level: "error", Verbose: true, Output: &bytes.Buffer{}}).Logger.GetLevel())
	assert.Equal(t, logrus.InfoLevel, New(Options{Level: "loud", Output: &bytes.Buffer{}}).Logger.GetLevel())
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	New(Options{Output: &buf}).Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "service=docintel")
}
