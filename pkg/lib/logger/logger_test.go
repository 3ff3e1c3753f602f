package logger_test

import (
	"testing"

	"cartstore/pkg/config"
	"cartstore/pkg/lib/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	for _, env := range []string{config.EnvLocal, config.EnvDev, config.EnvProd} {
		t.Run(env, func(t *testing.T) {
			log, err := logger.SetupLogger(env)
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestSetupLogger_WrongEnv(t *testing.T) {
	_, err := logger.SetupLogger("staging")
	assert.Error(t, err)
}
