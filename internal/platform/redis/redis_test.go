package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CarriesConfiguredUserTTL(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()

	client, err := Open(context.Background(), mini.Addr(), "", 0, 5*time.Minute)
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, 5*time.Minute, client.UserTTL)
	assert.NoError(t, client.HealthCheck(context.Background()))
}

func TestOpen_RejectsEmptyAddr(t *testing.T) {
	_, err := Open(context.Background(), "", "", 0, time.Minute)
	assert.Error(t, err)
}

func TestOpen_FailsWhenServerIsDown(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	addr := mini.Addr()
	mini.Close()

	_, err = Open(context.Background(), addr, "", 0, time.Minute)
	assert.Error(t, err)
}
