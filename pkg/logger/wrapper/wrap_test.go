package wrap

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_CarriesLogCtx(t *testing.T) {
	base := errors.New("boom")
	ctx := WithRequestID(WithAction(context.Background(), "create_session"), "req-1")

	err := Error(ctx, base)
	require.ErrorIs(t, err, base)
	assert.Equal(t, "boom", err.Error())

	got := FromContext(ErrorCtx(context.Background(), err))
	assert.Equal(t, "create_session", got.Action)
	assert.Equal(t, "req-1", got.RequestID)
}

func TestError_RewrapKeepsOuterMessage(t *testing.T) {
	inner := Error(WithAction(context.Background(), "inner"), errors.New("db down"))
	outer := Error(WithAction(context.Background(), "outer"), fmt.Errorf("list sessions: %w", inner))

	assert.Equal(t, "list sessions: db down", outer.Error())
	assert.Equal(t, "outer", FromContext(ErrorCtx(context.Background(), outer)).Action)
}

func TestError_Nil(t *testing.T) {
	assert.NoError(t, Error(context.Background(), nil))
}

func TestWithLogCtx_Merges(t *testing.T) {
	ctx := WithUserID(context.Background(), "u-1")
	ctx = WithLogCtx(ctx, LogCtx{Action: "login"})

	lc := FromContext(ctx)
	assert.Equal(t, "u-1", lc.UserID)
	assert.Equal(t, "login", lc.Action)
}
