package replay

import (
	"context"
	"testing"

	"github.com/moaibot/discord-snark-bot/logging"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestDispatchRoutesStoredParams(t *testing.T) {
	d := NewDispatcher(logging.Default())

	var got Request
	d.Register(KindRoast, func(ctx context.Context, req Request) error {
		got = req
		return nil
	})

	rec := &Record{
		ChatID: "chat-9",
		Kind:   KindRoast,
		Params: Params{ParamTargetName: "frank", ParamGenderHint: "male"},
	}
	require.NoError(t, d.Dispatch(context.Background(), rec, "erin"))
	require.Equal(t, "chat-9", got.ChatID)
	require.Equal(t, "erin", got.RequesterName)
	require.Equal(t, "frank", got.Params[ParamTargetName])
	require.Equal(t, "male", got.Params[ParamGenderHint])
}

func TestDispatchUnknownKind(t *testing.T) {
	d := NewDispatcher(logging.Default())
	d.Register(KindPoem, func(ctx context.Context, req Request) error { return nil })

	err := d.Dispatch(context.Background(), &Record{ChatID: "chat-9", Kind: Kind("nope")}, "erin")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnknownKind))
}

func TestRegisterReplacesHandler(t *testing.T) {
	d := NewDispatcher(logging.Default())

	d.Register(KindPraise, func(ctx context.Context, req Request) error { return errors.New("first") })
	d.Register(KindPraise, func(ctx context.Context, req Request) error { return nil })

	require.NoError(t, d.Dispatch(context.Background(), &Record{Kind: KindPraise}, "x"))
}
