package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"cartel47-backend/internal/errs"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want errs.Kind
	}{
		{name: "validation", err: errs.Validation("op", "amount %s too low", "0.001"), want: errs.KindValidation},
		{name: "nonce", err: errs.Nonce("op", "expired"), want: errs.KindNonce},
		{name: "conflict", err: errs.Conflict("op", "settled"), want: errs.KindConflict},
		{name: "not found", err: errs.NotFound("op", "bet"), want: errs.KindNotFound},
		{name: "forbidden", err: errs.Forbidden("op", "owner"), want: errs.KindForbidden},
		{name: "internal", err: errs.Internal("op", errors.New("boom")), want: errs.KindInternal},
		{name: "plain error", err: errors.New("boom"), want: errs.KindInternal},
		{name: "wrapped", err: fmt.Errorf("outer: %w", errs.Conflict("op", "settled")), want: errs.KindConflict},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, errs.KindOf(tc.err))
			assert.True(t, errs.Is(tc.err, tc.want))
		})
	}
}

func TestPublicMessageHidesInternalDetail(t *testing.T) {
	err := errs.Internal("services.RedisService.GetBet", errors.New("dial tcp 10.0.0.3:6379: refused"))

	assert.Equal(t, "internal error", errs.PublicMessage(err))
	assert.Contains(t, err.Error(), "refused")
	assert.Equal(t, "bet not found", errs.PublicMessage(errs.NotFound("op", "bet not found")))
	assert.Equal(t, "internal error", errs.PublicMessage(errors.New("raw")))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := errs.Internal("op", cause)

	assert.ErrorIs(t, err, cause)
	assert.False(t, errs.Is(nil, errs.KindInternal))
}
