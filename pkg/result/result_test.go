package result

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "storeguard/pkg/domain-errors"
)

func TestResult_Kind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"ok", nil, KindOK},
		{"validation", dErrors.New(dErrors.CodeValidation, "email is required"), KindValidation},
		{"auth failed", dErrors.New(dErrors.CodeAuthFailed, "bad credentials"), KindAuthFailed},
		{"auth required", dErrors.New(dErrors.CodeAuthRequired, "no session"), KindAuthFailed},
		{"rate limited", dErrors.NewRateLimited("slow down", 0), KindRateLimited},
		{"locked", dErrors.New(dErrors.CodeAccountLocked, "locked"), KindAccountLocked},
		{"network", dErrors.New(dErrors.CodeNetwork, "unreachable"), KindNetwork},
		{"timeout", dErrors.New(dErrors.CodeTimeout, "deadline"), KindNetwork},
		{"foreign", errors.New("boom"), KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Result[string]{Err: tt.err}
			assert.Equal(t, tt.want, r.Kind())
		})
	}
}

func TestOKAndFail(t *testing.T) {
	ok := OK("token")
	assert.True(t, ok.IsOK())
	v, err := ok.Unwrap()
	assert.Equal(t, "token", v)
	assert.NoError(t, err)

	failed := Fail[string](nil)
	assert.False(t, failed.IsOK())
	assert.Equal(t, KindUnknown, failed.Kind())
}
