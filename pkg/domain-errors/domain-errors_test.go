package domainerrors

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := New(CodeRateLimited, "too many login attempts")
	assert.True(t, errors.Is(err, &Error{Code: CodeRateLimited}))
	assert.False(t, errors.Is(err, &Error{Code: CodeAccountLocked}))
}

func TestWrap_PreservesOriginalCode(t *testing.T) {
	inner := NewRateLimited("slow down", 30*time.Second)
	wrapped := Wrap(fmt.Errorf("check: %w", inner), CodeInternal, "login blocked")

	assert.True(t, HasCode(wrapped, CodeRateLimited))
	assert.Equal(t, "login blocked", wrapped.Error())
	assert.Equal(t, 30*time.Second, RetryAfter(wrapped))
}

func TestWrap_ForeignErrorTakesGivenCode(t *testing.T) {
	wrapped := Wrap(errors.New("dial tcp: refused"), CodeNetwork, "auth endpoint unreachable")
	assert.Equal(t, CodeNetwork, CodeOf(wrapped))
}

func TestCodeOf_ForeignError(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	assert.Equal(t, time.Duration(0), RetryAfter(errors.New("boom")))
}

func TestNewRateLimited_ClampsNegative(t *testing.T) {
	assert.Equal(t, time.Duration(0), RetryAfter(NewRateLimited("x", -time.Second)))
}
