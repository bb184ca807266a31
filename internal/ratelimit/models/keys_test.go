package models

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

// =============================================================================
// Rate Limit Key Security Test Suite
// =============================================================================
// Key collision attacks could let a crafted identifier consume another
// action's budget.

type KeySecuritySuite struct {
	suite.Suite
}

func TestKeySecuritySuite(t *testing.T) {
	suite.Run(t, new(KeySecuritySuite))
}

func (s *KeySecuritySuite) TestKeyFormat() {
	s.Run("plain email keeps the action:identifier shape", func() {
		s.Equal("ADMIN_LOGIN:a@x.com", NewKey(ActionAdminLogin, "a@x.com"))
	})

	s.Run("action is recoverable from the key", func() {
		s.Equal(ActionCreateOrder, ActionFromKey(NewKey(ActionCreateOrder, "user-1")))
		s.Equal(Action(""), ActionFromKey("no-delimiter"))
	})
}

func (s *KeySecuritySuite) TestKeyCollisionAttack() {
	s.Run("colon in identifier cannot forge another bucket", func() {
		forged := NewKey(ActionSearch, "x:ADMIN_LOGIN")
		s.NotContains(forged, "x:ADMIN_LOGIN")
		s.Equal("SEARCH:x_cADMIN__LOGIN", forged)
	})

	s.Run("underscore and colon variants do not collide", func() {
		a := NewKey(ActionLogin, "user_c")
		b := NewKey(ActionLogin, "user:")
		s.NotEqual(a, b)
	})
}

func (s *KeySecuritySuite) TestEntryExpiry() {
	s.Run("entry is live until strictly past resetAt", func() {
		e := Entry{Key: "k", Count: 1}
		e.ResetAt = e.ResetAt.Add(1)
		s.False(e.Expired(e.ResetAt))
		s.True(e.Expired(e.ResetAt.Add(1)))
	})
}
