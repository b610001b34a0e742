package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/ec-shop-core/internal/apperr"
)

// ============================================
// HasRole Tests
// ============================================

func TestHasRole_AdminSatisfiesBuyer(t *testing.T) {
	sess := &Session{UserID: "u-1", Role: RoleAdmin}

	assert.True(t, HasRole(sess, RoleAdmin))
	assert.True(t, HasRole(sess, RoleBuyer))
}

func TestHasRole_BuyerDoesNotSatisfyAdmin(t *testing.T) {
	sess := &Session{UserID: "u-1", Role: RoleBuyer}

	assert.True(t, HasRole(sess, RoleBuyer))
	assert.False(t, HasRole(sess, RoleAdmin))
}

func TestHasRole_NilSession(t *testing.T) {
	assert.False(t, HasRole(nil, RoleBuyer))
}

func TestHasRole_UnknownRole(t *testing.T) {
	sess := &Session{UserID: "u-1", Role: Role("auditor")}
	assert.False(t, HasRole(sess, RoleBuyer))
}

// ============================================
// Require Tests
// ============================================

func TestRequire_Satisfied(t *testing.T) {
	sess := &Session{UserID: "u-1", Role: RoleAdmin}

	assert.NoError(t, Require(sess, RoleAdmin))
	assert.NoError(t, Require(sess, RoleBuyer))
}

func TestRequire_AnyOf(t *testing.T) {
	sess := &Session{UserID: "u-1", Role: RoleBuyer}

	assert.NoError(t, Require(sess, RoleAdmin, RoleBuyer))
}

func TestRequire_Forbidden(t *testing.T) {
	sess := &Session{UserID: "u-1", Role: RoleBuyer}

	err := Require(sess, RoleAdmin)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestRequire_NilSession(t *testing.T) {
	err := Require(nil, RoleBuyer)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
}
