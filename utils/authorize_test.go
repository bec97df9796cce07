package utils_test

import (
	"context"
	"testing"

	"github.com/mmrentals/rentdesk_backend/utils"
)

func TestAuthorize_NilSessionIsUnauthorized(t *testing.T) {
	err := utils.Authorize(nil, utils.RoleStaff)
	if utils.KindOf(err) != utils.KindUnauthorized {
		t.Fatalf("kind = %v, want unauthorized", utils.KindOf(err))
	}
	err = utils.Authorize(&utils.Session{}, utils.RoleStaff)
	if utils.KindOf(err) != utils.KindUnauthorized {
		t.Fatalf("zero user id: kind = %v, want unauthorized", utils.KindOf(err))
	}
}

func TestAuthorize_AdminPassesEveryGate(t *testing.T) {
	admin := &utils.Session{UserId: 1, Username: "boss", Role: utils.RoleAdmin}
	for _, required := range []string{utils.RoleAdmin, utils.RoleStaff, utils.RoleTenant, ""} {
		if err := utils.Authorize(admin, required); err != nil {
			t.Errorf("admin vs %q: %v", required, err)
		}
	}
}

func TestAuthorize_InsufficientRoleIsForbidden(t *testing.T) {
	staff := &utils.Session{UserId: 2, Username: "clerk", Role: utils.RoleStaff}
	err := utils.Authorize(staff, utils.RoleAdmin)
	if utils.KindOf(err) != utils.KindForbidden {
		t.Fatalf("staff vs admin: kind = %v, want forbidden", utils.KindOf(err))
	}

	tenant := &utils.Session{UserId: 3, Username: "renter", Role: utils.RoleTenant}
	err = utils.Authorize(tenant, utils.RoleStaff)
	if utils.KindOf(err) != utils.KindForbidden {
		t.Fatalf("tenant vs staff: kind = %v, want forbidden", utils.KindOf(err))
	}
}

func TestAuthorize_MatchingRolePasses(t *testing.T) {
	staff := &utils.Session{UserId: 2, Username: "clerk", Role: utils.RoleStaff}
	if err := utils.Authorize(staff, utils.RoleStaff); err != nil {
		t.Fatalf("staff vs staff: %v", err)
	}
	if err := utils.Authorize(staff, ""); err != nil {
		t.Fatalf("empty requirement should pass for any session: %v", err)
	}
}

func TestSessionFromContext(t *testing.T) {
	if sess := utils.SessionFromContext(context.Background()); sess != nil {
		t.Fatalf("empty context: session = %+v, want nil", sess)
	}

	ctx := utils.SetUserIdInContext(context.Background(), 42)
	ctx = utils.SetUsernameInContext(ctx, "clerk")
	ctx = utils.SetUserRoleInContext(ctx, utils.RoleStaff)

	sess := utils.SessionFromContext(ctx)
	if sess == nil || sess.UserId != 42 || sess.Username != "clerk" || sess.Role != utils.RoleStaff {
		t.Fatalf("session = %+v", sess)
	}
}
