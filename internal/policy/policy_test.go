package policy

import (
	"testing"

	"farmlink-backend/internal/models"

	"github.com/google/uuid"
)

func testUser(role models.UserRole) *models.User {
	return &models.User{ID: uuid.New(), Role: role}
}

func TestAllowed_AnonymousDeniedEverything(t *testing.T) {
	actions := []Action{
		ActionViewAdminPanel, ActionChangeUserRole, ActionEditUser, ActionDeleteUser,
		ActionCreatePost, ActionEditPost, ActionDeletePost,
		ActionCreateComment, ActionDeleteComment, ActionToggleLike,
		ActionCreateProduct, ActionDeleteProduct,
	}
	for _, action := range actions {
		if Allowed(nil, action, Target{OwnerID: uuid.New()}) {
			t.Errorf("anonymous actor should be denied action %d", action)
		}
	}
}

func TestAllowed_AdminActions(t *testing.T) {
	admin := testUser(models.UserRoleAdmin)
	customer := testUser(models.UserRoleCustomer)

	for _, action := range []Action{ActionViewAdminPanel, ActionChangeUserRole, ActionEditUser} {
		if !Allowed(admin, action, Target{}) {
			t.Errorf("admin should be allowed action %d", action)
		}
		if Allowed(customer, action, Target{}) {
			t.Errorf("customer should be denied action %d", action)
		}
	}
}

func TestAllowed_DeleteUser(t *testing.T) {
	admin := testUser(models.UserRoleAdmin)
	other := testUser(models.UserRoleVendor)

	if !Allowed(admin, ActionDeleteUser, Target{OwnerID: other.ID}) {
		t.Error("admin should be allowed to delete another user")
	}
	if Allowed(admin, ActionDeleteUser, Target{OwnerID: admin.ID}) {
		t.Error("admin should not be allowed to delete itself")
	}
	if Allowed(other, ActionDeleteUser, Target{OwnerID: admin.ID}) {
		t.Error("non-admin should not be allowed to delete users")
	}
}

func TestAllowed_PostOwnership(t *testing.T) {
	owner := testUser(models.UserRoleFarmer)
	admin := testUser(models.UserRoleAdmin)
	stranger := testUser(models.UserRoleCustomer)
	target := Target{OwnerID: owner.ID}

	for _, action := range []Action{ActionEditPost, ActionDeletePost} {
		if !Allowed(owner, action, target) {
			t.Errorf("post owner should be allowed action %d", action)
		}
		if !Allowed(admin, action, target) {
			t.Errorf("admin should be allowed action %d", action)
		}
		if Allowed(stranger, action, target) {
			t.Errorf("non-owner should be denied action %d", action)
		}
	}
}

func TestAllowed_DeleteComment(t *testing.T) {
	commentAuthor := testUser(models.UserRoleCustomer)
	postAuthor := testUser(models.UserRoleFarmer)
	admin := testUser(models.UserRoleAdmin)
	stranger := testUser(models.UserRoleVendor)

	target := Target{OwnerID: commentAuthor.ID, PostOwnerID: postAuthor.ID}

	for _, actor := range []*models.User{commentAuthor, postAuthor, admin} {
		if !Allowed(actor, ActionDeleteComment, target) {
			t.Errorf("%s should be allowed to delete the comment", actor.Role)
		}
	}
	if Allowed(stranger, ActionDeleteComment, target) {
		t.Error("unrelated user should not be allowed to delete the comment")
	}
}

func TestAllowed_CreateProduct(t *testing.T) {
	cases := []struct {
		role models.UserRole
		want bool
	}{
		{models.UserRoleFarmer, true},
		{models.UserRoleVendor, true},
		{models.UserRoleCustomer, false},
		{models.UserRoleConsultant, false},
		{models.UserRoleAdmin, false},
	}
	for _, tc := range cases {
		if got := Allowed(testUser(tc.role), ActionCreateProduct, Target{}); got != tc.want {
			t.Errorf("role %s: CreateProduct allowed=%v, want %v", tc.role, got, tc.want)
		}
	}
}

func TestAllowed_AuthenticatedContentCreation(t *testing.T) {
	for _, role := range []models.UserRole{
		models.UserRoleAdmin, models.UserRoleCustomer, models.UserRoleConsultant,
		models.UserRoleFarmer, models.UserRoleVendor,
	} {
		actor := testUser(role)
		for _, action := range []Action{ActionCreatePost, ActionCreateComment, ActionToggleLike} {
			if !Allowed(actor, action, Target{}) {
				t.Errorf("role %s should be allowed action %d", role, action)
			}
		}
	}
}
