package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllow(t *testing.T) {
	admin := Actor{ID: "admin-1", Role: RoleAdmin}
	employee := Actor{ID: "emp-1", Role: RoleEmployee}

	tests := []struct {
		name     string
		actor    Actor
		op       Operation
		targetID string
		want     bool
	}{
		{"admin creates recipe", admin, OpRecipeCreate, "", true},
		{"admin updates recipe", admin, OpRecipeUpdate, "", true},
		{"admin deletes recipe", admin, OpRecipeDelete, "", true},
		{"admin creates profile", admin, OpProfileCreate, "", true},
		{"admin updates another profile", admin, OpProfileUpdate, "emp-1", true},
		{"admin deletes another profile", admin, OpProfileDelete, "emp-1", true},
		{"admin cannot delete own account", admin, OpProfileDelete, "admin-1", false},
		{"admin changes another password", admin, OpPasswordChange, "emp-1", true},
		{"admin updates settings", admin, OpSettingsUpdate, "", true},

		{"employee cannot create recipe", employee, OpRecipeCreate, "", false},
		{"employee cannot update recipe", employee, OpRecipeUpdate, "", false},
		{"employee cannot delete recipe", employee, OpRecipeDelete, "", false},
		{"employee cannot create profile", employee, OpProfileCreate, "", false},
		{"employee updates own profile", employee, OpProfileUpdate, "emp-1", true},
		{"employee cannot update another profile", employee, OpProfileUpdate, "emp-2", false},
		{"employee changes own password", employee, OpPasswordChange, "emp-1", true},
		{"employee cannot change another password", employee, OpPasswordChange, "emp-2", false},
		{"employee cannot delete any profile", employee, OpProfileDelete, "emp-1", false},
		{"employee cannot update settings", employee, OpSettingsUpdate, "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Allow(tc.actor, tc.op, tc.targetID))
		})
	}
}
