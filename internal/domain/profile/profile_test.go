package profile

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewProfile_NormalizesEmail(t *testing.T) {
	p := NewProfile(uuid.New(), "  Ada.Lovelace@Campus.EDU ", " Ada Lovelace ", RoleStudent)

	assert.Equal(t, "ada.lovelace@campus.edu", p.Email)
	assert.Equal(t, "Ada Lovelace", p.FullName)
	assert.NoError(t, p.Validate())
}

func TestRoleFromString(t *testing.T) {
	assert.Equal(t, RoleOrganizer, RoleFromString("Organizer"))
	assert.Equal(t, RoleAdmin, RoleFromString("admin"))
	assert.Equal(t, RoleStudent, RoleFromString(""))
	assert.Equal(t, RoleStudent, RoleFromString("superuser"))
}

func TestCanOrganize(t *testing.T) {
	assert.False(t, (&Profile{Role: RoleStudent}).CanOrganize())
	assert.True(t, (&Profile{Role: RoleOrganizer}).CanOrganize())
	assert.True(t, (&Profile{Role: RoleAdmin}).CanOrganize())
}

func TestValidate(t *testing.T) {
	assert.Error(t, (&Profile{Email: "a@b.c", Role: RoleStudent}).Validate())
	assert.Error(t, (&Profile{ID: uuid.New(), Email: "nope", Role: RoleStudent}).Validate())
	assert.Error(t, (&Profile{ID: uuid.New(), Email: "a@b.c", Role: "root"}).Validate())
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Student", (&Profile{}).DisplayName())
	assert.Equal(t, "Grace", (&Profile{FullName: "Grace"}).DisplayName())
}
