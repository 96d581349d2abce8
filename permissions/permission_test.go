package permissions_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"pos/permissions"
)

func TestGet(t *testing.T) {
	data := permissions.Get()

	assert.NotNil(t, data)
	assert.False(t, data.Skip)
	assert.NotEmpty(t, data.Endpoints)
}

func TestPermissionData_FindPermissions(t *testing.T) {
	data := permissions.Get()

	tests := []struct {
		name      string
		path      string
		method    string
		wantSkip  bool
		wantRoles []string
	}{
		{name: "login is public", path: "/v1/auth/login", method: http.MethodPost, wantSkip: true},
		{name: "trailing slash ignored", path: "/v1/staff/", method: http.MethodPost, wantRoles: []string{"admin"}},
		{name: "route pattern", path: "/v1/activity/tracking/start", method: http.MethodPost, wantRoles: []string{"sales"}},
		{name: "unknown route", path: "/v1/unknown", method: http.MethodGet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			permission := data.FindPermissions(tt.path, tt.method)

			assert.Equal(t, tt.wantSkip, permission.Skip)

			if tt.wantRoles != nil {
				assert.Equal(t, tt.wantRoles, permission.Permissions)
			}
		})
	}

	bills := data.FindPermissions("/v1/bills/{id}/payment", http.MethodPost)
	assert.Contains(t, bills.Permissions, "cashier")
	assert.NotContains(t, bills.Permissions, "chef")
}
