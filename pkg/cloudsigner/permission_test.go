package cloudsigner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudutil/cloud-file-signer/pkg/cloudsigner"
)

func TestParsePermission(t *testing.T) {
	tests := []struct {
		input string
		want  cloudsigner.Permission
	}{
		{"r", cloudsigner.PermissionRead},
		{"read", cloudsigner.PermissionRead},
		{"readonly", cloudsigner.PermissionRead},
		{"READ", cloudsigner.PermissionRead},
		{" readonly ", cloudsigner.PermissionRead},
		{"w", cloudsigner.PermissionWrite},
		{"write", cloudsigner.PermissionWrite},
		{"writeonly", cloudsigner.PermissionWrite},
		{"Write", cloudsigner.PermissionWrite},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := cloudsigner.ParsePermission(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePermissionRejectsUnknown(t *testing.T) {
	for _, input := range []string{"", "rw", "delete", "read-write", "admin"} {
		t.Run("input="+input, func(t *testing.T) {
			_, err := cloudsigner.ParsePermission(input)
			require.Error(t, err)
			assert.True(t, cloudsigner.IsKind(err, cloudsigner.KindPermissionNotSupported))
			assert.Contains(t, err.Error(), input)
		})
	}
}

func TestPermissionString(t *testing.T) {
	assert.Equal(t, "read", cloudsigner.PermissionRead.String())
	assert.Equal(t, "write", cloudsigner.PermissionWrite.String())
}
