// SPDX-License-Identifier: MPL-2.0

package container

import (
	"errors"
	"testing"
)

func TestVolumeMount_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		v    VolumeMount
		want string
	}{
		{name: "read-write", v: VolumeMount{HostPath: "/work", ContainerPath: "/project"}, want: "/work:/project:rw"},
		{name: "read-only", v: VolumeMount{HostPath: "/work", ContainerPath: "/project", ReadOnly: true}, want: "/work:/project:ro"},
		{
			name: "selinux private",
			v:    VolumeMount{HostPath: "/work", ContainerPath: "/project", SELinux: SELinuxLabelPrivate},
			want: "/work:/project:rw,Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVolumeMount_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		v        VolumeMount
		wantErrs []error
	}{
		{name: "valid", v: VolumeMount{HostPath: "/work", ContainerPath: "/project"}},
		{name: "empty host", v: VolumeMount{HostPath: "  ", ContainerPath: "/project"}, wantErrs: []error{ErrInvalidHostFilesystemPath}},
		{name: "relative target", v: VolumeMount{HostPath: "/work", ContainerPath: "project"}, wantErrs: []error{ErrInvalidMountTargetPath}},
		{
			name:     "bad label and empty target",
			v:        VolumeMount{HostPath: "/work", SELinux: "q"},
			wantErrs: []error{ErrInvalidMountTargetPath, ErrInvalidSELinuxLabel},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.v.Validate()
			if len(tt.wantErrs) == 0 {
				if err != nil {
					t.Fatalf("Validate() = %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidVolumeMount) {
				t.Fatalf("Validate() = %v, want ErrInvalidVolumeMount", err)
			}
			for _, want := range tt.wantErrs {
				if !errors.Is(err, want) {
					t.Errorf("Validate() = %v, want it to wrap %v", err, want)
				}
			}
		})
	}
}

func TestVolumeMount_WithSELinuxLabel(t *testing.T) {
	t.Parallel()

	base := VolumeMount{HostPath: "/work", ContainerPath: "/project"}
	enforcing := func() bool { return true }
	permissive := func() bool { return false }

	if got := base.WithSELinuxLabel(enforcing).SELinux; got != SELinuxLabelShared {
		t.Errorf("enforcing: label = %q, want %q", got, SELinuxLabelShared)
	}
	if got := base.WithSELinuxLabel(permissive).SELinux; got != SELinuxLabelNone {
		t.Errorf("permissive: label = %q, want none", got)
	}
	if got := base.WithSELinuxLabel(nil).SELinux; got != SELinuxLabelNone {
		t.Errorf("nil check: label = %q, want none", got)
	}

	explicit := base
	explicit.SELinux = SELinuxLabelPrivate
	if got := explicit.WithSELinuxLabel(enforcing).SELinux; got != SELinuxLabelPrivate {
		t.Errorf("explicit label overwritten: %q", got)
	}
}
