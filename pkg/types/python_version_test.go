// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestPythonVersionValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     PythonVersion
		wantValid bool
	}{
		{name: "unset", value: "", wantValid: true},
		{name: "minor version", value: "3.12", wantValid: true},
		{name: "specifier", value: ">=3.11", wantValid: true},
		{name: "implementation request", value: "pypy@3.10", wantValid: true},
		{name: "embedded space", value: "3.12 --force", wantValid: false},
		{name: "newline", value: "3.12\n", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.value.Validate()
			if (err == nil) != tt.wantValid {
				t.Fatalf("PythonVersion(%q).Validate() error = %v, wantValid %v", tt.value, err, tt.wantValid)
			}
			if err != nil && !errors.Is(err, ErrInvalidPythonVersion) {
				t.Errorf("error does not wrap ErrInvalidPythonVersion: %v", err)
			}
		})
	}
}

func TestPythonVersionIsSet(t *testing.T) {
	t.Parallel()

	if PythonVersion("").IsSet() {
		t.Error("empty PythonVersion reports IsSet()")
	}
	if !PythonVersion("3.13").IsSet() {
		t.Error("PythonVersion(3.13).IsSet() = false")
	}
}
