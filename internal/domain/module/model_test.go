package module

import "testing"

// TestModule_Validate tests validation of Module.
func TestModule_Validate(t *testing.T) {
	tests := []struct {
		name    string
		module  Module
		wantErr error
	}{
		{"valid", Module{Name: "Basics", CourseID: "c1"}, nil},
		{"blank name", Module{Name: " \t", CourseID: "c1"}, ErrEmptyName},
		{"missing course", Module{Name: "Basics"}, ErrEmptyCourseID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.module.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestParsePaidFlag tests checkbox interpretation.
func TestParsePaidFlag(t *testing.T) {
	cases := map[string]bool{"on": true, "": false, "true": false, "off": false}
	for in, want := range cases {
		if got := ParsePaidFlag(in); got != want {
			t.Errorf("ParsePaidFlag(%q) = %v, want %v", in, got, want)
		}
	}
}

// TestModule_ValidateFields verifies the parent course is not required.
func TestModule_ValidateFields(t *testing.T) {
	if err := (&Module{Name: "Basics"}).ValidateFields(); err != nil {
		t.Errorf("ValidateFields() = %v, want nil", err)
	}
	if err := (&Module{Name: "", CourseID: "c1"}).ValidateFields(); err != ErrEmptyName {
		t.Errorf("ValidateFields() = %v, want %v", err, ErrEmptyName)
	}
}
