package validator

import "testing"

type leadInput struct {
	ID     string `validate:"required"`
	Source string `validate:"lead_source_tag"`
	Status string `validate:"lead_status"`
}

func TestCustomTags(t *testing.T) {
	val := New()

	tests := []struct {
		name    string
		input   leadInput
		wantErr bool
	}{
		{"valid", leadInput{ID: "1", Source: "LinkedIn", Status: "HOT"}, false},
		{"empty status allowed", leadInput{ID: "1", Source: "Directory"}, false},
		{"unknown status", leadInput{ID: "1", Source: "LinkedIn", Status: "WARM"}, true},
		{"multi word source", leadInput{ID: "1", Source: "Trade Show"}, false},
		{"padded source", leadInput{ID: "1", Source: " LinkedIn"}, true},
		{"missing source", leadInput{ID: "1"}, true},
		{"missing id", leadInput{Source: "LinkedIn"}, true},
	}

	for _, tc := range tests {
		err := val.Struct(tc.input)
		if tc.wantErr && err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
	}
}
