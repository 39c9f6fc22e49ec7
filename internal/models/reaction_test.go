package models

import "testing"

func TestParseReactionType(t *testing.T) {
	tests := []struct {
		input   string
		want    ReactionType
		wantErr bool
	}{
		{input: "LIKE", want: ReactionLike},
		{input: "LOVE", want: ReactionLove},
		{input: "HAHA", want: ReactionHaha},
		{input: "WOW", want: ReactionWow},
		{input: "SAD", want: ReactionSad},
		{input: "ANGRY", want: ReactionAngry},
		{input: "like", want: ReactionLike},
		{input: " wow ", want: ReactionWow},
		{input: "THUMBSUP", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseReactionType(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseReactionType(%q) expected error, got %q", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseReactionType(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseReactionType(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
