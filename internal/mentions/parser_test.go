package mentions

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single mention",
			text: "hello @bob",
			want: []string{"bob"},
		},
		{
			name: "multiple mentions in order",
			text: "@alice check this out with @bob and @carol",
			want: []string{"alice", "bob", "carol"},
		},
		{
			name: "duplicates preserved",
			text: "hi @bob @bob @alice",
			want: []string{"bob", "bob", "alice"},
		},
		{
			name: "punctuation ends the token",
			text: "thanks @bob! and @alice, see you",
			want: []string{"bob", "alice"},
		},
		{
			name: "underscore and digits allowed",
			text: "ping @user_42 about it",
			want: []string{"user_42"},
		},
		{
			name: "bare at sign ignored",
			text: "meet @ noon",
			want: []string{},
		},
		{
			name: "no mentions",
			text: "nothing to see here",
			want: []string{},
		},
		{
			name: "empty text",
			text: "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseIsDeterministic(t *testing.T) {
	text := "@a @b @a @c"
	first := Parse(text)
	for i := 0; i < 10; i++ {
		if got := Parse(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("Parse not deterministic: %v vs %v", got, first)
		}
	}
}
