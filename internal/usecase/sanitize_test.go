package usecase

import "testing"

func TestStripReasoning(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "leading think block",
			in:   "<think>Let me reason about this.</think>\n\nThe statute applies.",
			want: "The statute applies.",
		},
		{
			name: "multiline think block",
			in:   "<think>line one\nline two\n\nline three</think>Answer.",
			want: "Answer.",
		},
		{
			name: "multiple think blocks",
			in:   "<think>a</think>First.<think>b</think> Second.",
			want: "First. Second.",
		},
		{
			name: "no think block",
			in:   "  Plain answer.  ",
			want: "Plain answer.",
		},
		{
			name: "only think block",
			in:   "<think>nothing else</think>",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripReasoning(tt.in); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
