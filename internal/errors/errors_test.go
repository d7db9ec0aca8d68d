package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestGetSuggestion(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nil error",
			err:  nil,
			want: "",
		},
		{
			name: "session expired sentinel",
			err:  ErrSessionExpired,
			want: "DJSYNC_TOKEN",
		},
		{
			name: "wrapped session expired",
			err:  fmt.Errorf("open stream: %w", ErrSessionExpired),
			want: "DJSYNC_TOKEN",
		},
		{
			name: "explicit suggestion wins",
			err:  WithSuggestion(ErrNetworkError, "try the backup server"),
			want: "try the backup server",
		},
		{
			name: "network string match",
			err:  fmt.Errorf("dial tcp: connection refused"),
			want: "internet connection",
		},
		{
			name: "unknown error",
			err:  fmt.Errorf("something odd"),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetSuggestion(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("GetSuggestion() = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("GetSuggestion() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestFormatIncludesSuggestion(t *testing.T) {
	out := Format(ErrSessionExpired)
	if !strings.Contains(out, "Error: session expired") {
		t.Errorf("Format() missing error text: %q", out)
	}
	if !strings.Contains(out, "Suggestion:") {
		t.Errorf("Format() missing suggestion: %q", out)
	}
}
