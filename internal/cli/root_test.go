package cli

import (
	"testing"

	"github.com/ralph-dev/ralph/internal/session"
)

func TestParseModeArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantMode string
		wantMax  int
		wantErr  bool
	}{
		{"no args", nil, session.ModeBuild, 0, false},
		{"plan", []string{"plan"}, session.ModePlan, 0, false},
		{"iterations", []string{"20"}, session.ModeBuild, 20, false},
		{"plan with iterations", []string{"plan", "5"}, session.ModePlan, 5, false},
		{"zero iterations", []string{"0"}, session.ModeBuild, 0, false},
		{"negative iterations", []string{"-3"}, "", 0, true},
		{"garbage", []string{"banana"}, "", 0, true},
		{"plan with garbage", []string{"plan", "x"}, "", 0, true},
		{"number then extra", []string{"5", "plan"}, "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, max, err := parseModeArgs(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if mode != tt.wantMode || max != tt.wantMax {
				t.Errorf("parseModeArgs(%v) = (%q, %d), want (%q, %d)", tt.args, mode, max, tt.wantMode, tt.wantMax)
			}
		})
	}
}
