package doctor

import (
	"testing"

	"dictate/config"
)

func TestCheckDispatch(t *testing.T) {
	if !checkDispatch(config.Default()) {
		t.Fatal("dispatch check failed")
	}
}

func TestCheckAuthorization(t *testing.T) {
	for _, tt := range []struct {
		status string
		answer string
		want   bool
	}{
		{"authorized", "denied", true},
		{"denied", "authorized", false},
		{"not_determined", "authorized", true},
		{"not_determined", "denied", false},
	} {
		t.Run(tt.status+"/"+tt.answer, func(t *testing.T) {
			cfg := config.Default()
			cfg.Auth.Status = tt.status
			cfg.Auth.Answer = tt.answer
			if got := checkAuthorization(cfg); got != tt.want {
				t.Errorf("checkAuthorization() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckClipboardSkipped(t *testing.T) {
	cfg := config.Default()
	cfg.Clipboard.Copy = false
	if !checkClipboard(cfg) {
		t.Error("disabled clipboard should be skipped, not failed")
	}
}
