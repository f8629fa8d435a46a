// internal/auth/checker_test.go
package auth

import "testing"

func TestClassifyURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://accounts.google.com/signin/v2/identifier", false},
		{"https://accounts.google.com/v3/signin/identifier?flowName=WebLiteSignIn", false},
		{"https://myaccount.google.com/", true},
		{"https://myaccount.google.com/?utm_source=sign_in_no_continue", true},
		{"https://accounts.google.com/o/oauth2/auth?client_id=x", true},
		{"https://accounts.google.com/ManageAccount", true},
		{"https://www.google.com/", true},
		{"https://business.google.com/photos", true},
	}
	for _, tt := range tests {
		if got := classifyURL(tt.url); got != tt.want {
			t.Errorf("classifyURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestMatchesPostLogin(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://myaccount.google.com/", true},
		{"https://accounts.google.com/signin/signinchooser?continue=x", true},
		{"https://accounts.google.com/ManageAccount", true},
		{"https://www.google.com/", true},
		{"https://mail.google.com/mail/u/0/", true},
		{"https://accounts.google.com/signin/v2/identifier", false},
		{"https://accounts.google.com/signin/v2/challenge/pwd", false},
	}
	for _, tt := range tests {
		if got := matchesPostLogin(tt.url); got != tt.want {
			t.Errorf("matchesPostLogin(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
