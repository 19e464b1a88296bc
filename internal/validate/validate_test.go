package validate

import (
	"strings"
	"testing"
)

func TestUsername(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "theo_42", false},
		{"empty", "", true},
		{"uppercase", "Theo", true},
		{"space", "the o", true},
		{"too long", strings.Repeat("a", MaxUsernameLen+1), true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := Username(c.input)
			if (err != nil) != c.wantErr {
				t.Errorf("Username(%q) = %v, want error: %t", c.input, err, c.wantErr)
			}
		})
	}
}

func TestPostContent(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "hello", false},
		{"empty", "", true},
		{"exactly max runes", strings.Repeat("é", 10), false},
		{"over max runes", strings.Repeat("é", 11), true},
		{"null", "a\x00b", true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := PostContent(c.input, 10)
			if (err != nil) != c.wantErr {
				t.Errorf("PostContent(%q) = %v, want error: %t", c.input, err, c.wantErr)
			}
		})
	}
}

func TestProfileImage(t *testing.T) {
	cases := []struct {
		input   string
		wantErr bool
	}{
		{"", false},
		{"https://img.example.com/a.png", false},
		{"http://img.example.com/a.png", false},
		{"javascript:alert(1)", true},
		{"/relative.png", true},
	}

	for _, c := range cases {
		if err := ProfileImage(c.input); (err != nil) != c.wantErr {
			t.Errorf("ProfileImage(%q) = %v, want error: %t", c.input, err, c.wantErr)
		}
	}
}

func TestSignUpForm(t *testing.T) {
	if err := SignUpForm("theo", "longenough", "theo@example.com", ""); err != nil {
		t.Errorf("unexpected error: %s", err)
	}

	err := SignUpForm("", "short", "not an email", "")
	if err == nil {
		t.Fatal("expected an error")
	}
	for _, want := range []string{"empty username", "password too short"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %q", want, err)
		}
	}
}
