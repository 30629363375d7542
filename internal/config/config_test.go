package config

import (
	"os"
	"testing"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"set value wins", "UNTPREP_TEST_STR", "redis://localhost:6379", "fallback", "redis://localhost:6379"},
		{"unset falls back", "UNTPREP_TEST_STR_UNSET", "", "fallback", "fallback"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			if got := getEnvOrDefault(tc.key, tc.defaultVal); got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses concurrency limit", "UNTPREP_TEST_INT", "8", 5, 8},
		{"unset falls back", "UNTPREP_TEST_INT_UNSET", "", 5, 5},
		{"garbage falls back", "UNTPREP_TEST_INT_BAD", "many", 5, 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			if got := getEnvAsIntOrDefault(tc.key, tc.defaultVal); got != tc.expected {
				t.Errorf("expected %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestMustGetEnvPanicsWhenMissing(t *testing.T) {
	os.Unsetenv("UNTPREP_TEST_REQUIRED")

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for missing required variable")
		}
	}()
	mustGetEnv("UNTPREP_TEST_REQUIRED")
}

func TestMustGetEnv(t *testing.T) {
	os.Setenv("UNTPREP_TEST_REQUIRED", "secret")
	defer os.Unsetenv("UNTPREP_TEST_REQUIRED")

	if got := mustGetEnv("UNTPREP_TEST_REQUIRED"); got != "secret" {
		t.Errorf("expected %q, got %q", "secret", got)
	}
}
