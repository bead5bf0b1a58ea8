package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{
		Field:   "test.field",
		Value:   123,
		Message: "must be greater than zero",
	}

	expected := "test.field: must be greater than zero (got: 123)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Run("empty errors", func(t *testing.T) {
		var errs ValidationErrors
		if errs.Error() != "" {
			t.Errorf("Error() for empty = %q, want empty string", errs.Error())
		}
	})

	t.Run("single error", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "test.field", Value: 123, Message: "is invalid"},
		}
		expected := "test.field: is invalid (got: 123)"
		if errs.Error() != expected {
			t.Errorf("Error() = %q, want %q", errs.Error(), expected)
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "field1", Value: "bad", Message: "is invalid"},
			{Field: "field2", Value: -1, Message: "must be positive"},
		}
		result := errs.Error()
		if !strings.Contains(result, "2 validation errors") {
			t.Errorf("Error() should mention 2 errors: %s", result)
		}
		if !strings.Contains(result, "field1") || !strings.Contains(result, "field2") {
			t.Errorf("Error() should mention both fields: %s", result)
		}
	})
}

func TestConfig_Validate_DefaultConfig(t *testing.T) {
	cfg := Default()
	errs := cfg.Validate()
	if len(errs) != 0 {
		t.Errorf("Default config should be valid, got errors: %v", errs)
	}
}

func TestConfig_Validate_Logging(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{"valid name", func(c *Config) { c.Logging.Name = "Disk Probe v2" }, ""},
		{"name with slash", func(c *Config) { c.Logging.Name = "a/b" }, "logging.name"},
		{"name with backslash", func(c *Config) { c.Logging.Name = `a\b` }, "logging.name"},
		{"name is dot-dot", func(c *Config) { c.Logging.Name = ".." }, "logging.name"},
		{"existing dir", func(c *Config) { c.Logging.Dir = t.TempDir() }, ""},
		{"missing dir is accepted", func(c *Config) { c.Logging.Dir = filepath.Join(t.TempDir(), "later") }, ""},
		{"dir is a file", func(c *Config) { c.Logging.Dir = file }, "logging.dir"},
		{"empty module", func(c *Config) { c.Logging.Module = "  " }, "logging.module"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assertSingleFieldError(t, cfg.Validate(), tt.wantField)
		})
	}
}

func TestConfig_Validate_Output(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{"color always", func(c *Config) { c.Output.Color = "always" }, ""},
		{"color never", func(c *Config) { c.Output.Color = "never" }, ""},
		{"invalid color", func(c *Config) { c.Output.Color = "rainbow" }, "output.color"},
		{"json format", func(c *Config) { c.Output.Format = "json" }, ""},
		{"invalid format", func(c *Config) { c.Output.Format = "xml" }, "output.format"},
		{"zero tail", func(c *Config) { c.Output.Tail = 0 }, ""},
		{"negative tail", func(c *Config) { c.Output.Tail = -5 }, "output.tail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assertSingleFieldError(t, cfg.Validate(), tt.wantField)
		})
	}
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := Default()
	cfg.Output.Color = "rainbow"
	cfg.Output.Format = "xml"
	cfg.Output.Tail = -1

	errs := cfg.Validate()
	if len(errs) != 3 {
		t.Errorf("expected 3 errors, got %d: %v", len(errs), errs)
	}
}

// assertSingleFieldError checks that errs is empty when wantField is empty,
// or holds exactly one error for wantField otherwise.
func assertSingleFieldError(t *testing.T, errs []ValidationError, wantField string) {
	t.Helper()
	if wantField == "" {
		if len(errs) != 0 {
			t.Errorf("expected no errors, got %v", errs)
		}
		return
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	if errs[0].Field != wantField {
		t.Errorf("error field = %q, want %q", errs[0].Field, wantField)
	}
}
