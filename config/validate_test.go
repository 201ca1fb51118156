package config

import (
	"errors"
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.Console.Username = "admin"
	cfg.Console.Password = "secret"
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("expected built-in config to validate, got %v", err)
	}
}

func TestValidate_Targets(t *testing.T) {
	tests := []struct {
		name   string
		target Target
		field  string
	}{
		{"empty label", Target{BaseURL: "http://h:1", Mode: ModeStatus}, "targets[0].label"},
		{"unsafe label", Target{Label: "a/b", BaseURL: "http://h:1", Mode: ModeStatus}, "targets[0].label"},
		{"relative url", Target{Label: "a", BaseURL: "/cmf", Mode: ModeStatus}, "targets[0].base_url"},
		{"ftp url", Target{Label: "a", BaseURL: "ftp://h", Mode: ModeStatus}, "targets[0].base_url"},
		{"full without cluster", Target{Label: "a", BaseURL: "http://h:1", Mode: ModeFull}, "targets[0].cluster_id"},
		{"unknown mode", Target{Label: "a", BaseURL: "http://h:1", Mode: "partial"}, "targets[0].mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Targets = []Target{tt.target}

			err := cfg.Validate()
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, ve.Field)
			}
		})
	}
}

func TestValidate_DuplicateLabels(t *testing.T) {
	cfg := validConfig()
	cfg.Targets = []Target{
		{Label: "a", BaseURL: "http://h:1", Mode: ModeStatus},
		{Label: "a", BaseURL: "http://h:2", Mode: ModeStatus},
	}

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "duplicate label") {
		t.Errorf("expected duplicate label error, got %v", err)
	}
}

func TestValidate_Panels(t *testing.T) {
	cfg := validConfig()
	cfg.Kibana.Panels = []Panel{
		{Name: "heap", URL: "http://k:5601/app"},
		{Name: "heap", URL: "not a url"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected panel errors")
	}
	msg := err.Error()
	if !strings.Contains(msg, "duplicate name") {
		t.Errorf("expected duplicate name error, got %s", msg)
	}
	if !strings.Contains(msg, "kibana.panels[1].url") {
		t.Errorf("expected url error for second panel, got %s", msg)
	}
}

func TestValidate_BadButtonPattern(t *testing.T) {
	cfg := validConfig()
	cfg.Console.HealthButton = "Organi(.*"

	var ve *ValidationError
	if err := cfg.Validate(); !errors.As(err, &ve) || ve.Field != "console.health_button" {
		t.Errorf("expected health_button validation error, got %v", err)
	}
}

func TestValidate_CredentialsCheckedFirst(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Targets = []Target{{}}

	var mce *MissingCredentialsError
	if err := cfg.Validate(); !errors.As(err, &mce) {
		t.Errorf("expected MissingCredentialsError, got %v", err)
	}
}
