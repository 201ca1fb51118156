package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// MissingCredentialsError reports required credential variables that are unset.
type MissingCredentialsError struct {
	Vars []string
}

func (e *MissingCredentialsError) Error() string {
	return fmt.Sprintf("missing credentials: set %s (environment or .env file)", strings.Join(e.Vars, " and "))
}

// ValidationError reports an invalid configuration value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

var safeName = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Validate checks the configuration. Credential problems are reported first
// as a *MissingCredentialsError; all other problems are joined *ValidationErrors.
func (c *Config) Validate() error {
	var missing []string
	if c.Console.Username == "" {
		missing = append(missing, "CLOUDERA_USER")
	}
	if c.Console.Password == "" {
		missing = append(missing, "CLOUDERA_PASSWORD")
	}
	if len(missing) > 0 {
		return &MissingCredentialsError{Vars: missing}
	}

	var errs []error
	invalid := func(field, format string, args ...any) {
		errs = append(errs, &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)})
	}

	if c.OutputDir == "" {
		invalid("output_dir", "must not be empty")
	}
	if _, err := regexp.Compile("(?i)" + c.Console.HealthButton); err != nil {
		invalid("console.health_button", "%v", err)
	}

	labels := make(map[string]bool, len(c.Targets))
	for i, t := range c.Targets {
		field := fmt.Sprintf("targets[%d]", i)
		switch {
		case t.Label == "":
			invalid(field+".label", "must not be empty")
		case !safeName.MatchString(t.Label):
			invalid(field+".label", "%q is not usable in a file name", t.Label)
		case labels[t.Label]:
			invalid(field+".label", "duplicate label %q", t.Label)
		}
		labels[t.Label] = true

		if err := checkURL(t.BaseURL); err != nil {
			invalid(field+".base_url", "%v", err)
		}
		switch t.Mode {
		case ModeFull:
			if t.ClusterID == "" {
				invalid(field+".cluster_id", "required for mode %q", ModeFull)
			}
		case ModeStatus:
		default:
			invalid(field+".mode", "unknown mode %q (want %q or %q)", t.Mode, ModeFull, ModeStatus)
		}
	}

	names := make(map[string]bool, len(c.Kibana.Panels))
	for i, p := range c.Kibana.Panels {
		field := fmt.Sprintf("kibana.panels[%d]", i)
		switch {
		case p.Name == "":
			invalid(field+".name", "must not be empty")
		case !safeName.MatchString(p.Name):
			invalid(field+".name", "%q is not usable in a file name", p.Name)
		case names[p.Name]:
			invalid(field+".name", "duplicate name %q", p.Name)
		}
		names[p.Name] = true

		if err := checkURL(p.URL); err != nil {
			invalid(field+".url", "%v", err)
		}
	}

	return errors.Join(errs...)
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q must be an absolute http(s) URL", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}
