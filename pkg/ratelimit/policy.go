package ratelimit

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Policy names a limit for one abuse scope.
type Policy struct {
	// MaxAttempts is the number of attempts allowed inside the window.
	MaxAttempts int `yaml:"max_attempts"`
	// Decay is the sliding window length.
	Decay time.Duration `yaml:"decay"`
}

func (p Policy) validate(name string) error {
	if p.MaxAttempts <= 0 {
		return fmt.Errorf("%w: policy %q", ErrInvalidLimit, name)
	}
	if p.Decay <= 0 {
		return fmt.Errorf("%w: policy %q", ErrInvalidWindow, name)
	}
	return nil
}

// Policies maps abuse-scope names (e.g. "password_reset") to their limits.
type Policies map[string]Policy

// Get returns the named policy or ErrPolicyNotFound.
func (ps Policies) Get(name string) (Policy, error) {
	p, ok := ps[name]
	if !ok {
		return Policy{}, fmt.Errorf("%w: %q", ErrPolicyNotFound, name)
	}
	return p, nil
}

// LoadPolicies reads a YAML policy file of the form:
//
//	password_reset:
//	  max_attempts: 5
//	  decay: 1h
//	login:
//	  max_attempts: 10
//	  decay: 5m
func LoadPolicies(path string) (Policies, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePolicies(data)
}

// ParsePolicies decodes and validates YAML policy data.
func ParsePolicies(data []byte) (Policies, error) {
	var ps Policies
	if err := yaml.Unmarshal(data, &ps); err != nil {
		return nil, errors.Join(errors.New("ratelimit: invalid policy file"), err)
	}

	for name, p := range ps {
		if err := p.validate(name); err != nil {
			return nil, err
		}
	}
	return ps, nil
}
