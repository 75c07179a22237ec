// Package message holds the message producing components of the demo application.
package message

import (
	"errors"
	"fmt"
	"strings"
)

// Settings is the part of the demo configuration the message components need.
type Settings struct {
	Greeting string
}

// Provider produces the greeting of the application.
type Provider interface {
	Message() string
}

// StaticProvider returns the configured greeting.
type StaticProvider struct {
	greeting string
}

func NewStaticProvider(s *Settings) (*StaticProvider, error) {
	greeting := strings.TrimSpace(s.Greeting)
	if greeting == "" {
		return nil, errors.New("greeting must not be empty")
	}
	return &StaticProvider{greeting: greeting}, nil
}

func (p *StaticProvider) Message() string {
	return p.greeting
}

// UsageService builds the lines the application prints from whatever Provider is available.
type UsageService struct {
	provider Provider
}

func NewUsageService(provider Provider) *UsageService {
	return &UsageService{provider: provider}
}

// Compose greets name, or the world when name is empty.
func (s *UsageService) Compose(name string) string {
	if name == "" {
		name = "world"
	}
	return fmt.Sprintf("%s, %s!", s.provider.Message(), name)
}
