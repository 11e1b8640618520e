package policy

import (
	"fmt"
	"strings"

	"github.com/leafline-ai/leafline-backend/pkg/config"
	pkgerrors "github.com/leafline-ai/leafline-backend/pkg/errors"
)

// Policy is the immutable compliance configuration: the minimum purchase age
// and the whitelist of product categories. It is constructed once at startup
// and injected everywhere a catalog read or write needs restricting.
type Policy struct {
	minimumAge int
	allowed    []string
	allowedSet map[string]struct{}
}

// New validates and normalizes the configured policy.
func New(cfg config.PolicyConfig) (*Policy, error) {
	if cfg.MinimumAge <= 0 {
		return nil, fmt.Errorf("policy minimum age must be positive")
	}

	allowed := make([]string, 0, len(cfg.AllowedCategories))
	allowedSet := make(map[string]struct{}, len(cfg.AllowedCategories))
	for _, raw := range cfg.AllowedCategories {
		category := strings.ToLower(strings.TrimSpace(raw))
		if category == "" {
			continue
		}
		if _, ok := allowedSet[category]; ok {
			continue
		}
		allowed = append(allowed, category)
		allowedSet[category] = struct{}{}
	}
	if len(allowed) == 0 {
		return nil, fmt.Errorf("policy requires at least one allowed category")
	}

	return &Policy{
		minimumAge: cfg.MinimumAge,
		allowed:    allowed,
		allowedSet: allowedSet,
	}, nil
}

// MinimumAge returns the configured minimum purchase age.
func (p *Policy) MinimumAge() int {
	return p.minimumAge
}

// Categories returns a copy of the allowed category whitelist.
func (p *Policy) Categories() []string {
	out := make([]string, len(p.allowed))
	copy(out, p.allowed)
	return out
}

// Allows reports whether the category is whitelisted.
func (p *Policy) Allows(category string) bool {
	_, ok := p.allowedSet[strings.ToLower(strings.TrimSpace(category))]
	return ok
}

// Narrow resolves a requested category filter against the whitelist. An empty
// request means the whole allowed set; a disallowed request is an explicit
// client error rather than a silent empty result.
func (p *Policy) Narrow(requested string) ([]string, error) {
	requested = strings.ToLower(strings.TrimSpace(requested))
	if requested == "" {
		return p.Categories(), nil
	}
	if !p.Allows(requested) {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCategory, "category not allowed by policy").
			WithDetails(map[string]any{"category": requested, "allowed": p.Categories()})
	}
	return []string{requested}, nil
}

// DTO is the public policy payload.
type DTO struct {
	MinimumAge        int      `json:"minimum_age"`
	AllowedCategories []string `json:"allowed_categories"`
}

// DTO builds the response payload for the policy endpoint.
func (p *Policy) DTO() DTO {
	return DTO{
		MinimumAge:        p.minimumAge,
		AllowedCategories: p.Categories(),
	}
}
