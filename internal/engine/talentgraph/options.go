package talentgraph

import (
	"strings"

	"github.com/KirkDiggler/talent-api/internal/entities/talents"
	"github.com/KirkDiggler/talent-api/internal/errors"
)

// Policy decides how a live payload is reconciled with the static dataset.
type Policy string

const (
	// PolicyLive trusts the live tab and talent IDs. The static dataset only
	// supplies missing visuals and empty trees.
	PolicyLive Policy = "live"

	// PolicyWhitelist keeps only talents whose names already exist in the
	// static dataset and files them under the static tree.
	PolicyWhitelist Policy = "whitelist"
)

// ParsePolicy reads a policy name; an empty name selects PolicyLive.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyLive:
		return PolicyLive, nil
	case PolicyWhitelist:
		return PolicyWhitelist, nil
	default:
		return "", errors.InvalidArgumentf("unknown build policy %q", s)
	}
}

type options struct {
	classMask int
	static    talents.TalentData
	policy    Policy
}

// Option configures a Build call.
type Option func(*options)

// WithClassMask restricts tabs to those whose class mask overlaps mask.
func WithClassMask(mask int) Option {
	return func(o *options) {
		o.classMask = mask
	}
}

// WithStatic supplies the bundled dataset used for visuals, empty trees and
// whitelisting.
func WithStatic(data talents.TalentData) Option {
	return func(o *options) {
		o.static = data
	}
}

// WithPolicy selects the reconciliation policy.
func WithPolicy(p Policy) Option {
	return func(o *options) {
		if p != "" {
			o.policy = p
		}
	}
}
