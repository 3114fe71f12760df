package model

import (
	"errors"
	"fmt"
	"strings"
)

// ReferencePolicy governs the doctor -> hospital reference.
type ReferencePolicy string

// Reference policies.
const (
	// ReferenceSoft performs no existence check and no cascade. Doctors may
	// point at hospitals that were deleted.
	ReferenceSoft ReferencePolicy = "soft"
	// ReferenceReject requires the hospital to exist on doctor creation and
	// refuses to delete a hospital that doctors still reference.
	ReferenceReject ReferencePolicy = "reject"
	// ReferenceCascade requires the hospital to exist on doctor creation and
	// deletes referencing doctors together with the hospital.
	ReferenceCascade ReferencePolicy = "cascade"
)

// ErrInvalidReferencePolicy is returned for unknown policy names.
var ErrInvalidReferencePolicy = errors.New("invalid reference policy")

// ParseReferencePolicy parses a policy name. Empty means soft.
func ParseReferencePolicy(s string) (ReferencePolicy, error) {
	switch p := ReferencePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return ReferenceSoft, nil
	case ReferenceSoft, ReferenceReject, ReferenceCascade:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidReferencePolicy, s)
	}
}

// IsStrict reports whether the policy enforces hospital existence.
func (p ReferencePolicy) IsStrict() bool {
	return p == ReferenceReject || p == ReferenceCascade
}
