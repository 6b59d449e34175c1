package authz

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// MatchMode defines how required scopes are matched against granted ones.
type MatchMode string

const (
	// MatchAll passes only if every required scope is granted.
	MatchAll MatchMode = "all"
	// MatchAny passes if at least one required scope is granted.
	MatchAny MatchMode = "any"
)

var defaultScopeClaimPaths = []string{"scope", "scp"}

// ScopePolicy describes the scopes an API operation needs.
//
// The policy is disabled when RequiredScopes is empty.
// MatchMode defaults to "all"; unknown modes are normalized to "all" (fail-closed).
type ScopePolicy struct {
	RequiredScopes []string
	MatchMode      MatchMode
}

// ErrInsufficientScope indicates that the granted scopes do not cover an operation.
var ErrInsufficientScope = errors.New("authz: insufficient scope")

// MissingScopesError carries the scopes a token lacks for an operation.
type MissingScopesError struct {
	Missing []string
	Granted []string
}

// Error returns a concise authorization error message.
func (e *MissingScopesError) Error() string {
	if len(e.Missing) == 0 {
		return ErrInsufficientScope.Error()
	}
	return fmt.Sprintf("authz: missing required scopes %v", e.Missing)
}

// Is enables errors.Is(err, ErrInsufficientScope).
func (e *MissingScopesError) Is(target error) bool {
	return target == ErrInsufficientScope
}

// Evaluator checks granted scopes against a ScopePolicy.
type Evaluator struct {
	required []string
	mode     MatchMode
}

// NewEvaluator creates a policy evaluator with normalized defaults.
func NewEvaluator(policy ScopePolicy) *Evaluator {
	return &Evaluator{
		required: normalizeValues(policy.RequiredScopes),
		mode:     normalizeMatchMode(policy.MatchMode),
	}
}

// Enabled reports whether this policy performs any check.
func (e *Evaluator) Enabled() bool {
	return len(e.required) > 0
}

// Authorize evaluates the policy against the granted scopes.
// Each granted entry may itself hold several space-separated scopes.
func (e *Evaluator) Authorize(granted []string) error {
	if !e.Enabled() {
		return nil
	}

	available := normalizeValues(extractClaimValues(granted))
	missing := matchRequired(e.required, toSet(available), e.mode)
	if len(missing) == 0 {
		return nil
	}

	return &MissingScopesError{
		Missing: missing,
		Granted: available,
	}
}

// Evaluate is a convenience function for one-off scope checks.
func Evaluate(policy ScopePolicy, granted []string) error {
	return NewEvaluator(policy).Authorize(granted)
}

// Require is shorthand for an all-of policy over the given scopes.
func Require(scopes ...string) ScopePolicy {
	return ScopePolicy{RequiredScopes: scopes, MatchMode: MatchAll}
}

// ParseScopes splits a space-delimited OAuth2 scope string into unique scopes.
func ParseScopes(scope string) []string {
	return normalizeValues(strings.Fields(scope))
}

// DefaultScopeClaimPaths returns a copy of the default scope claim paths.
func DefaultScopeClaimPaths() []string {
	paths := make([]string, len(defaultScopeClaimPaths))
	copy(paths, defaultScopeClaimPaths)
	return paths
}

// ScopesFromClaims collects the scopes held in token claims.
//
// Paths may be dotted ("realm_access.scopes"); when none are given the standard
// "scope" and "scp" claims are read. Claim values may be space-delimited strings,
// arrays, or objects whose keys are scope names.
func ScopesFromClaims(claims map[string]any, paths ...string) []string {
	if len(claims) == 0 {
		return nil
	}
	paths = normalizeValues(paths)
	if len(paths) == 0 {
		paths = defaultScopeClaimPaths
	}

	values := make([]string, 0)
	for _, path := range paths {
		claim, ok := resolveClaimPath(claims, path)
		if !ok {
			continue
		}
		values = append(values, extractClaimValues(claim)...)
	}

	return normalizeValues(values)
}

func normalizeMatchMode(mode MatchMode) MatchMode {
	switch strings.ToLower(strings.TrimSpace(string(mode))) {
	case string(MatchAny):
		return MatchAny
	default:
		return MatchAll
	}
}

func normalizeValues(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	result := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		normalized := strings.TrimSpace(value)
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		result = append(result, normalized)
	}

	if len(result) == 0 {
		return nil
	}

	return result
}

func resolveClaimPath(claims map[string]any, path string) (any, bool) {
	var current any = claims
	for _, segment := range strings.Split(path, ".") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			return nil, false
		}

		next, ok := mapLookup(current, segment)
		if !ok {
			return nil, false
		}
		current = next
	}

	return current, true
}

func mapLookup(value any, key string) (any, bool) {
	if typed, ok := value.(map[string]any); ok {
		found, exists := typed[key]
		return found, exists
	}

	rv := reflect.ValueOf(value)
	if !rv.IsValid() || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}

	mapValue := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
	if !mapValue.IsValid() {
		return nil, false
	}

	return mapValue.Interface(), true
}

func extractClaimValues(value any) []string {
	switch typed := value.(type) {
	case string:
		return strings.Fields(typed)
	case []string:
		result := make([]string, 0, len(typed))
		for _, item := range typed {
			result = append(result, strings.Fields(item)...)
		}
		return result
	case []any:
		result := make([]string, 0, len(typed))
		for _, item := range typed {
			result = append(result, extractClaimValues(item)...)
		}
		return result
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, strings.TrimSpace(key))
		}
		sort.Strings(keys)
		return keys
	}

	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		return nil
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		result := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			result = append(result, extractClaimValues(rv.Index(i).Interface())...)
		}
		return result
	default:
		return nil
	}
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		set[value] = struct{}{}
	}
	return set
}

func matchRequired(required []string, available map[string]struct{}, mode MatchMode) []string {
	if mode == MatchAny {
		for _, value := range required {
			if _, ok := available[value]; ok {
				return nil
			}
		}
		missing := make([]string, len(required))
		copy(missing, required)
		return missing
	}

	missing := make([]string, 0, len(required))
	for _, value := range required {
		if _, ok := available[value]; !ok {
			missing = append(missing, value)
		}
	}

	return missing
}
