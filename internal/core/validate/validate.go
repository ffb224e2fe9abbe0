// Package validate provides shared validation functions.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/hay-kot/criterio"
)

// colorPattern restricts highlight colors to values safe inside a style attribute.
var colorPattern = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|[a-zA-Z]+|rgba?\([0-9., %]+\)|hsla?\([0-9., %deg]+\))$`)

// Required validates a value is non-empty after trimming whitespace.
func Required(v string) error {
	if strings.TrimSpace(v) == "" {
		return errors.New("cannot be empty")
	}
	return nil
}

// OneOf returns a validator accepting only the allowed values.
func OneOf(allowed ...string) func(string) error {
	return func(v string) error {
		if slices.Contains(allowed, v) {
			return nil
		}
		return fmt.Errorf("must be one of %s, got %q", strings.Join(allowed, ", "), v)
	}
}

// IsColor reports whether c is a CSS color accepted for highlights: a hex
// value, a color keyword, or an rgb/hsl function.
func IsColor(c string) bool { return colorPattern.MatchString(c) }

// Color validates an optional highlight color. Empty means the default.
func Color(c string) error {
	if c == "" || IsColor(c) {
		return nil
	}
	return fmt.Errorf("invalid color %q", c)
}

// CSSLength accepts plain lengths like "300px", "25%" or "20rem".
func CSSLength(v string) error {
	if v == "" || strings.ContainsAny(v, `;"'<>(){}`) {
		return fmt.Errorf("invalid CSS width %q", v)
	}
	return nil
}

// IntBetween returns a validator for decimal input in [low, high].
func IntBetween(low, high int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return errors.New("must be a number")
		}
		if n < low || n > high {
			return fmt.Errorf("must be between %d and %d", low, high)
		}
		return nil
	}
}

// ColorField returns a criterio validator for a highlight color.
func ColorField(field, c string) error {
	return criterio.Run(field, c, Color)
}
