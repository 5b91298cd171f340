package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/holiman/uint256"
	"github.com/mezonai/tokencore/errors"
	"github.com/mezonai/tokencore/utils"
	"golang.org/x/text/unicode/norm"
)

var InjectionRegexp = BuildInjectionPatterns()

// BuildInjectionPatterns builds regexp for injection detection (case-insensitive)
func BuildInjectionPatterns() *regexp.Regexp {
	parts := make([]string, 0, len(InjectionPatterns))
	for _, pattern := range InjectionPatterns {
		pNorm := norm.NFC.String(pattern)
		parts = append(parts, regexp.QuoteMeta(pNorm))
	}
	// (?i) for case-insensitive
	return regexp.MustCompile("(?i)" + strings.Join(parts, "|"))
}

// ValidateAddress checks that an account identifier can be used as a key
// segment: non-empty, NFC-normalized, bounded, printable, and free of the
// key separator and whitespace.
func ValidateAddress(fieldName, addr string) error {
	if addr == "" {
		return errors.NewError(errors.ErrCodeInvalidRequest, fmt.Sprintf("%s is required", fieldName))
	}
	if !utf8.ValidString(addr) || norm.NFC.String(addr) != addr {
		return errors.NewError(errors.ErrCodeInvalidRequest, fmt.Sprintf("%s must be NFC-normalized UTF-8", fieldName))
	}
	if utf8.RuneCountInString(addr) > MaxAddressLength {
		return errors.NewError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("%s exceeds %d characters", fieldName, MaxAddressLength))
	}
	for _, r := range addr {
		if r == ':' || unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return errors.NewError(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("%s contains invalid character %q", fieldName, r))
		}
	}
	return nil
}

// ValidateAmount checks that amount is positive and within MaxAmount
func ValidateAmount(fieldName string, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return errors.NewError(errors.ErrCodeInvalidRequest, fmt.Sprintf("%s must be greater than zero", fieldName))
	}
	if amount.Gt(utils.MaxAmount) {
		return errors.NewError(errors.ErrCodeOverflow, fmt.Sprintf("%s exceeds maximum amount", fieldName))
	}
	return nil
}

// ValidateShortText validates display fields such as token name and symbol
func ValidateShortText(fieldName, fieldValue string) error {
	normalized := norm.NFC.String(fieldValue)

	if strings.TrimSpace(normalized) == "" {
		return errors.NewError(errors.ErrCodeInvalidRequest, fmt.Sprintf("%s is required", fieldName))
	}
	if utf8.RuneCountInString(normalized) > MaxShortTextLength {
		return errors.NewError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("%s exceeds %d characters", fieldName, MaxShortTextLength))
	}
	if InjectionRegexp.MatchString(normalized) {
		return errors.NewError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("%s contains invalid characters", fieldName))
	}
	return nil
}
