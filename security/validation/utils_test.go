package validation

import (
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/mezonai/tokencore/errors"
	"github.com/mezonai/tokencore/utils"
)

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		name     string
		address  string
		wantErr  bool
		wantCode errors.ErrorCode
	}{
		{name: "valid", address: "mezon1qz8x", wantErr: false},
		{name: "base58 key", address: "7Np41oeYqPefeNQEHSv1UDhYrehxin3NStELsSKCT4K2", wantErr: false},
		{name: "empty", address: "", wantErr: true, wantCode: errors.ErrCodeInvalidRequest},
		{name: "key separator", address: "alice:bob", wantErr: true, wantCode: errors.ErrCodeInvalidRequest},
		{name: "whitespace", address: "alice bob", wantErr: true, wantCode: errors.ErrCodeInvalidRequest},
		{name: "control char", address: "alice\x00", wantErr: true, wantCode: errors.ErrCodeInvalidRequest},
		{name: "not NFC", address: "cafe\u0301", wantErr: true, wantCode: errors.ErrCodeInvalidRequest},
		{name: "too long", address: strings.Repeat("a", MaxAddressLength+1), wantErr: true, wantCode: errors.ErrCodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAddress(AddressField, tt.address)

			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			if err == nil {
				t.Fatalf("expected error, got nil")
			}
			if code := errors.CodeOf(err); code != tt.wantCode {
				t.Fatalf("expected code %s, got %s", tt.wantCode, code)
			}
		})
	}
}

func TestValidateAmount(t *testing.T) {
	tooBig := new(uint256.Int).AddUint64(utils.MaxAmount, 1)

	tests := []struct {
		name     string
		amount   *uint256.Int
		wantCode errors.ErrorCode
	}{
		{name: "valid", amount: uint256.NewInt(1)},
		{name: "max", amount: utils.MaxAmount},
		{name: "nil", amount: nil, wantCode: errors.ErrCodeInvalidRequest},
		{name: "zero", amount: uint256.NewInt(0), wantCode: errors.ErrCodeInvalidRequest},
		{name: "above max", amount: tooBig, wantCode: errors.ErrCodeOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAmount(AmountField, tt.amount)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error, got nil")
			}
			if code := errors.CodeOf(err); code != tt.wantCode {
				t.Fatalf("expected code %s, got %s", tt.wantCode, code)
			}
		})
	}
}

func TestValidateShortText(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid", "Mezon Token", false},
		{"empty", "   ", true},
		{"injection pattern", "token {{ alert(1) }}", true},
		{"too long", strings.Repeat("x", MaxShortTextLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateShortText(NameField, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateShortText(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}
