package budget

import (
	"errors"
	"testing"
)

func TestMoney_String(t *testing.T) {
	testCases := []struct {
		m    Money
		want string
	}{
		{INR(1450), "₹1,450.00"},
		{INR(0.5), "₹0.50"},
		{M(1234.5, "USD"), "$1,234.50"},
		{M(12, "JPY"), "¥12"},
		{NO(3.14159), "3.14"},
	}
	for _, tc := range testCases {
		if got := tc.m.String(); got != tc.want {
			t.Errorf("%#v.String() = %q, want %q", tc.m.Decimal().String(), got, tc.want)
		}
	}
}

func TestMoney_Arithmetic(t *testing.T) {
	assertMoney(t, "add", INR(0.1).Add(INR(0.2)), INR(0.3))
	assertMoney(t, "sub", INR(10).Sub(INR(12.5)), INR(-2.5))
	if got := NO(5).Add(INR(1)).Currency(); got != "INR" {
		t.Errorf("currency of NO+INR = %q, want INR", got)
	}
	defer func() {
		if recover() == nil {
			t.Errorf("adding INR and EUR should panic")
		}
	}()
	INR(1).Add(M(1, "EUR"))
}

func TestParseAmount(t *testing.T) {
	testCases := []struct {
		in      string
		want    Money
		wantErr bool
	}{
		{in: "12.34", want: INR(12.34)},
		{in: " 12,5 ", want: INR(12.5)},
		{in: "0", want: INR(0)},
		{in: "1.005", want: INR(1.01)},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "-3", wantErr: true},
		{in: "1,000.50", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseAmount("amount", tc.in, "INR")
			if tc.wantErr {
				if !errors.Is(err, ErrInvalid) || Field(err) != "amount" {
					t.Errorf("ParseAmount(%q) error = %v, want an invalid amount", tc.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tc.in, err)
			}
			assertMoney(t, "amount", got, tc.want)
			if got.Currency() != "INR" {
				t.Errorf("currency = %q, want INR", got.Currency())
			}
		})
	}
}

func TestMoney_Percent(t *testing.T) {
	if got := INR(1).Percent(INR(3)).String(); got != "33.3" {
		t.Errorf("Percent() = %s, want 33.3", got)
	}
	if got := INR(1).Percent(INR(0)); !got.IsZero() {
		t.Errorf("Percent() of zero = %s, want 0", got)
	}
}

func TestValidation(t *testing.T) {
	testCases := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{"valid name", ValidateAccountName("Joint"), false},
		{"short name", ValidateAccountName("Jo"), true},
		{"long name", ValidateAccountName("abcdefghijabcdefghijabcdefghijabcdefghijabcdefghijk"), true},
		{"unicode name", ValidateAccountName("Épargne"), false},
		{"empty name", ValidateAccountName(""), true},
		{"valid number", ValidateAccountNumber("0042"), false},
		{"five digits", ValidateAccountNumber("12345"), true},
		{"arabic-indic digits", ValidateAccountNumber("١٢٣٤"), true},
		{"type", func() error { _, err := ParseAccountType("savings"); return err }(), false},
		{"unknown type", func() error { _, err := ParseAccountType("crypto"); return err }(), true},
		{"rule", func() error { _, err := ParseRuleKind("auto-transfer"); return err }(), false},
		{"unknown rule", func() error { _, err := ParseRuleKind("sweep"); return err }(), true},
	}
	for _, tc := range testCases {
		if (tc.err != nil) != tc.wantErr {
			t.Errorf("%s: error = %v, wantErr %v", tc.name, tc.err, tc.wantErr)
		}
		if tc.err != nil && !errors.Is(tc.err, ErrInvalid) {
			t.Errorf("%s: error %v does not wrap ErrInvalid", tc.name, tc.err)
		}
	}
}
