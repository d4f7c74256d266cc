package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWords(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"accountNumber", []string{"account", "number"}},
		{"AccountNumber", []string{"account", "number"}},
		{"BANK_CODE", []string{"bank", "code"}},
		{"bank-code", []string{"bank", "code"}},
		{"MTI", []string{"mti"}},
		{"MTIVersion", []string{"mti", "version"}},
		{"track2Data", []string{"track2", "data"}},
		{`balances["EUR"].amount`, []string{"balances", "eur", "amount"}},
		{"transactions[0..9]", []string{"transactions", "0", "9"}},
		{"größeFeld", []string{"größe", "feld"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Words(tt.input))
		})
	}
}

func TestNormalize(t *testing.T) {
	for _, s := range []string{"bankCode", "BankCode", "bank_code", "BANK CODE"} {
		assert.Equal(t, "bankcode", Normalize(s), s)
	}
}

func TestStem(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"bankCode", "bank"},
		{"accountNumber", "account"},
		{"accountNo", "account"},
		{"countryCode", "country"},
		{"code", "code"},
		{"checkDigits", "checkdigits"},
		{"recordTypeCode", "recordtype"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Stem(tt.input))
		})
	}
}
