package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		email string
		ok    bool
	}{
		{"alice@example.com", true},
		{"a.b+tag@sub.example.co", true},
		{" alice@example.com ", true},
		{"", false},
		{"alice", false},
		{"alice@example", false},
		{"alice example@x.com", false},
		{"@example.com", false},
	}
	for _, tc := range tests {
		err := Email(tc.email)
		if tc.ok {
			assert.NoError(t, err, tc.email)
		} else {
			assert.ErrorIs(t, err, ErrEmailInvalid, tc.email)
		}
	}
}

func TestPassword(t *testing.T) {
	tests := []struct {
		password string
		want     error
	}{
		{"Secret1!", nil},
		{"Secret1@", nil},
		{"Aa1$aaaa", nil},
		{"Sh0rt@", ErrPasswordWeak},          // too short
		{"alllower1@", ErrPasswordWeak},      // no uppercase
		{"ALLUPPER1@", ErrPasswordWeak},      // no lowercase
		{"NoDigits@@", ErrPasswordWeak},      // no digit
		{"NoSpecial11", ErrPasswordWeak},     // no special
		{"Spaces 1@Aa", ErrPasswordUnsafe},   // space not allowed
		{"Hyphen-1@Aa", ErrPasswordUnsafe},   // '-' not in the set
	}
	for _, tc := range tests {
		err := Password(tc.password)
		if tc.want == nil {
			assert.NoError(t, err, tc.password)
		} else {
			assert.ErrorIs(t, err, tc.want, tc.password)
		}
	}
}

func TestName(t *testing.T) {
	assert.NoError(t, Name("Al"))
	assert.NoError(t, Name("Alice Smith"))
	assert.ErrorIs(t, Name(""), ErrNameRequired)
	assert.ErrorIs(t, Name("A"), ErrNameRequired)
	assert.ErrorIs(t, Name("   "), ErrNameRequired)
}

func TestMobile(t *testing.T) {
	assert.NoError(t, Mobile("9876543210"))
	assert.ErrorIs(t, Mobile("987654321"), ErrMobileInvalid)
	assert.ErrorIs(t, Mobile("98765432100"), ErrMobileInvalid)
	assert.ErrorIs(t, Mobile("98765abc10"), ErrMobileInvalid)
	assert.ErrorIs(t, Mobile("+919876543210"), ErrMobileInvalid)
}

func TestAmount(t *testing.T) {
	assert.NoError(t, Amount(0.01))
	assert.NoError(t, Amount(125000))
	assert.ErrorIs(t, Amount(0), ErrAmountInvalid)
	assert.ErrorIs(t, Amount(-5), ErrAmountInvalid)
	assert.ErrorIs(t, Amount(2e13), ErrAmountTooLarge)
}
