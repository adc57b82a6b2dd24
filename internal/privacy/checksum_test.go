package privacy

import (
	"testing"
)

func TestVerhoeffChecksum(t *testing.T) {
	t.Run("ValidNumber", func(t *testing.T) {
		// 999999999999 has Verhoeff check digit consistency
		if !verhoeffChecksum("999999999999") {
			t.Error("Valid Verhoeff number rejected")
		}
	})

	t.Run("InvalidNumber", func(t *testing.T) {
		if verhoeffChecksum("999999999998") {
			t.Error("Invalid Verhoeff number accepted")
		}
		if verhoeffChecksum("123456789012") {
			t.Error("Invalid Verhoeff number accepted")
		}
	})

	t.Run("TooShort", func(t *testing.T) {
		if verhoeffChecksum("1") {
			t.Error("Single digit accepted")
		}
		if verhoeffChecksum("") {
			t.Error("Empty string accepted")
		}
	})

	t.Run("NonDigit", func(t *testing.T) {
		if verhoeffChecksum("99999999999x") {
			t.Error("Non-digit input accepted")
		}
	})
}

func TestLuhnChecksum(t *testing.T) {
	t.Run("ValidCards", func(t *testing.T) {
		valid := []string{
			"4111111111111111", // Visa test number
			"5555555555554444", // Mastercard test number
			"4012888888881881",
		}
		for _, number := range valid {
			if !luhnChecksum(number) {
				t.Errorf("Valid card number rejected: %s", number)
			}
		}
	})

	t.Run("InvalidCards", func(t *testing.T) {
		invalid := []string{
			"1234567890123456",
			"4111111111111112",
		}
		for _, number := range invalid {
			if luhnChecksum(number) {
				t.Errorf("Invalid card number accepted: %s", number)
			}
		}
	})

	t.Run("NonDigit", func(t *testing.T) {
		if luhnChecksum("411111111111111x") {
			t.Error("Non-digit input accepted")
		}
	})
}

func TestValidateEntity(t *testing.T) {
	t.Run("AadhaarFirstDigit", func(t *testing.T) {
		pdef := &PatternDef{Validator: "verhoeff"}
		// Leading 0 or 1 is never a valid Aadhaar regardless of checksum
		if validateEntity(pdef, "0999 9999 9999") {
			t.Error("Aadhaar starting with 0 accepted")
		}
		if validateEntity(pdef, "1999 9999 9999") {
			t.Error("Aadhaar starting with 1 accepted")
		}
	})

	t.Run("AadhaarLength", func(t *testing.T) {
		pdef := &PatternDef{Validator: "verhoeff"}
		if validateEntity(pdef, "9999 9999 999") {
			t.Error("11-digit Aadhaar accepted")
		}
	})

	t.Run("AadhaarValid", func(t *testing.T) {
		pdef := &PatternDef{Validator: "verhoeff"}
		if !validateEntity(pdef, "9999 9999 9999") {
			t.Error("Valid Aadhaar rejected")
		}
	})

	t.Run("LuhnLength", func(t *testing.T) {
		pdef := &PatternDef{Validator: "luhn"}
		// 12 digits is below the card range even if the checksum holds
		if validateEntity(pdef, "123456789012") {
			t.Error("12-digit number accepted as card")
		}
	})

	t.Run("PANHolderType", func(t *testing.T) {
		pdef := &PatternDef{Validator: "pan"}
		if !validateEntity(pdef, "ABCPE1234F") {
			t.Error("Valid PAN rejected")
		}
		// 4th char 'Z' is not a valid holder type
		if validateEntity(pdef, "ABCZE1234F") {
			t.Error("PAN with invalid holder type accepted")
		}
	})

	t.Run("NoValidator", func(t *testing.T) {
		pdef := &PatternDef{}
		if !validateEntity(pdef, "anything") {
			t.Error("Pattern without validator rejected its match")
		}
	})
}
