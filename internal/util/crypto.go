package util

import (
	"crypto/rand"
	"encoding/base32"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// LicenseKeyPrefix marks secrets issued by this server
const LicenseKeyPrefix = "LIC-"

// CryptoRandomBytes generates cryptographically secure random bytes
func CryptoRandomBytes(length int64) ([]byte, error) {
	buf := make([]byte, length)
	_, err := rand.Read(buf)
	return buf, err
}

// GenerateLicenseKey returns a fresh plaintext license secret and its bcrypt hash.
// The plaintext is 20 random bytes, unpadded lowercase base32, behind LicenseKeyPrefix.
func GenerateLicenseKey() (plain, hash string, err error) {
	raw, err := CryptoRandomBytes(20)
	if err != nil {
		return "", "", err
	}

	encoded := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(raw)
	plain = LicenseKeyPrefix + strings.ToLower(encoded)

	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}
	return plain, string(hashed), nil
}

// VerifyLicenseKey reports whether plain matches the stored bcrypt hash
func VerifyLicenseKey(hash, plain string) bool {
	if hash == "" || plain == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
