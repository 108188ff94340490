// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth provides password hashing and verification utilities
// using the argon2id algorithm for secure credential storage. Hashes written
// by Werkzeug (pbkdf2:sha256) are accepted for verification only so that
// imported accounts can log in and be upgraded.
package auth

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

// Argon2 parameters (OWASP recommended second choice: m=19456, t=2, p=1)
const (
	Argon2Time    = 2
	Argon2Memory  = 19 * 1024 // 19 MB, fits on 256MB VMs
	Argon2Threads = 1
	Argon2KeyLen  = 32
	Argon2SaltLen = 16
)

// NeedsRehash checks whether an encoded hash uses different parameters than
// the current defaults. Returns true if the hash should be re-created.
func NeedsRehash(encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return true
	}

	var memory, timeCost uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &timeCost, &threads); err != nil {
		return true
	}

	return memory != Argon2Memory || timeCost != Argon2Time || threads != Argon2Threads
}

// HashArgon2 creates an Argon2id hash of the input string.
// Returns encoded hash in format: $argon2id$v=19$m=19456,t=2,p=1$salt$hash
func HashArgon2(input string) (string, error) {
	salt := make([]byte, Argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	hash := argon2.IDKey([]byte(input), salt, Argon2Time, Argon2Memory, Argon2Threads, Argon2KeyLen)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, Argon2Memory, Argon2Time, Argon2Threads, b64Salt, b64Hash), nil
}

// VerifyArgon2 verifies an input string against an Argon2id hash.
// Uses constant-time comparison to prevent timing attacks.
func VerifyArgon2(input, encodedHash string) (bool, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return false, fmt.Errorf("invalid hash format")
	}

	if parts[1] != "argon2id" {
		return false, fmt.Errorf("unsupported hash type: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, fmt.Errorf("parsing version: %w", err)
	}

	var memory, timeCost uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &timeCost, &threads); err != nil {
		return false, fmt.Errorf("parsing parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("decoding salt: %w", err)
	}

	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("decoding hash: %w", err)
	}

	hash := argon2.IDKey([]byte(input), salt, timeCost, memory, threads, uint32(len(expectedHash)))
	return subtle.ConstantTimeCompare(hash, expectedHash) == 1, nil
}

// ErrUnknownHashFormat is returned when a stored hash matches no supported scheme.
var ErrUnknownHashFormat = errors.New("unknown password hash format")

// werkzeugPrefix starts hashes produced by werkzeug.security.generate_password_hash.
const werkzeugPrefix = "pbkdf2:"

// VerifyWerkzeugPBKDF2 verifies input against a Werkzeug hash of the form
// pbkdf2:<digest>:<iterations>$<salt>$<hex hash>. The salt is used as-is, not decoded.
func VerifyWerkzeugPBKDF2(input, encodedHash string) (bool, error) {
	parts := strings.SplitN(encodedHash, "$", 3)
	if len(parts) != 3 {
		return false, fmt.Errorf("invalid hash format")
	}

	method := strings.Split(parts[0], ":")
	if len(method) < 2 || method[0] != "pbkdf2" {
		return false, fmt.Errorf("unsupported hash type: %s", parts[0])
	}

	var newHash func() hash.Hash
	switch method[1] {
	case "sha1":
		newHash = sha1.New
	case "sha256":
		newHash = sha256.New
	case "sha512":
		newHash = sha512.New
	default:
		return false, fmt.Errorf("unsupported digest: %s", method[1])
	}

	iterations := 600000
	if len(method) > 2 {
		n, err := strconv.Atoi(method[2])
		if err != nil || n < 1 {
			return false, fmt.Errorf("parsing iterations: %q", method[2])
		}
		iterations = n
	}

	expectedHash, err := hex.DecodeString(parts[2])
	if err != nil {
		return false, fmt.Errorf("decoding hash: %w", err)
	}

	key := pbkdf2.Key([]byte(input), []byte(parts[1]), iterations, len(expectedHash), newHash)
	return subtle.ConstantTimeCompare(key, expectedHash) == 1, nil
}

// HashPassword creates an Argon2id hash of the password.
func HashPassword(password string) (string, error) {
	return HashArgon2(password)
}

// CheckPassword verifies a password against a stored hash. Argon2id hashes are
// the norm; Werkzeug PBKDF2 hashes are still accepted and report NeedsRehash.
func CheckPassword(password, encodedHash string) (bool, error) {
	switch {
	case strings.HasPrefix(encodedHash, "$argon2id$"):
		return VerifyArgon2(password, encodedHash)
	case strings.HasPrefix(encodedHash, werkzeugPrefix):
		return VerifyWerkzeugPBKDF2(password, encodedHash)
	default:
		return false, ErrUnknownHashFormat
	}
}
