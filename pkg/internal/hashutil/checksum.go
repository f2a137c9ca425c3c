package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// Prefix marks the algorithm in rendered checksums
const Prefix = "sha256:"

// CalculateFileChecksum calculates the SHA256 checksum of a file
func CalculateFileChecksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = file.Close()
	}()

	return CalculateReaderChecksum(file)
}

// CalculateReaderChecksum hashes everything r yields
func CalculateReaderChecksum(r io.Reader) (string, error) {
	hash := sha256.New()
	if _, err := io.Copy(hash, r); err != nil {
		return "", err
	}
	return Prefix + hex.EncodeToString(hash.Sum(nil)), nil
}

// Sum hashes a byte slice
func Sum(data []byte) string {
	sum := sha256.Sum256(data)
	return Prefix + hex.EncodeToString(sum[:])
}

// Normalize lower-cases a checksum and adds the algorithm prefix when missing.
// Bare hex digests, as published next to most release assets, are accepted.
func Normalize(checksum string) (string, error) {
	c := strings.ToLower(strings.TrimSpace(checksum))
	c = strings.TrimPrefix(c, Prefix)
	if len(c) != sha256.Size*2 {
		return "", fmt.Errorf("checksum %q is not a sha256 digest", checksum)
	}
	if _, err := hex.DecodeString(c); err != nil {
		return "", fmt.Errorf("checksum %q is not hexadecimal", checksum)
	}
	return Prefix + c, nil
}

// Verify compares a file against an expected checksum
func Verify(path, expected string) error {
	want, err := Normalize(expected)
	if err != nil {
		return err
	}
	got, err := CalculateFileChecksum(path)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", want, got)
	}
	return nil
}
