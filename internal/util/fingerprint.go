package util

import (
	"fmt"
	"hash/crc32"
	"os"
)

// FingerprintBytes returns the CRC32 fingerprint of data.
func FingerprintBytes(data []byte) string {
	return fmt.Sprintf("%08x", crc32.ChecksumIEEE(data))
}

// CalculateFileFingerprint calculates the CRC32 fingerprint of a whole file.
// Schedule documents are small enough to hash completely.
func CalculateFileFingerprint(filepath string) (string, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return "", err
	}
	return FingerprintBytes(data), nil
}
