package util

import "crypto/sha256"

func GetSHA256Bytes(str string) []byte {
	sum := sha256.Sum256([]byte(str))
	return sum[:]
}
