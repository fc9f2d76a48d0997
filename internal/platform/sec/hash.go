// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashAPIKey hashes a plain-text admin API key using the bcrypt algorithm.
//
// Only the hash is ever placed in configuration.
func HashAPIKey(plainTextKey string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextKey), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth: failed to hash api key: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckAPIKey compares a presented API key with the configured hash.
// An empty hash disables API key authentication.
func CheckAPIKey(presentedKey, existingHash string) bool {
	if existingHash == "" || presentedKey == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(presentedKey))
	return err == nil
}
