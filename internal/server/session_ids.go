package server

import (
	"math/rand"
	"strings"
)

const sessionIDLength = 6

// GenerateSessionID returns an uppercase code not present in usedIDs.
// Short codes are easy to read out to the second player; the caller
// records the code in usedIDs while the session lives.
func GenerateSessionID(usedIDs map[string]bool) string {
	for {
		code := make([]byte, sessionIDLength)
		for i := range code {
			code[i] = 'A' + byte(rand.Intn(26))
		}
		id := string(code)

		if !usedIDs[id] {
			return id
		}
	}
}

// NormalizeSessionID uppercases a client-supplied id so joins are
// case-insensitive.
func NormalizeSessionID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}
