package utils

import "github.com/google/uuid"

func GenerateID() string {
	return uuid.New().String()
}

// IsUUID reports whether s parses as a UUID. Route params are checked with
// it before they reach a query.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
