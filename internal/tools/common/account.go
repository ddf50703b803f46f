package common

import (
	"github.com/teemow/bluebird/internal/google"
)

// GetAccountFromArgs returns the "account" argument, or google.DefaultAccount
// when it is missing, empty or not a string.
func GetAccountFromArgs(args map[string]any) string {
	if account, ok := args["account"].(string); ok && account != "" {
		return account
	}
	return google.DefaultAccount
}

// GetDraftIDFromArgs returns the "draftId" argument, or "" when missing.
func GetDraftIDFromArgs(args map[string]any) string {
	id, _ := args["draftId"].(string)
	return id
}
