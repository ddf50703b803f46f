// Package google_tools provides MCP tools for Google OAuth authentication.
//
// The OAuth flow:
//  1. Call google_get_auth_url to get the authorization URL
//  2. The user visits the URL and authorizes access
//  3. Call google_save_auth_code with the code to save the token
//
// Once saved, the token is refreshed as needed and the bluebird draft tools
// work for that account.
package google_tools
