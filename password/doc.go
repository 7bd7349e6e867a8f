// Package password provides bcrypt hashing and verification for stored user
// credentials.
package password
