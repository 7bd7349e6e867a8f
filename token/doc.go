// Package token manages dual-kind (access/refresh) token issuance and
// verification with a symmetric HMAC-SHA-512 signature and strict failure
// classification suitable for low-latency authentication paths.
package token
