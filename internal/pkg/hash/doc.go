// Package hash provides one-way hashing and verification of secrets.
//
// Password credentials go through a PasswordHasher (bcrypt by default,
// argon2id when configured). Hash is called once when a credential is set and
// the result is stored as-is; Verify or Check is called once per login attempt
// with the plaintext exactly as the user typed it. Hashing an already hashed
// value, or verifying against one, silently breaks every later login.
//
// Refresh tokens and other high-entropy secrets use HMACSHA256, which is
// deterministic so the digest can be used as a lookup key.
package hash
