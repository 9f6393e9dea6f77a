// Package auth provides credential hashing, bearer token handling, and the
// HTTP middleware that gates protected endpoints.
//
// # Components
//
//   - PasswordHasher: bcrypt hashing/verification with configurable cost
//   - JWTVerifier: HS256 token issuance (Issue) and validation (Verify)
//   - Middleware: Authorization header extraction + Identity injection
//   - Identity: verified subject carried through request context
//
// # Token model
//
// Tokens are self-contained JWTs with claims {sub, iat, exp} signed with a
// process-wide secret. Verification rejects tampered tokens before trusting
// any claim; expiry is only reported for tokens whose signature checked out.
// There is no revocation - a leaked token stays valid until its natural
// expiry.
package auth
