// Package auth provides the credential, token, and authorization core for
// go-identity: bcrypt password hashing, stateless JWT issuance and
// validation, directory-backed identity resolution, and a role gate for
// protected operations.
//
// Identity resolution:
//   - Tokens carry only the user identifier plus standard registered claims.
//     Roles are re-read from the user directory on every resolution, so a
//     role change or deactivation takes effect on the next request without
//     re-issuing tokens.
//   - Tokens are stateless. There is no server-side token store and no
//     revocation path before expiry; deactivating the account is the lever.
//
// Directory collaborators:
//   - The directory is consumed through three narrow capabilities
//     (UserCreator, CredentialStore, UserStore). The Bun-backed Users
//     repository implements all three; callers depend only on what they use.
//
// Error taxonomy:
//   - Expected outcomes (invalid credentials, duplicate email, invalid or
//     expired tokens, inactive accounts, missing roles) are typed go-errors
//     values with stable text codes and HTTP codes. Unknown email and wrong
//     password share a single error value so callers cannot enumerate
//     accounts.
package auth
