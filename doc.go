// Package hikeusers implements the account core for the hikeusers API:
// registration, credential verification, stateless bearer tokens, and the
// authorization decisions route handlers rely on.
//
// Identity and tokens:
//   - Passwords are stored as bcrypt hashes with a configurable work factor
//     so test suites can run with a cheap cost while production keeps a
//     strong one.
//   - TokenService signs compact JWTs carrying the username and admin flag.
//     Verification needs only the signing secret; there is no session store
//     and no revocation list.
//
// Authorization:
//   - middleware/authware attaches verified claims to the request context.
//     A missing or invalid token never aborts the request; the caller simply
//     proceeds anonymous and per-route guards (RequireAdmin,
//     RequireSelfOrAdmin) decide access.
//
// Persistence:
//   - Users and their attached hikes live behind the Users repository. The
//     unique constraint on username is the authoritative guard against
//     concurrent duplicate registrations; application-level checks are an
//     optimization only.
package hikeusers
