// Package identity resolves bearer credentials to authenticated user ids.
//
// Token issuance is owned by the identity service; this package only verifies
// tokens presented at live-connection time.
package identity
