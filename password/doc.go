// Package password implements password hashing, verification, and the
// registration strength policy.
//
// # Output format
//
// Hashes are encoded in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// Stored hashes embed their own cost parameters, so [Argon2.NeedsUpgrade] can
// detect hashes produced under a weaker configuration and callers can re-hash
// on the next successful login.
//
// # Architecture boundaries
//
// This package owns hashing, verification, and the strength policy. It never
// stores passwords and never imports a sibling package.
package password
