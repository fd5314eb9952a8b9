// Package auth implements the account lifecycle engine: verification-code
// issuance, code-gated registration, rate-limited login, stateless session
// validation, and account deletion.
//
// The Engine is assembled with a builder:
//
//	engine, err := auth.New().
//		WithConfig(cfg).
//		WithRedis(redisClient).
//		WithUserStore(users).
//		WithMailer(mailer).
//		Build()
//
// Verification codes live in Redis and are consumed atomically, so a code
// can succeed at most once even under concurrent registration attempts.
// Login throttling is tracked per normalized identifier in process memory.
// Durable account state lives behind the store.UserStore interface.
//
// All Engine methods are safe for concurrent use.
package auth
