package ports

// PasswordHasher is the one-way credential hashing contract. Hash is salted
// and non-deterministic; Verify must rely on the algorithm's own comparison
// rather than naive string equality.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}
