package hash_test

import (
	"testing"

	"pedidos/pkg/hash"

	"github.com/stretchr/testify/assert"
)

func TestHasher_HashAndVerify(t *testing.T) {
	hasher := hash.NewHasher()

	encoded, err := hasher.Hash("abc12345")
	assert.NoError(t, err)
	assert.NotEmpty(t, encoded)
	assert.Contains(t, encoded, "$argon2id$")
	assert.NotContains(t, encoded, "abc12345")

	// The matching plaintext verifies, anything else does not.
	ok, err := hasher.Verify("abc12345", encoded)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Verify("abc12346", encoded)
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = hasher.Verify("", encoded)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestHasher_SaltsAreRandom(t *testing.T) {
	hasher := hash.NewHasher()

	first, err := hasher.Hash("same password 1")
	assert.NoError(t, err)
	second, err := hasher.Hash("same password 1")
	assert.NoError(t, err)

	// Per-call random salt: two hashes of the same plaintext differ,
	// yet both verify.
	assert.NotEqual(t, first, second)

	ok, err := hasher.Verify("same password 1", first)
	assert.NoError(t, err)
	assert.True(t, ok)
	ok, err = hasher.Verify("same password 1", second)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestHasher_MalformedHash(t *testing.T) {
	hasher := hash.NewHasher()

	for _, encoded := range []string{
		"",
		"not a hash",
		"$argon2id$v=19$m=65536,t=1,p=4$short",
		"$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$a2V5",
		"$argon2id$v=19$m=65536,t=1,p=4$!!!$a2V5",
	} {
		_, err := hasher.Verify("whatever", encoded)
		assert.Error(t, err, "encoded=%q", encoded)
	}
}
