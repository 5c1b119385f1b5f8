package security

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestArgonHasher(t *testing.T) {
	var (
		password      = "password"
		wrongPassword = "wrongPassword"
		hasher        = NewArgonHasher(DefaultHashConfig())
	)

	hash, err := hasher.Hash(password)
	require.NoError(t, err, "создание хэша")
	assert.Contains(t, hash, "$argon2id$v=19$m=65536,t=1,p=4$")

	anotherHash, err := hasher.Hash(password)
	require.NoError(t, err)
	assert.NotEqual(t, hash, anotherHash, "для каждого хэша используется новая соль")

	assert.True(t, hasher.Compare(password, hash), "успешная проверка хэша")
	assert.False(t, hasher.Compare(wrongPassword, hash), "неуспешная проверка хэша")
	assert.False(t, hasher.Compare(password, "plain"), "строка не в формате PHC")
	assert.False(t, hasher.Compare(password, "$argon2i$v=19$m=1,t=1,p=1$c2FsdA$a2V5"), "другой алгоритм")
}
