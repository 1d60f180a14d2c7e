package composer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopEnvironment(t *testing.T) {
	var env NoopEnvironment

	assert.Empty(t, env.PageURL())
	assert.Empty(t, env.UserAgent())
	_, ok := env.Cookie("_fbp")
	assert.False(t, ok)
}

func TestStaticEnvironment_EmptyCookieIsAbsent(t *testing.T) {
	env := StaticEnvironment{Cookies: map[string]string{"_fbc": ""}}

	_, ok := env.Cookie("_fbc")
	assert.False(t, ok)
	_, ok = env.Cookie("_fbp")
	assert.False(t, ok)
}
