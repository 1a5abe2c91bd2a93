package urls

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostPaths(t *testing.T) {
	assert.Equal(t, "/leo/", Profile("leo"))
	assert.Equal(t, "/leo/3/", Post("leo", 3))
	assert.Equal(t, "/leo/3/edit/", PostEdit("leo", 3))
	assert.Equal(t, "/leo/3/delete/", PostDelete("leo", 3))
	assert.Equal(t, "/leo/3/comment/", Comment("leo", 3))
	assert.Equal(t, "/leo/follow/", Follow("leo"))
	assert.Equal(t, "/leo/unfollow/", Unfollow("leo"))
	assert.Equal(t, "/group/cats/", Group("cats"))
	assert.Equal(t, "/group/cats/?page=2", Page(Group("cats"), 2))
}

func TestLoginNext(t *testing.T) {
	assert.Equal(t, "/auth/login/?next=/new/", LoginNext("/new/"))
	assert.Equal(t, "/auth/login/?next=/leo/3/comment/", LoginNext(Comment("leo", 3)))
	assert.Equal(t, "/auth/login/?next=/follow/%3Fpage%3D2", LoginNext("/follow/?page=2"))
	assert.Equal(t, "/auth/login/", LoginNext(""))
}

func TestSafeNext(t *testing.T) {
	for _, next := range []string{"/", "/new/", "/leo/3/?page=2"} {
		assert.True(t, SafeNext(next), next)
	}
	for _, next := range []string{"", "http://evil.example/", "//evil.example/", "/\\evil.example", "relative/"} {
		assert.False(t, SafeNext(next), next)
	}
}
