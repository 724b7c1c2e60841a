package rooms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinIsIdempotent(t *testing.T) {
	idx := NewIndex()

	idx.Join("s1", Order(7))
	idx.Join("s1", Order(7))

	assert.Equal(t, []string{"s1"}, idx.Members(Order(7)))
	assert.Equal(t, []string{Order(7)}, idx.RoomsOf("s1"))
}

func TestLeaveUnknownRoomIsNoOp(t *testing.T) {
	idx := NewIndex()

	idx.Join("s1", Admin)
	idx.Leave("s1", Order(99))
	idx.Leave("s2", Admin)

	assert.Equal(t, []string{"s1"}, idx.Members(Admin))
}

func TestDropRemovesAllMemberships(t *testing.T) {
	idx := NewIndex()

	idx.Join("s1", User("u1"))
	idx.Join("s1", Order(1))
	idx.Join("s1", Order(2))
	idx.Join("s2", Order(1))

	idx.Drop("s1")

	assert.Empty(t, idx.RoomsOf("s1"))
	assert.Equal(t, []string{"s2"}, idx.Members(Order(1)))
	assert.Empty(t, idx.Members(Order(2)))
	assert.Empty(t, idx.Members(User("u1")))
}

func TestContains(t *testing.T) {
	idx := NewIndex()

	idx.Join("s1", Order(5))

	assert.True(t, idx.Contains("s1", Order(5)))
	assert.False(t, idx.Contains("s1", Order(6)))
	assert.False(t, idx.Contains("s2", Order(5)))
}

func TestRoomNames(t *testing.T) {
	assert.Equal(t, "user:u42", User("u42"))
	assert.Equal(t, "order:42", Order(42))
	assert.Equal(t, "admin", Admin)
}
