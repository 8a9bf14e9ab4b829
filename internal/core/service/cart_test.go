package service_test

import (
	"testing"

	"github.com/elianismedina/partfinder/internal/core/service"
	"github.com/stretchr/testify/assert"
)

func TestCartIncrement(t *testing.T) {
	c := service.NewCart()

	assert.EqualValues(t, 0, c.Count())
	assert.EqualValues(t, 1, c.Increment())
	assert.EqualValues(t, 2, c.Increment())
	assert.EqualValues(t, 3, c.Increment())
	assert.EqualValues(t, 3, c.Count())
}

func TestSessionsIsolation(t *testing.T) {
	s := service.NewSessions(&fakeRepo{})

	a := s.Get("a")
	b := s.Get("b")

	a.Cart.Increment()
	a.Cart.Increment()

	assert.EqualValues(t, 2, a.Cart.Count())
	assert.EqualValues(t, 0, b.Cart.Count())

	assert.Same(t, a, s.Get("a"))
	assert.Same(t, s.Get(""), s.Get(service.DefaultSessionID))
}
