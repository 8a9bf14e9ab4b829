package service

import "sync/atomic"

// A Cart is a session-local add-to-cart counter. It starts at zero and
// only grows; line items are out of scope for the current feature set.
type Cart struct {
	count atomic.Int64
}

func NewCart() *Cart {
	return &Cart{}
}

// Increment raises the counter by one and returns the new value.
func (c *Cart) Increment() int64 {
	return c.count.Add(1)
}

func (c *Cart) Count() int64 {
	return c.count.Load()
}
