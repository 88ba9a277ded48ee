package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fjod/storefront/internal/domain"
)

func TestPrintCart(t *testing.T) {
	var buf bytes.Buffer
	printCart(&buf, domain.Cart{
		{ProductID: "p1", Name: "Phone", Price: 100, Qty: 2},
		{ProductID: "p2", Name: "Case", Price: 50, Qty: 1},
	})

	out := buf.String()
	assert.Contains(t, out, "subtotal  250.00")
	assert.Contains(t, out, "shipping  50.00")
	assert.Contains(t, out, "tax       45.00")
	assert.Contains(t, out, "total     345.00")
}

func TestPrintCart_Empty(t *testing.T) {
	var buf bytes.Buffer
	printCart(&buf, nil)
	assert.Equal(t, "cart is empty\n", buf.String())
}

func TestPrintSession(t *testing.T) {
	var buf bytes.Buffer
	printSession(&buf, nil)
	printSession(&buf, &domain.Session{ID: "u1", Name: "Ann", Email: "a@b.com", IsAdmin: true, Token: "t"})
	assert.Equal(t, "not signed in\nAnn <a@b.com> (admin, id u1)\n", buf.String())
}
