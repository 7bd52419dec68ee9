package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationDefaults(t *testing.T) {
	req := httptest.NewRequest("GET", "/users", nil)

	limit, offset := pagination(req)
	assert.Equal(t, uint64(10), limit)
	assert.Equal(t, uint64(0), offset)
}

func TestPaginationPageConversion(t *testing.T) {
	req := httptest.NewRequest("GET", "/users?page=3&per_page=25", nil)

	limit, offset := pagination(req)
	assert.Equal(t, uint64(25), limit)
	assert.Equal(t, uint64(50), offset)
}

func TestPaginationIgnoresGarbage(t *testing.T) {
	req := httptest.NewRequest("GET", "/users?page=-1&per_page=abc", nil)

	limit, offset := pagination(req)
	assert.Equal(t, uint64(10), limit)
	assert.Equal(t, uint64(0), offset)
}
