package pgsql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaceholders(t *testing.T) {
	var p placeholders
	assert.Equal(t, "$1", p.add(int64(7)))
	assert.Equal(t, "$2", p.add("Sale to Customer (Cash)"))
	assert.Equal(t, []any{int64(7), "Sale to Customer (Cash)"}, p.args)
}
