package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/bizbooks/internal/core/domain"
)

func TestEncodeDecodeToken(t *testing.T) {
	cursor := domain.Cursor{Date: time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), ID: 42}

	token := EncodeToken(cursor)
	assert.NotEmpty(t, token, "Token should not be empty")

	decoded, err := DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, cursor, decoded)

	// time of day is not part of the position
	tx := domain.Transaction{ID: 7, Date: time.Date(2024, 5, 15, 13, 45, 0, 0, time.UTC)}
	decoded, err = DecodeToken(TokenAfter(tx))
	require.NoError(t, err)
	assert.Equal(t, domain.Cursor{Date: time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), ID: 7}, decoded)
}

func TestDecodeTokenError(t *testing.T) {
	_, err := DecodeToken("this is not base64!")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	_, err = DecodeToken(base64.StdEncoding.EncodeToString([]byte("2024-05-15")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	_, err = DecodeToken(base64.StdEncoding.EncodeToString([]byte("15/05/2024|3")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date parse")

	_, err = DecodeToken(base64.StdEncoding.EncodeToString([]byte("2024-05-15|x")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id parse")
}

func TestCursorPrecedes(t *testing.T) {
	c := domain.Cursor{Date: time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), ID: 10}
	assert.True(t, c.Precedes(domain.Transaction{ID: 11, Date: c.Date}))
	assert.False(t, c.Precedes(domain.Transaction{ID: 10, Date: c.Date}))
	assert.True(t, c.Precedes(domain.Transaction{ID: 2, Date: c.Date.AddDate(0, 0, 1)}))
	assert.False(t, c.Precedes(domain.Transaction{ID: 99, Date: c.Date.AddDate(0, 0, -1)}))
}
