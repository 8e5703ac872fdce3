package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/bizbooks/internal/core/domain"
)

// EncodeToken creates a base64 encoded token from a transaction's position in the (date, id) order.
func EncodeToken(c domain.Cursor) string {
	tokenStr := fmt.Sprintf("%s|%d", c.Date.Format(domain.DateLayout), c.ID)
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// TokenAfter returns the token resuming after t.
func TokenAfter(t domain.Transaction) string {
	return EncodeToken(domain.Cursor{Date: t.Date, ID: t.ID})
}

// DecodeToken parses the base64 encoded token back into a cursor.
func DecodeToken(token string) (domain.Cursor, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return domain.Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 {
		return domain.Cursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	date, err := time.Parse(domain.DateLayout, parts[0])
	if err != nil {
		return domain.Cursor{}, fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return domain.Cursor{}, fmt.Errorf("invalid pagination token format (id parse): %w", err)
	}
	return domain.Cursor{Date: date, ID: id}, nil
}
