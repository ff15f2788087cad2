package mongo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectRequiresURI(t *testing.T) {
	_, _, err := Connect(context.Background(), " ", "")
	assert.Error(t, err)

	db, cleanup := ConnectOptional(context.Background(), "", "", nil)
	defer cleanup()
	assert.Nil(t, db)
}
