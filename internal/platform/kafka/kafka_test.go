package kafka

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitBrokers(t *testing.T) {
	require.Equal(t, []string{"a:9092", "b:9092"}, SplitBrokers(" a:9092, ,b:9092 "))
	require.Empty(t, SplitBrokers(""))
}

func TestNewWriterRequiresConfig(t *testing.T) {
	_, err := NewWriter("", "topic")
	require.Error(t, err)
	_, err = NewWriter("localhost:9092", " ")
	require.Error(t, err)

	w, err := NewWriter("localhost:9092", "shipments")
	require.NoError(t, err)
	require.Equal(t, "shipments", w.Topic)
}
