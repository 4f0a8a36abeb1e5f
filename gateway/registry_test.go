package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_Register(t *testing.T) {
	registry := NewRegistry()

	mockFactory := func(logger *TransactionLogger) Gateway { return nil }

	registry.Register("test-gateway", mockFactory)

	factory, err := registry.Get("test-gateway")
	assert.NoError(t, err)
	assert.NotNil(t, factory)
}

func TestRegistry_Names(t *testing.T) {
	registry := NewRegistry()

	names := registry.Names()
	assert.Empty(t, names)

	mockFactory := func(logger *TransactionLogger) Gateway { return nil }
	registry.Register("gateway1", mockFactory)
	registry.Register("gateway2", mockFactory)

	names = registry.Names()
	assert.Len(t, names, 2)
	assert.Contains(t, names, "gateway1")
	assert.Contains(t, names, "gateway2")
}

func TestRegistry_Get_NotFound(t *testing.T) {
	registry := NewRegistry()

	factory, err := registry.Get("non-existent")
	assert.Error(t, err)
	assert.Nil(t, factory)
	assert.Contains(t, err.Error(), "is not registered")
}

func TestDefaultRegistry(t *testing.T) {
	mockFactory := func(logger *TransactionLogger) Gateway { return nil }

	Register("default-test", mockFactory)

	factory, err := DefaultRegistry.Get("default-test")
	assert.NoError(t, err)
	assert.NotNil(t, factory)
	assert.Contains(t, DefaultRegistry.Names(), "default-test")
}
