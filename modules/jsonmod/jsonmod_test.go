package jsonmod

import (
	"context"
	"github.com/saylorsolutions/eventsys/event"
	"github.com/saylorsolutions/eventsys/module"
	"github.com/saylorsolutions/eventsys/modules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func invoke(t *testing.T, mod module.Module, payload string) (event.Response, error) {
	t.Helper()
	req := event.MustRequest("json", []byte(payload))
	handler, err := mod.Build(context.Background(), req.ID())
	require.NoError(t, err)
	return handler.Invoke(context.Background(), req)
}

func TestExtract(t *testing.T) {
	const doc = `{"name":"bob","age":3,"tags":["a","b"],"address":{"city":"Springfield"}}`
	tests := []struct {
		name     string
		path     string
		payload  string
		expected string
		err      error
	}{
		{name: "String", path: "name", payload: doc, expected: `"bob"`},
		{name: "Number", path: "age", payload: doc, expected: `3`},
		{name: "Array index", path: "tags.1", payload: doc, expected: `"b"`},
		{name: "Object", path: "address", payload: doc, expected: `{"city":"Springfield"}`},
		{name: "Nested", path: "address.city", payload: doc, expected: `"Springfield"`},
		{name: "Missing", path: "email", payload: doc, err: ErrPathNotFound},
		{name: "Invalid JSON", path: "name", payload: `{"name":`, err: ErrInvalidJSON},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mod, err := Extract(tc.path)
			require.NoError(t, err)
			resp, err := invoke(t, mod, tc.payload)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, string(resp.Payload))
		})
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		value    any
		payload  string
		expected string
		err      error
	}{
		{name: "Replace", path: "name", value: "alice", payload: `{"name":"bob"}`, expected: `{"name":"alice"}`},
		{name: "Add nested", path: "a.b", value: 1, payload: ``, expected: `{"a":{"b":1}}`},
		{name: "Object value", path: "meta", value: map[string]any{"x": true}, payload: `{"id":1}`, expected: `{"id":1,"meta":{"x":true}}`},
		{name: "Invalid JSON", path: "name", value: "x", payload: `not json`, err: ErrInvalidJSON},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mod, err := Set(tc.path, tc.value)
			require.NoError(t, err)
			resp, err := invoke(t, mod, tc.payload)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tc.expected, string(resp.Payload))
		})
	}
}

func TestEmptyPath(t *testing.T) {
	_, err := Extract(" ")
	assert.ErrorIs(t, err, ErrEmptyPath)
	_, err = Set("", 1)
	assert.ErrorIs(t, err, ErrEmptyPath)
}

func TestConstructors(t *testing.T) {
	mod, err := NewExtract(modules.Options{"path": "id"})
	require.NoError(t, err)
	resp, err := invoke(t, mod, `{"id":"abc"}`)
	require.NoError(t, err)
	assert.Equal(t, `"abc"`, string(resp.Payload))

	mod, err = NewSet(modules.Options{"path": "seen", "value": true})
	require.NoError(t, err)
	resp, err = invoke(t, mod, `{"id":"abc"}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"abc","seen":true}`, string(resp.Payload))

	_, err = NewExtract(nil)
	assert.ErrorIs(t, err, modules.ErrInvalidOptions)
	assert.ErrorIs(t, err, ErrEmptyPath)

	_, err = NewSet(modules.Options{"path": "x", "val": 1})
	assert.ErrorIs(t, err, modules.ErrInvalidOptions)
}
