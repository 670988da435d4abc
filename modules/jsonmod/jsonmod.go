// Package jsonmod provides modules that read and update JSON payloads with gjson and sjson path syntax.
package jsonmod

import (
	"context"
	"errors"
	"fmt"
	"github.com/saylorsolutions/eventsys/event"
	"github.com/saylorsolutions/eventsys/module"
	"github.com/saylorsolutions/eventsys/modules"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"strings"
)

var (
	ErrInvalidJSON  = errors.New("payload is not valid JSON")
	ErrPathNotFound = errors.New("path not found in payload")
	ErrEmptyPath    = errors.New("path must not be empty")
)

// Extract responds with the raw JSON value found at path in the request payload.
// A string value is returned with its quotes, so the response is always valid JSON.
func Extract(path string) (module.Module, error) {
	path = strings.TrimSpace(path)
	if len(path) == 0 {
		return nil, ErrEmptyPath
	}
	return module.Func(func(_ context.Context, req *event.Request) (event.Response, error) {
		payload := req.Payload()
		if !gjson.ValidBytes(payload) {
			return event.Response{}, ErrInvalidJSON
		}
		result := gjson.GetBytes(payload, path)
		if !result.Exists() {
			return event.Response{}, fmt.Errorf("%w: '%s'", ErrPathNotFound, path)
		}
		return event.Text(result.Raw), nil
	}), nil
}

// Set responds with the request payload after setting path to value.
// An empty payload is treated as an empty JSON object.
func Set(path string, value any) (module.Module, error) {
	path = strings.TrimSpace(path)
	if len(path) == 0 {
		return nil, ErrEmptyPath
	}
	return module.Func(func(_ context.Context, req *event.Request) (event.Response, error) {
		payload := req.Payload()
		if len(payload) == 0 {
			payload = []byte("{}")
		}
		if !gjson.ValidBytes(payload) {
			return event.Response{}, ErrInvalidJSON
		}
		updated, err := sjson.SetBytes(payload, path, value)
		if err != nil {
			return event.Response{}, fmt.Errorf("failed to set '%s': %w", path, err)
		}
		return event.OK(updated), nil
	}), nil
}

type ExtractOptions struct {
	Path string `yaml:"path"`
}

type SetOptions struct {
	Path  string `yaml:"path"`
	Value any    `yaml:"value"`
}

func NewExtract(opts modules.Options) (module.Module, error) {
	var conf ExtractOptions
	if err := opts.Decode(&conf); err != nil {
		return nil, err
	}
	mod, err := Extract(conf.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", modules.ErrInvalidOptions, err)
	}
	return mod, nil
}

func NewSet(opts modules.Options) (module.Module, error) {
	var conf SetOptions
	if err := opts.Decode(&conf); err != nil {
		return nil, err
	}
	mod, err := Set(conf.Path, conf.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", modules.ErrInvalidOptions, err)
	}
	return mod, nil
}
