// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package instance

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/opskit/internal/cacheutil"
	"github.com/staranto/opskit/internal/envdefault"
)

type fakeMetadata struct {
	body string
	err  error
	path string
}

func (f *fakeMetadata) GetMetadata(_ context.Context, in *imds.GetMetadataInput, _ ...func(*imds.Options)) (*imds.GetMetadataOutput, error) {
	f.path = in.Path
	if f.err != nil {
		return nil, f.err
	}
	return &imds.GetMetadataOutput{Content: io.NopCloser(strings.NewReader(f.body))}, nil
}

type countingIdentifier struct {
	id    string
	err   error
	calls int
}

func (c *countingIdentifier) InstanceID(context.Context) (string, error) {
	c.calls++
	return c.id, c.err
}

func TestIMDS_InstanceID(t *testing.T) {
	api := &fakeMetadata{body: "i-0123456789abcdef0\n"}

	id, err := IMDS{Client: api}.InstanceID(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "i-0123456789abcdef0", id)
	assert.Equal(t, "instance-id", api.path)
}

func TestIMDS_Errors(t *testing.T) {
	_, err := IMDS{Client: &fakeMetadata{err: errors.New("no route to host")}}.InstanceID(context.Background())
	assert.ErrorContains(t, err, "no route to host")

	_, err = IMDS{Client: &fakeMetadata{body: "  "}}.InstanceID(context.Background())
	assert.ErrorIs(t, err, ErrEmptyID)
}

func TestStatic(t *testing.T) {
	id, err := Static("host-1").InstanceID(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "host-1", id)

	_, err = Static("").InstanceID(context.Background())
	assert.ErrorIs(t, err, ErrEmptyID)
}

func TestCached_HitsBackingOnce(t *testing.T) {
	t.Setenv("OPSKIT_CACHE_DIR", t.TempDir())
	t.Setenv("OPSKIT_CACHE", "")
	store, err := cacheutil.Open("instance")
	require.NoError(t, err)

	next := &countingIdentifier{id: "i-abc"}
	c := Cached{Next: next, Store: store, MaxAge: time.Hour}

	for i := 0; i < 3; i++ {
		id, err := c.InstanceID(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "i-abc", id)
	}
	assert.Equal(t, 1, next.calls)
}

func TestCached_DisabledStorePassesThrough(t *testing.T) {
	next := &countingIdentifier{id: "i-abc"}
	c := Cached{Next: next, Store: &cacheutil.Store{}}

	_, _ = c.InstanceID(context.Background())
	_, _ = c.InstanceID(context.Background())
	assert.Equal(t, 2, next.calls)
}

func TestCached_ErrorNotCached(t *testing.T) {
	t.Setenv("OPSKIT_CACHE_DIR", t.TempDir())
	t.Setenv("OPSKIT_CACHE", "")
	store, err := cacheutil.Open()
	require.NoError(t, err)

	next := &countingIdentifier{err: errors.New("imds down")}
	c := Cached{Next: next, Store: store}

	_, err = c.InstanceID(context.Background())
	assert.Error(t, err)
	_, ok := store.Get(cacheKey, 0)
	assert.False(t, ok)
}

func TestFromEnv(t *testing.T) {
	fallback := Static("from-imds")

	tests := []struct {
		name string
		env  envdefault.Env
		want string
	}{
		{name: "override set", env: envdefault.Env{OverrideKey: "laptop"}, want: "laptop"},
		{name: "default used", env: envdefault.Env{"DEFAULT_" + OverrideKey: "build-box"}, want: "build-box"},
		{name: "explicit empty disables default", env: envdefault.Env{OverrideKey: "", "DEFAULT_" + OverrideKey: "x"}, want: "from-imds"},
		{name: "nothing set", env: envdefault.Env{}, want: "from-imds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := FromEnv(tt.env, fallback).InstanceID(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}
