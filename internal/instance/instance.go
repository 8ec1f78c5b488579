// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package instance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"

	"github.com/staranto/opskit/internal/cacheutil"
	"github.com/staranto/opskit/internal/envdefault"
	"github.com/staranto/opskit/internal/log"
)

// OverrideKey names the environment key that short-circuits metadata lookups,
// for hosts that are not EC2 instances. Its own default comes from
// DEFAULT_OPSKIT_INSTANCE_ID.
const OverrideKey = "OPSKIT_INSTANCE_ID"

// cacheKey is the cache entry holding the last identifier fetched.
const cacheKey = "instance-id"

// ErrEmptyID is returned when a source yields a blank identifier.
var ErrEmptyID = errors.New("empty instance id")

// Identifier returns a unique identifier for the host.
type Identifier interface {
	InstanceID(ctx context.Context) (string, error)
}

// MetadataAPI is the slice of the IMDS client used here.
type MetadataAPI interface {
	GetMetadata(ctx context.Context, params *imds.GetMetadataInput, optFns ...func(*imds.Options)) (*imds.GetMetadataOutput, error)
}

// IMDS reads the instance id from the EC2 instance metadata service.
type IMDS struct {
	Client MetadataAPI
}

// InstanceID implements Identifier.
func (m IMDS) InstanceID(ctx context.Context) (string, error) {
	out, err := m.Client.GetMetadata(ctx, &imds.GetMetadataInput{Path: "instance-id"})
	if err != nil {
		return "", fmt.Errorf("failed to query instance metadata: %w", err)
	}
	defer out.Content.Close()

	b, err := io.ReadAll(out.Content)
	if err != nil {
		return "", fmt.Errorf("failed to read instance metadata: %w", err)
	}
	id := strings.TrimSpace(string(b))
	if id == "" {
		return "", ErrEmptyID
	}
	log.Debugf("imds instance id: id=%s", id)
	return id, nil
}

// Static always returns ID.
type Static string

// InstanceID implements Identifier.
func (s Static) InstanceID(context.Context) (string, error) {
	if strings.TrimSpace(string(s)) == "" {
		return "", ErrEmptyID
	}
	return string(s), nil
}

// Cached remembers the identifier from Next in Store for MaxAge.
type Cached struct {
	Next   Identifier
	Store  *cacheutil.Store
	MaxAge time.Duration
}

// InstanceID implements Identifier.
func (c Cached) InstanceID(ctx context.Context) (string, error) {
	if b, ok := c.Store.Get(cacheKey, c.MaxAge); ok && len(b) > 0 {
		return string(b), nil
	}

	id, err := c.Next.InstanceID(ctx)
	if err != nil {
		return "", err
	}
	if err := c.Store.Put(cacheKey, []byte(id)); err != nil {
		log.WithError(err).Warnf("failed to cache instance id")
	}
	return id, nil
}

// FromEnv returns a Static identifier when OPSKIT_INSTANCE_ID, or its
// DEFAULT_ fallback, resolves to a non-empty value in env. Otherwise it
// returns fallback.
func FromEnv(env envdefault.Env, fallback Identifier) Identifier {
	env, res := envdefault.ResolveFromKey(env, OverrideKey)
	if id := env[OverrideKey]; strings.TrimSpace(id) != "" {
		log.Debugf("instance id override: applied=%t id=%s", res.Applied, id)
		return Static(id)
	}
	return fallback
}
