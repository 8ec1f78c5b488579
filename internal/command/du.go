// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"time"

	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/urfave/cli/v3"

	awsx "github.com/staranto/opskit/internal/aws"
	"github.com/staranto/opskit/internal/cacheutil"
	"github.com/staranto/opskit/internal/config"
	"github.com/staranto/opskit/internal/diskpub"
	"github.com/staranto/opskit/internal/diskusage"
	"github.com/staranto/opskit/internal/envdefault"
	"github.com/staranto/opskit/internal/instance"
	"github.com/staranto/opskit/internal/log"
	"github.com/staranto/opskit/internal/meta"
)

const duAttrs = "sample.namespace:namespace,sample.metric:metric,sample.path:path," +
	"sample.instance_id:instance,sample.bytes:bytes,pushed,push_error:error,archive_url:archive"

// defaultInstanceCacheHours bounds how long a looked-up instance id is reused.
const defaultInstanceCacheHours = 24

// publisherFactory builds the Publisher for a du run. Tests swap it out to
// keep AWS out of the picture.
var publisherFactory = newAWSPublisher

func duCommandAction(ctx context.Context, cmd *cli.Command) error {
	namespace := cmd.Args().Get(0)
	folder := cmd.Args().Get(1)
	log.Debugf("du args: namespace=%s folder=%s", namespace, folder)

	// Fail before any client is built.
	if folder == "" {
		return diskpub.ErrUsage
	}
	if namespace == "" {
		namespace, _ = config.GetString("namespace", diskpub.DefaultNamespace)
	}

	if d := cmd.Duration("timeout"); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	// Status lines go to stderr when stdout carries a document.
	format := cmd.String("output")
	out := stdout(cmd)
	if format != "text" {
		out = stderr(cmd)
	}

	p, err := publisherFactory(ctx, cmd, out)
	if err != nil {
		return err
	}

	outcome, err := p.Run(ctx, namespace, folder)
	if err != nil {
		return err
	}

	if format != "text" {
		return EmitJSON(cmd, outcome, duAttrs)
	}
	return nil
}

// newAWSPublisher wires the Publisher to CloudWatch, IMDS and, when a bucket
// is configured, S3.
func newAWSPublisher(ctx context.Context, cmd *cli.Command, out io.Writer) (*diskpub.Publisher, error) {
	cfg, err := awsx.LoadAWSConfig(ctx,
		awsx.WithProfile(cmd.String("profile")),
		awsx.WithRegion(cmd.String("region")),
		awsx.WithEndpoint(cmd.String("endpoint")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	store, err := cacheutil.Open("instance")
	if err != nil {
		log.WithError(err).Warnf("instance id cache unavailable")
	}
	hours, _ := config.GetInt("cache_hours", defaultInstanceCacheHours)
	maxAge := time.Duration(hours) * time.Hour
	if err := store.Purge(maxAge); err != nil {
		log.WithError(err).Warnf("cache purge failed")
	}
	id := instance.FromEnv(envdefault.FromOS(), instance.Cached{
		Next:   instance.IMDS{Client: awsx.NewIMDS(cfg)},
		Store:  store,
		MaxAge: maxAge,
	})

	p := &diskpub.Publisher{
		Measurer:   newMeasurer(cmd),
		Identifier: id,
		Sink:       diskpub.CloudWatchSink{Client: awsx.NewCloudWatch(cfg)},
		MetricName: cmd.String("metric"),
		Out:        out,
	}

	if bucket := cmd.String("archive-bucket"); bucket != "" {
		var s3opts []func(*s3v2.Options)
		if cmd.String("endpoint") != "" {
			s3opts = append(s3opts, awsx.WithS3PathStyle())
		}
		p.Archiver = diskpub.S3Archiver{
			Client: awsx.NewS3(cfg, s3opts...),
			Bucket: bucket,
			Prefix: cmd.String("archive-prefix"),
		}
	}

	return p, nil
}

// newMeasurer builds the directory walker from the du flags. Every --exclude
// occurrence contributes a pattern.
func newMeasurer(cmd *cli.Command) diskusage.Walker {
	return diskusage.Walker{
		SkipUnreadable: cmd.Bool("skip-unreadable"),
		Exclude:        cmd.StringSlice("exclude"),
	}
}

func duCommandBuilder(meta meta.Meta) *cli.Command {
	ns, cf := "du", meta.ConfigFile()

	return &cli.Command{
		Name:      "du",
		Usage:     "publish folder disk usage as a metric",
		UsageText: "opskit du <namespace> <folder_path> [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			NameSpacedValueChainFlagFromConfigFile(ns, cf, &cli.StringFlag{
				Name:  "archive-bucket",
				Usage: "S3 bucket that receives a JSON copy of each sample",
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("OPSKIT_ARCHIVE_BUCKET"),
				),
			}),
			NameSpacedValueChainFlagFromConfigFile(ns, cf, &cli.StringFlag{
				Name:  "archive-prefix",
				Usage: "key prefix for archived samples",
				Value: "opskit",
			}),
			NameSpacedValueChainFlagFromConfigFile(ns, cf, &cli.StringFlag{
				Name:  "endpoint",
				Usage: "override the AWS service endpoint",
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("OPSKIT_AWS_ENDPOINT"),
				),
			}),
			&cli.StringSliceFlag{
				Name:    "exclude",
				Aliases: []string{"e"},
				Usage:   "glob patterns, relative to the folder, to leave out (** matches across directories)",
			},
			NameSpacedValueChainFlagFromConfigFile(ns, cf, &cli.StringFlag{
				Name:    "metric",
				Aliases: []string{"m"},
				Usage:   "metric name to publish",
				Value:   diskpub.DefaultMetricName,
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("OPSKIT_METRIC"),
				),
			}),
			NewProfileFlag(ns, cf),
			NewRegionFlag(ns, cf),
			&cli.BoolFlag{
				Name:  "skip-unreadable",
				Usage: "skip entries that cannot be read instead of failing",
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "bound the whole run, e.g. 30s",
				Sources: cli.ValueSourceChain{Chain: configSources(ns, cf, "timeout")},
			},
		}, NewGlobalFlags()...),
		Action: duCommandAction,
	}
}
