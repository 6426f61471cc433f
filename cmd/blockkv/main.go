// Command blockkv is an operator CLI over the block-device stack in
// internal/backend, internal/page and internal/driver: open a backend,
// inspect or modify its extent, and read or write raw byte ranges,
// following the shape of restic's cmd/restic command tree.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/h5s3/h5s3/internal/backend"
	"github.com/h5s3/h5s3/internal/backend/local"
	"github.com/h5s3/h5s3/internal/backend/s3"
	"github.com/h5s3/h5s3/internal/driver"
	"github.com/h5s3/h5s3/internal/errors"
	"github.com/h5s3/h5s3/internal/options"
)

type globalOptions struct {
	URI        string
	BackendID  string
	Create     bool
	PageSize   int
	CachePages int
	AccessKey  string
	SecretKey  string
	Region     string
	Host       string
	TLS        bool
	Extended   []string
}

var globalOpts globalOptions

var cmdRoot = &cobra.Command{
	Use:   "blockkv",
	Short: "Inspect and drive a paged key-value block device",
	Long: `
blockkv opens a backend (a local directory or an S3 prefix) through the
same page table and driver a host file format library would use, and
exposes its operations — read, write, flush, truncate, stat — as
subcommands.
`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	DisableAutoGenTag: true,
}

func init() {
	f := cmdRoot.PersistentFlags()
	f.StringVar(&globalOpts.URI, "uri", "", "backend URI (a directory path, or s3://bucket/path)")
	f.StringVar(&globalOpts.BackendID, "backend", "local", "backend kind: local or s3")
	f.BoolVar(&globalOpts.Create, "create", false, "create the backend's storage if it does not exist")
	f.IntVar(&globalOpts.PageSize, "page-size", 0, "requested page size in bytes (0: adopt stored or default)")
	f.IntVar(&globalOpts.CachePages, "cache-pages", 0, "resident page cache size (0: default, 4GiB worth of pages)")
	f.StringVar(&globalOpts.AccessKey, "access-key", os.Getenv("BLOCKKV_ACCESS_KEY"), "S3 access key")
	f.StringVar(&globalOpts.SecretKey, "secret-key", os.Getenv("BLOCKKV_SECRET_KEY"), "S3 secret key")
	f.StringVar(&globalOpts.Region, "region", "", "S3 region")
	f.StringVar(&globalOpts.Host, "host", "", "S3 endpoint host override (path-style addressing)")
	f.BoolVar(&globalOpts.TLS, "tls", true, "use TLS against the S3 endpoint")
	f.StringArrayVarP(&globalOpts.Extended, "option", "o", nil, "extended backend option (key=value)")
}

func main() {
	if err := cmdRoot.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// openBackend dispatches to the requested backend kind per globalOpts,
// mirroring internal/backend's "from_params" factory contract.
func openBackend(ctx context.Context) (backend.Backend, error) {
	if globalOpts.URI == "" {
		return nil, errors.ConfigError("--uri is required")
	}
	extra, err := options.Parse(globalOpts.Extended)
	if err != nil {
		return nil, err
	}

	params := backend.OpenParams{
		URI:       globalOpts.URI,
		Create:    globalOpts.Create,
		PageSize:  globalOpts.PageSize,
		AccessKey: globalOpts.AccessKey,
		SecretKey: globalOpts.SecretKey,
		Region:    globalOpts.Region,
		Host:      globalOpts.Host,
		UseTLS:    globalOpts.TLS,
		Extra:     extra,
	}

	switch globalOpts.BackendID {
	case "local":
		return local.FromParams(ctx, params)
	case "s3":
		return s3.FromParams(ctx, params)
	default:
		return nil, errors.ConfigError("unknown backend kind %q", globalOpts.BackendID)
	}
}

// openDriver opens the backend named by globalOpts and binds it to a
// Driver. Callers are responsible for Close()ing it.
func openDriver(ctx context.Context) (*driver.Driver, error) {
	be, err := openBackend(ctx)
	if err != nil {
		return nil, err
	}
	return driver.Open(be, globalOpts.CachePages), nil
}
