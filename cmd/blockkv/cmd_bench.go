package main

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/h5s3/h5s3/internal/backend"
	"github.com/h5s3/h5s3/internal/errors"
)

var benchConcurrency int

var cmdBench = &cobra.Command{
	Use:   "bench <n>",
	Short: "Issue n concurrent random-page reads against the backend",
	Long: `
The "bench" command issues <n> concurrent Read calls at random page ids
within the backend's current extent, the same workload shape as h5s3's
concurrent-read benchmark against its S3 store, and reports throughput.
It talks to the backend directly rather than through the page cache,
since the cache assumes a single caller.
`,
	Args:              cobra.ExactArgs(1),
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return errors.ConfigError("invalid n %q: must be a positive integer", args[0])
		}

		be, err := openBackend(cmd.Context())
		if err != nil {
			return err
		}
		defer be.Close()

		maxPage, ok := be.MaxPage()
		if !ok {
			return errors.ConfigError("backend has no pages to read")
		}

		start := time.Now()
		if err := runBench(cmd.Context(), be, n, maxPage, benchConcurrency); err != nil {
			return err
		}
		elapsed := time.Since(start)

		pageSize := be.PageSize()
		bytesRead := int64(n) * int64(pageSize)
		fmt.Printf("%d reads, %d bytes, %s (%.1f MiB/s)\n",
			n, bytesRead, elapsed, float64(bytesRead)/elapsed.Seconds()/(1<<20))
		return nil
	},
}

func runBench(ctx context.Context, be backend.Backend, n int, maxPage backend.PageID, concurrency int) error {
	group, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		group.SetLimit(concurrency)
	}

	pageSize := be.PageSize()
	for i := 0; i < n; i++ {
		id := backend.PageID(rand.Int63n(int64(maxPage) + 1))
		group.Go(func() error {
			buf := make([]byte, pageSize)
			return be.Read(ctx, id, buf)
		})
	}
	return group.Wait()
}

func init() {
	cmdBench.Flags().IntVar(&benchConcurrency, "concurrency", 16, "maximum concurrent reads in flight")
	cmdRoot.AddCommand(cmdBench)
}
