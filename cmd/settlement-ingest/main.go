// Command settlement-ingest imports settled transaction references from the
// gateway's daily export files.
//
// The gateway keeps writing a settlement line into consecutive daily
// exports until the merchant acknowledges it, so a reference is treated as
// confirmed once it appears in at least two export files. The files are
// large (tens of millions of lines), so pass one builds a bloom filter per
// file and pass two only keeps references another file's filter also knows.
// Confirmed references are upserted into the settlements table.
//
// Export line format: <reference>,<amount>.
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"math/bits"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/checkout-gateway/internal/storage/postgres"
)

const (
	bloomCapacity = 50_000_000
	bloomFPR      = 0.001
	progressEvery = 5_000_000
	minRefLen     = 8
	maxRefLen     = 64
)

// settlementLine is one parsed export line.
type settlementLine struct {
	reference string
	amount    decimal.Decimal
}

// fileResult holds candidate references found in a single file during pass 2.
type fileResult struct {
	candidates map[string]uint
	amounts    map[string]decimal.Decimal
}

func main() {
	var (
		dataDir     string
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing settlementN.gz export files")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, databaseURL); err != nil {
		slog.Error("settlement ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("settlement ingest completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string) error {
	matches, err := filepath.Glob(filepath.Join(dataDir, "settlement*.gz"))
	if err != nil {
		return errors.Wrap(err, "list export files")
	}
	if len(matches) < 2 {
		return errors.Errorf("need at least 2 export files to confirm settlements, found %d", len(matches))
	}

	// Pass 1: build one bloom filter per file, concurrently.
	slog.Info("pass 1: building bloom filters", slog.Int("files", len(matches)))

	filters, err := buildBloomFilters(ctx, matches)
	if err != nil {
		return errors.Wrap(err, "build bloom filters")
	}

	// Pass 2: keep references appearing in 2+ files.
	slog.Info("pass 2: finding confirmed references")

	confirmed, err := findConfirmed(ctx, matches, filters)
	if err != nil {
		return errors.Wrap(err, "find confirmed references")
	}

	slog.Info("confirmed settlements found", slog.Int("count", len(confirmed)))
	if len(confirmed) == 0 {
		return nil
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := writeSettlements(ctx, postgres.NewSettlementRepository(pool), confirmed); err != nil {
		return errors.Wrap(err, "write settlements to database")
	}

	return nil
}

// buildBloomFilters creates one bloom filter per file, concurrently.
func buildBloomFilters(ctx context.Context, files []string) ([]*bloom.BloomFilter, error) {
	filters := make([]*bloom.BloomFilter, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(buildFilterForFile(ctx, i, f, filters))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return filters, nil
}

func buildFilterForFile(ctx context.Context, idx int, path string, filters []*bloom.BloomFilter) func() error {
	return func() error {
		filter := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
		var count uint64

		if err := streamGzFile(ctx, path, func(line settlementLine) {
			filter.AddString(line.reference)
			count++
			if count%progressEvery == 0 {
				slog.Info("pass 1 progress",
					slog.Int("file", idx+1),
					slog.Uint64("references", count),
				)
			}
		}); err != nil {
			return errors.Wrapf(err, "build filter for file %d", idx+1)
		}

		slog.Info("pass 1 complete",
			slog.Int("file", idx+1),
			slog.Uint64("total_references", count),
		)

		filters[idx] = filter
		return nil
	}
}

// findConfirmed re-streams each file and checks references against OTHER
// files' bloom filters. A reference is confirmed when it appears in 2 or
// more files; the amount from the last file wins.
func findConfirmed(ctx context.Context, files []string, filters []*bloom.BloomFilter) (map[string]decimal.Decimal, error) {
	results := make([]fileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(findCandidatesInFile(ctx, i, f, filters, results))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Merge bitmasks from all files.
	merged := make(map[string]uint)
	amounts := make(map[string]decimal.Decimal)
	for _, r := range results {
		for ref, mask := range r.candidates {
			merged[ref] |= mask
			amounts[ref] = r.amounts[ref]
		}
	}

	confirmed := make(map[string]decimal.Decimal)
	for ref, mask := range merged {
		if bits.OnesCount(mask) >= 2 {
			confirmed[ref] = amounts[ref]
		}
	}

	return confirmed, nil
}

func findCandidatesInFile(
	ctx context.Context,
	idx int,
	path string,
	filters []*bloom.BloomFilter,
	results []fileResult,
) func() error {
	return func() error {
		candidates := make(map[string]uint)
		amounts := make(map[string]decimal.Decimal)
		fileBit := uint(1) << uint(idx)
		var count uint64

		if err := streamGzFile(ctx, path, func(line settlementLine) {
			count++
			if count%progressEvery == 0 {
				slog.Info("pass 2 progress",
					slog.Int("file", idx+1),
					slog.Uint64("references", count),
				)
			}

			// Check if this reference appears in any OTHER file's filter.
			for j, f := range filters {
				if j == idx {
					continue
				}
				if f.TestString(line.reference) {
					candidates[line.reference] |= fileBit
					amounts[line.reference] = line.amount
					break
				}
			}
		}); err != nil {
			return errors.Wrapf(err, "scan file %d for candidates", idx+1)
		}

		slog.Info("pass 2 complete",
			slog.Int("file", idx+1),
			slog.Uint64("total_references", count),
			slog.Int("candidates", len(candidates)),
		)

		results[idx] = fileResult{candidates: candidates, amounts: amounts}
		return nil
	}
}

// streamGzFile opens a gzip-compressed export and calls fn for each
// well-formed line. Malformed lines are skipped.
func streamGzFile(ctx context.Context, path string, fn func(line settlementLine)) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}
		fn(line)
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}

// parseLine splits "<reference>,<amount>" and validates both parts.
func parseLine(raw string) (settlementLine, bool) {
	ref, amountStr, ok := strings.Cut(raw, ",")
	if !ok {
		return settlementLine{}, false
	}
	if len(ref) < minRefLen || len(ref) > maxRefLen {
		return settlementLine{}, false
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(amountStr))
	if err != nil {
		return settlementLine{}, false
	}
	return settlementLine{reference: ref, amount: amount}, true
}

// writeSettlements upserts all confirmed references into the database.
func writeSettlements(ctx context.Context, repo *postgres.SettlementRepository, confirmed map[string]decimal.Decimal) error {
	slog.Info("writing settlements to database", slog.Int("count", len(confirmed)))

	written := 0
	for ref, amount := range confirmed {
		if err := repo.Upsert(ctx, ref, amount); err != nil {
			return errors.Wrapf(err, "upsert settlement %s", ref)
		}
		written++
		if written%100 == 0 || written == len(confirmed) {
			slog.Info("write progress", slog.Int("written", written), slog.Int("total", len(confirmed)))
		}
	}

	return nil
}
