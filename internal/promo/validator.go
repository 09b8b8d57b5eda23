package promo

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
)

// Per-file filter sizing. Promo files hold up to a few million codes each;
// at this capacity and false-positive rate a filter stays under 4MB.
const (
	filterCapacity = 1_000_000
	filterFalsePos = 0.0001
)

// Validator checks promo codes against a set of code files. A code is
// considered valid when it appears in at least two files. Each file is held
// as a Bloom filter, so validity is probabilistic with a small
// false-positive rate and no false negatives.
type Validator struct {
	mu      sync.RWMutex
	filters []*bloom.BloomFilter
	counts  []int
}

// sourceResult holds the outcome of loading a single source.
type sourceResult struct {
	index  int
	filter *bloom.BloomFilter
	count  int
	err    error
}

// NewValidator creates an empty validator. With no sources loaded, every code
// is invalid.
func NewValidator() *Validator {
	return &Validator{}
}

// LoadSources loads gzipped newline-delimited code files concurrently. Each
// source is either an http(s) URL or a local file path. Any failed source
// fails the whole load.
func (v *Validator) LoadSources(ctx context.Context, sources []string) error {
	if len(sources) == 0 {
		return fmt.Errorf("no promo sources provided")
	}

	resultChan := make(chan sourceResult, len(sources))
	var wg sync.WaitGroup

	for i, src := range sources {
		wg.Add(1)
		go func(index int, source string) {
			defer wg.Done()

			filter, count, err := loadSource(ctx, source)
			resultChan <- sourceResult{index: index, filter: filter, count: count, err: err}
		}(i, src)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]sourceResult, len(sources))
	for result := range resultChan {
		results[result.index] = result
	}

	for i, result := range results {
		if result.err != nil {
			return fmt.Errorf("failed to load promo source %d: %w", i+1, result.err)
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.filters = make([]*bloom.BloomFilter, len(results))
	v.counts = make([]int, len(results))
	for i, result := range results {
		v.filters[i] = result.filter
		v.counts[i] = result.count
	}
	return nil
}

// loadSource opens a single gzipped source and feeds its codes into a fresh
// Bloom filter.
func loadSource(ctx context.Context, source string) (*bloom.BloomFilter, int, error) {
	reader, err := openSource(ctx, source)
	if err != nil {
		return nil, 0, err
	}
	defer reader.Close()

	gzReader, err := gzip.NewReader(reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzReader.Close()

	return buildFilter(gzReader)
}

// openSource returns a reader for an http(s) URL or a local file path.
func openSource(ctx context.Context, source string) (io.ReadCloser, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		// Large files need more time than the default transport allows.
		client := &http.Client{Timeout: 5 * time.Minute}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to download file: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		return resp.Body, nil
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

// buildFilter reads newline-delimited codes into a Bloom filter.
func buildFilter(r io.Reader) (*bloom.BloomFilter, int, error) {
	filter := bloom.NewWithEstimates(filterCapacity, filterFalsePos)
	count := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		filter.AddString(line)
		count++
	}

	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("error reading file: %w", err)
	}
	return filter, count, nil
}

// IsValid checks a promo code. A code is valid when:
//  1. It has 8-10 characters.
//  2. It appears in at least 2 of the loaded files.
func (v *Validator) IsValid(code string) bool {
	if len(code) < 8 || len(code) > 10 {
		return false
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	if len(v.filters) == 0 {
		return false
	}

	hits := 0
	for _, filter := range v.filters {
		if filter.TestString(code) {
			hits++
			if hits >= 2 {
				return true
			}
		}
	}
	return false
}

// Stats returns load statistics for logging and the stats endpoint.
func (v *Validator) Stats() map[string]interface{} {
	v.mu.RLock()
	defer v.mu.RUnlock()

	total := 0
	sizes := make([]int, len(v.counts))
	copy(sizes, v.counts)
	for _, n := range v.counts {
		total += n
	}

	return map[string]interface{}{
		"total_files": len(v.filters),
		"file_sizes":  sizes,
		"total_codes": total,
	}
}
