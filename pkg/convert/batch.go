// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package convert

import (
	"github.com/gomlx/layoutconv/internal/workerspool"
	"github.com/gomlx/layoutconv/pkg/source"
)

// ConvertAll converts the graphs concurrently, with at most parallelism conversions running at the same time:
// 0 converts them one after the other, and a negative value doesn't limit it.
//
// results[ii] and errs[ii] are the outcome of Convert(graphs[ii]). The conversions are independent: the failure
// of one doesn't stop the others.
//
// The Converter must not be reconfigured while ConvertAll is running.
func (c *Converter) ConvertAll(graphs []*source.Graph, parallelism int) (results []*Result, errs []error) {
	results = make([]*Result, len(graphs))
	errs = make([]error, len(graphs))
	pool := workerspool.New().SetMaxParallelism(parallelism)
	for ii, g := range graphs {
		pool.WaitToStart(func() {
			results[ii], errs[ii] = c.Convert(g)
		})
	}
	pool.Wait()
	return
}
