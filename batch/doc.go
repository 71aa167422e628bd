// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package batch trims or screens many alignment files in parallel and
// reports a per-file outcome.
//
// Each input is read with encoding/fasta, optionally screened for a minimum
// number of taxa, trimmed with trim.Trim, and, if it survives, written under
// the output directory with its original basename.  Inputs whose basenames
// collide are reported as errors rather than written.  A dropped or failed
// input never stops the batch; it is recorded with its state and reason in
// the Summary, which can be written as TSV with WriteSummary.
package batch
