// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package msa holds the in-memory representation of a multiple-sequence
// alignment: an ordered set of named, gapped sequences which all have the
// same length.  An Alignment is immutable once built; operations which
// change its content (clipping, masking) return a new Alignment.
package msa
