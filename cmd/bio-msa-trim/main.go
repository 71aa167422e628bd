// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

/*
bio-msa-trim trims the ragged edges of multiple-sequence alignments stored as
aligned FASTA, and screens alignments by the number of taxa they contain.

	bio-msa-trim trim -out trimmed -summary trimmed/summary.tsv -dir alignments
	bio-msa-trim screen -taxa 40 -percent 0.75 -out complete -dir alignments
*/

import (
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/msatrim/cmd/bio-msa-trim/cmd"
)

func main() {
	shutdown := grail.Init()
	code := cmd.Run()
	shutdown()
	os.Exit(code)
}
