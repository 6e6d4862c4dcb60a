/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

/*
Package main is the entry point for ledgerdb-dump, a read-only
inspection tool for a persistence core log file.

Usage:

	ledgerdb-dump -f <path> [options]

Options:

	-f <path>              Log file path (required)
	-threshold <float>     Corruption alert threshold (default 0.1)
	-passphrase <string>   Decrypt records with this passphrase before folding
	-v                     Print every live document's _id, one per line

ledgerdb-dump never writes to the log: unlike opening the persistence
controller (which always runs a reopen compaction as part of load), it
streams and folds the log directly through the same C2/C3 components
the controller uses internally, and stops there.
*/
package main

import (
	"flag"
	"fmt"
	"os"

	"ledgerdb/internal/codec"
	"ledgerdb/internal/crypt"
	"ledgerdb/internal/fold"
)

func main() {
	path := flag.String("f", "", "log file path (required)")
	threshold := flag.Float64("threshold", fold.DefaultCorruptAlertThreshold, "corruption alert threshold")
	passphrase := flag.String("passphrase", "", "decrypt records with this passphrase before folding")
	verbose := flag.Bool("v", false, "print every live document's _id")
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "ledgerdb-dump: -f <path> is required")
		flag.Usage()
		os.Exit(1)
	}

	if err := run(*path, *threshold, *passphrase, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "ledgerdb-dump: %v\n", err)
		os.Exit(1)
	}
}

func run(path string, threshold float64, passphrase string, verbose bool) error {
	c, err := resolveCodec(passphrase)
	if err != nil {
		return err
	}

	result, err := fold.Fold(path, c, threshold)
	if err != nil {
		return err
	}

	ratio := 0.0
	if result.Total > 0 {
		ratio = float64(result.Corrupt) / float64(result.Total)
	}

	fmt.Printf("live documents:      %d\n", len(result.Live))
	fmt.Printf("index declarations:  %d\n", len(result.Indexes))
	for field, decl := range result.Indexes {
		fmt.Printf("  - %s (unique=%v sparse=%v)\n", field, decl.Unique, decl.Sparse)
	}
	fmt.Printf("total records:       %d\n", result.Total)
	fmt.Printf("corrupt records:     %d\n", result.Corrupt)
	fmt.Printf("corruption ratio:    %.4f\n", ratio)

	if verbose {
		for _, doc := range result.Live {
			fmt.Println(doc.ID())
		}
	}
	return nil
}

func resolveCodec(passphrase string) (*codec.Codec, error) {
	if passphrase == "" {
		return codec.New(nil, nil)
	}
	cipher, err := crypt.New(crypt.Config{Passphrase: passphrase})
	if err != nil {
		return nil, err
	}
	return codec.New(cipher.EncodeText, cipher.DecodeText)
}
