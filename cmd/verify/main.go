// Command verify recomputes provably-fair results offline from a nonce and
// client seed, without talking to the API.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"cartel47-backend/internal/rng"
	"cartel47-backend/internal/services"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run returns 0 when the result was computed and any claim matched, 1 when
// a claim did not match, 2 on usage errors.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("verify", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var (
		nonce      string
		clientSeed string
		hash       string
		number     int
		count      int
		modulus    int
		shuffle    int
	)

	cmd.StringVar(&nonce, "nonce", "", "Server nonce revealed with the bet (REQUIRED)")
	cmd.StringVar(&clientSeed, "seed", "", "Client seed (REQUIRED)")
	cmd.StringVar(&hash, "hash", "", "Claimed hash to check")
	cmd.IntVar(&number, "number", -1, "Claimed derived number to check")
	cmd.IntVar(&count, "count", 0, "Also print a sequence of this many draws")
	cmd.IntVar(&modulus, "modulus", services.RollModulus, "Modulus for -count draws")
	cmd.IntVar(&shuffle, "shuffle", 0, "Also print a shuffle of this many items")

	if err := cmd.Parse(args); err != nil {
		return 2
	}

	if nonce == "" || clientSeed == "" {
		_, _ = fmt.Fprintln(stderr, "Error: --nonce and --seed are required")
		return 2
	}
	if count > 0 && modulus <= 0 {
		_, _ = fmt.Fprintln(stderr, "Error: --modulus must be positive")
		return 2
	}

	proof := services.BuildProof(nonce, clientSeed)

	claim := proof
	if hash != "" {
		claim.Hash = hash
	}
	if number >= 0 {
		claim.DerivedNumber = number
	}
	valid := services.VerifyProof(claim)

	out := struct {
		Algorithm string `json:"algorithm"`
		Proof     any    `json:"proof"`
		Valid     bool   `json:"valid"`
		Sequence  []int  `json:"sequence,omitempty"`
		Shuffle   []int  `json:"shuffle,omitempty"`
	}{
		Algorithm: rng.Algorithm,
		Proof:     proof,
		Valid:     valid,
	}
	if count > 0 {
		out.Sequence = rng.DeriveSequence(nonce, clientSeed, count, modulus)
	}
	if shuffle > 0 {
		out.Shuffle = rng.Shuffle(shuffle, nonce, clientSeed)
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if !valid {
		return 1
	}
	return 0
}
