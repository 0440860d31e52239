// Utility for hashing text and checking a hash against text.

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tokenaccess/otpkit/pkg/cli"
	"github.com/tokenaccess/otpkit/pkg/digest"
)

func writeErr(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, format, a...)
	fmt.Fprintf(os.Stderr, "\n")
}

const usageText = `
Computes the base-encoded hash of a line of text, or checks text against a previously computed
hash. The text is read from the terminal without echo, so the tool is suitable for hashing
passwords.

With no argument, prints the hash. With REFERENCE_HASH, exits 0 if the text hashes to the
reference and 1 otherwise; the comparison is constant-time.`

func usage(w io.Writer) {
	fmt.Fprintf(w, "usage: %s [OPTION...] [REFERENCE_HASH]\n", filepath.Base(os.Args[0]))
	fmt.Fprintln(w, usageText)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "OPTIONS:")
	flag.PrintDefaults()
}

func main() {
	status := 1
	defer func() {
		os.Exit(status)
	}()

	config := cli.NewConfig(cli.FlagCrypto)
	config.RegisterCommandLineFlags()
	flag.Usage = func() { usage(flag.CommandLine.Output()) }
	flag.Parse()
	config.ReadFromEnvironment()

	if flag.NArg() > 1 {
		usage(os.Stderr)
		return
	}

	opts, err := config.PairingOptions()
	if err != nil {
		writeErr("Invalid configuration: %s", err)
		return
	}
	engine := digest.Engine{Base: opts.Base, Algorithm: opts.Algorithm}

	plaintext, err := cli.PromptSecret("Text")
	if err != nil {
		writeErr("Failed to read text: %s", err)
		return
	}

	if flag.NArg() == 0 {
		fmt.Println(engine.Hash([]byte(plaintext)))
		status = 0
		return
	}

	if engine.Verify([]byte(plaintext), flag.Arg(0)) {
		fmt.Println("match")
		status = 0
		return
	}
	writeErr("mismatch")
}
