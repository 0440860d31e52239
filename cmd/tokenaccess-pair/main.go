// Utility for deriving a pre-shared key from a peer's public key.

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tokenaccess/otpkit/internal/log"
	"github.com/tokenaccess/otpkit/pkg/cli"
)

func writeErr(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, format, a...)
	fmt.Fprintf(os.Stderr, "\n")
}

const usageText = `
Derives the pre-shared key for an OTP relationship from the local private key (created with
tokenaccess-keygen), a peer's transport-encoded public key, and an agreed user identity. The PSK is
saved in the system keyring under -psk-name.

Both parties must use the same curve, encoding base, hash algorithm, and identity string;
mismatches are not detectable and silently produce different, non-interoperable keys.`

func cliUsage() {
	usage(flag.CommandLine.Output())
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "usage: %s [OPTION...] PEER_PUBLIC_KEY\n", filepath.Base(os.Args[0]))
	fmt.Fprintln(w, usageText)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "OPTIONS:")
	flag.PrintDefaults()
}

func main() {
	var (
		debug bool
		show  bool
	)
	status := 1
	defer func() {
		os.Exit(status)
	}()

	config := cli.NewConfig(cli.FlagAll)
	config.RegisterCommandLineFlags()
	flag.Usage = cliUsage
	flag.BoolVar(&debug, "debug", false, "Enable verbose debugging messages")
	flag.BoolVar(&show, "show", false, "Print the derived PSK to stdout instead of storing it")
	flag.Parse()
	if debug {
		log.SetLevel(log.LevelDebug)
	}
	config.ReadFromEnvironment()

	if flag.NArg() != 1 {
		usage(os.Stderr)
		return
	}
	peerKey := flag.Arg(0)

	if config.Identity == "" {
		writeErr("Must provide the agreed user identity with -identity (or $%s)", cli.EnvIdentity)
		return
	}

	exchange, err := config.LoadPrivateKey()
	if err != nil {
		writeErr("Failed to load key: %s", err)
		return
	}
	defer exchange.Close()

	psk, err := exchange.DerivePSK(peerKey, config.Identity)
	if err != nil {
		writeErr("Failed to derive PSK: %s", err)
		return
	}

	if show {
		fmt.Println(psk)
		status = 0
		return
	}

	if err := config.SavePSK(psk); err != nil {
		writeErr("Failed to save PSK to keyring: %s", err)
		return
	}
	log.Info("Stored PSK for identity '%s'", config.Identity)
	status = 0
}
