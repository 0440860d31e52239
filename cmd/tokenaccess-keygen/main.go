// Utility for generating, exporting, and deleting exchange key pairs.

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tokenaccess/otpkit/internal/log"
	"github.com/tokenaccess/otpkit/pkg/cli"
	"github.com/tokenaccess/otpkit/pkg/pairing"
)

func writeErr(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, format, a...)
	fmt.Fprintf(os.Stderr, "\n")
}

const usageText = `
Creates or deletes an exchange key pair, saving the private key in the system keyring.

The program writes the transport-encoded public key to stdout (except when deleting a key). Send
that string to your peer out of band; the curve and encoding base are not embedded in it and must
be agreed separately. When using the create option, the program will not overwrite an existing key
unless invoked with -f.

The type of keyring and name of the key inside that keyring are controlled by the command-line
options below, or through the corresponding environment variables.`

func cliUsage() {
	usage(flag.CommandLine.Output())
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "usage: %s [OPTION...] create|delete|export\n", filepath.Base(os.Args[0]))
	fmt.Fprintln(w, usageText)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "OPTIONS:")
	flag.PrintDefaults()
}

func main() {
	var (
		overwrite bool
		debug     bool
		exchange  *pairing.Exchange
		err       error
	)
	status := 1
	defer func() {
		os.Exit(status)
	}()

	config := cli.NewConfig(cli.FlagCrypto | cli.FlagPrivateKey)
	config.RegisterCommandLineFlags()
	flag.Usage = cliUsage
	flag.BoolVar(&overwrite, "f", false, "Overwrite existing key if it exists")
	flag.BoolVar(&debug, "debug", false, "Enable verbose debugging messages")
	flag.Parse()
	if debug {
		log.SetLevel(log.LevelDebug)
	}
	config.ReadFromEnvironment()

	if flag.NArg() != 1 {
		usage(os.Stderr)
		return
	}

	opts, err := config.PairingOptions()
	if err != nil {
		writeErr("Invalid configuration: %s", err)
		return
	}

	switch flag.Arg(0) {
	case "delete":
		if err := config.DeletePrivateKey(); err != nil {
			writeErr("Failed to delete key: %s", err)
		} else {
			status = 0
		}
		return
	case "export":
		exchange, err = config.LoadPrivateKey()
		if err != nil {
			writeErr("Failed to load key: %s", err)
			return
		}
		defer exchange.Close()
		fmt.Println(exchange.PublicKey())
		status = 0
		return
	case "create":
		if !overwrite {
			// Print key and exit if it already exists
			exchange, err = config.LoadPrivateKey()
			if err == nil {
				defer exchange.Close()
				fmt.Println(exchange.PublicKey())
				status = 0
				return
			}
		}
		exchange, err = pairing.New(opts)
		if err != nil {
			writeErr("Failed to generate key pair: %s", err)
			return
		}
		defer exchange.Close()
	default:
		writeErr("Unrecognized command-line argument.")
		writeErr("")
		usage(os.Stderr)
		return
	}

	if err = config.SavePrivateKey(exchange); err != nil {
		writeErr("Failed to save key to keyring: %s", err)
		return
	}

	fmt.Println(exchange.PublicKey())
	status = 0
}
