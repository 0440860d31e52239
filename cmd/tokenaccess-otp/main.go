// Utility for generating and verifying HOTP codes against a stored PSK.

package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"github.com/tokenaccess/otpkit/internal/log"
	"github.com/tokenaccess/otpkit/pkg/cache"
	"github.com/tokenaccess/otpkit/pkg/cli"
	"github.com/tokenaccess/otpkit/pkg/digest"
	"github.com/tokenaccess/otpkit/pkg/encoding"
	"github.com/tokenaccess/otpkit/pkg/hotp"
)

func writeErr(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, format, a...)
	fmt.Fprintf(os.Stderr, "\n")
}

const usageText = `
 * Generating or verifying a code requires a PSK stored with tokenaccess-pair (-psk-name).
 * The "next" and "verify" commands keep counters synchronized through the -counter-cache file.
 * With no COMMAND, starts an interactive shell.`

// A session holds everything a command needs: the decodable PSK, the
// cryptographic parameters, and the counter state for the configured
// identity.
type session struct {
	psk       string
	base      encoding.Base
	alg       digest.Algorithm
	digits    int
	identity  string
	counters  *cache.CounterCache
	cacheFile string
}

type command struct {
	help    string
	argDesc string
	handler func(s *session, args []string) error
}

var commands = map[string]*command{
	"code": {
		help:    "Print the code for an explicit counter value (stateless).",
		argDesc: "COUNTER",
		handler: runCode,
	},
	"next": {
		help:    "Print the code for the next counter and advance the cached counter.",
		handler: runNext,
	},
	"verify": {
		help:    "Verify a code against the cached counter with look-ahead; advances on success.",
		argDesc: "CODE",
		handler: runVerify,
	},
	"status": {
		help:    "Show the cached counter state for the configured identity.",
		handler: runStatus,
	},
}

func runCode(s *session, args []string) error {
	counter, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("counter must be a non-negative integer: %s", err)
	}
	code, err := hotp.Generate(s.psk, counter, s.base, s.alg, s.digits)
	if err != nil {
		return err
	}
	fmt.Println(code)
	return nil
}

func runNext(s *session, args []string) error {
	var window hotp.SlidingWindow
	counter := uint64(0)
	if state, ok := s.counters.GetEntry(s.identity); ok {
		window.Restore(state.Counter, state.History)
		counter = state.Counter + 1
	}
	code, err := hotp.Generate(s.psk, counter, s.base, s.alg, s.digits)
	if err != nil {
		return err
	}
	window.Update(counter)
	s.counters.Update(s.identity, window.Counter(), window.History())
	fmt.Println(code)
	return nil
}

func runVerify(s *session, args []string) error {
	verifier := hotp.Verifier{
		PSK:       s.psk,
		Base:      s.base,
		Algorithm: s.alg,
		Digits:    s.digits,
	}
	if state, ok := s.counters.GetEntry(s.identity); ok {
		verifier.Window().Restore(state.Counter, state.History)
	}
	counter, ok := verifier.Verify(args[0])
	if !ok {
		return errors.New("code rejected")
	}
	window := verifier.Window()
	s.counters.Update(s.identity, window.Counter(), window.History())
	fmt.Printf("code accepted (counter %d)\n", counter)
	return nil
}

func runStatus(s *session, args []string) error {
	state, ok := s.counters.GetEntry(s.identity)
	if !ok {
		fmt.Printf("no counter state for identity '%s'\n", s.identity)
		return nil
	}
	fmt.Printf("identity %s: counter %d, history %#016x, updated %s\n",
		s.identity, state.Counter, state.History, state.UpdatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func execute(s *session, args []string) error {
	info, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unrecognized command: %s", args[0])
	}
	wantArgs := 0
	if info.argDesc != "" {
		wantArgs = 1
	}
	if len(args)-1 != wantArgs {
		return fmt.Errorf("usage: %s %s", args[0], info.argDesc)
	}
	return info.handler(s, args[1:])
}

func runInteractiveShell(s *session) int {
	scanner := bufio.NewScanner(os.Stdin)
	for fmt.Printf("> "); scanner.Scan(); fmt.Printf("> ") {
		args, err := shlex.Split(scanner.Text())
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" {
			return 0
		}
		if err != nil {
			writeErr("Invalid command: %s", err)
			continue
		}
		if err := execute(s, args); err != nil {
			writeErr("%s", err)
		}
	}
	if err := scanner.Err(); err != nil {
		writeErr("Error reading command: %s", err)
		return 1
	}
	return 0
}

func Usage() {
	fmt.Printf("Usage: %s [OPTION...] [COMMAND [ARG]]\n", os.Args[0])
	fmt.Println(usageText)
	fmt.Println("")
	fmt.Printf("Available OPTIONs:\n")
	flag.PrintDefaults()
	fmt.Println("")
	fmt.Printf("Available COMMANDs:\n")
	maxLength := 0
	var labels []string
	for name := range commands {
		labels = append(labels, name)
		if len(name) > maxLength {
			maxLength = len(name)
		}
	}
	sort.Strings(labels)
	for _, name := range labels {
		fmt.Printf("  %s%s %s\n", name, strings.Repeat(" ", maxLength-len(name)), commands[name].help)
	}
}

func main() {
	status := 1
	defer func() {
		os.Exit(status)
	}()

	var debug bool
	config := cli.NewConfig(cli.FlagCrypto | cli.FlagPSK)
	flag.Usage = Usage
	flag.BoolVar(&debug, "debug", false, "Enable verbose debugging messages")
	config.RegisterCommandLineFlags()
	flag.Parse()
	if debug {
		log.SetLevel(log.LevelDebug)
	}
	config.ReadFromEnvironment()

	opts, err := config.PairingOptions()
	if err != nil {
		writeErr("Invalid configuration: %s", err)
		return
	}
	digits, err := config.CodeDigits()
	if err != nil {
		writeErr("Invalid configuration: %s", err)
		return
	}
	if config.Identity == "" {
		writeErr("Must provide the agreed user identity with -identity (or $%s)", cli.EnvIdentity)
		return
	}

	psk, err := config.LoadPSK()
	if err != nil {
		writeErr("Failed to load PSK: %s", err)
		return
	}

	s := session{
		psk:       psk,
		base:      opts.Base,
		alg:       opts.Algorithm,
		digits:    digits,
		identity:  config.Identity,
		counters:  cache.New(0),
		cacheFile: config.CacheFilename,
	}
	if s.cacheFile != "" {
		if counters, err := cache.ImportFromFile(s.cacheFile); err == nil {
			s.counters = counters
		} else if !os.IsNotExist(err) {
			writeErr("Failed to load counter cache: %s", err)
			return
		}
	}
	defer func() {
		if s.cacheFile != "" {
			if err := s.counters.ExportToFile(s.cacheFile); err != nil {
				log.Error("Error updating counter cache: %s", err)
			}
		}
	}()

	if flag.NArg() == 0 {
		status = runInteractiveShell(&s)
		return
	}

	if err := execute(&s, flag.Args()); err != nil {
		writeErr("%s", err)
		return
	}
	status = 0
}
