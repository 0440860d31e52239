package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/99designs/keyring"
	"golang.org/x/term"

	"github.com/tokenaccess/otpkit/internal/agreement"
	"github.com/tokenaccess/otpkit/pkg/pairing"
)

const (
	keyringServiceName = "org.tokenaccess.otpkit"
	keyringKeyService  = "exchangeKey"
	keyringPSKService  = "preSharedKey"
	keyringDirectory   = "~/.tokenaccess_keys"
)

type backendType struct {
	config *Config
}

func (b backendType) String() string {
	if b.config == nil || len(b.config.Backend.AllowedBackends) == 0 {
		return string(keyring.InvalidBackend)
	}
	return string(b.config.Backend.AllowedBackends[0])
}

func (b backendType) Set(v string) error {
	value := keyring.BackendType(v)
	if b.config == nil {
		return fmt.Errorf("invalid backendType")
	}
	if v == "" {
		return nil
	}
	for _, name := range keyring.AvailableBackends() {
		if name == value {
			b.config.Backend.AllowedBackends = []keyring.BackendType{name}
			return nil
		}
	}
	return fmt.Errorf("unsupported credential storage")
}

func (c *Config) getPassword(prompt string) (string, error) {
	if c.password != nil && *c.password != "" {
		return *c.password, nil
	}

	password, err := PromptSecret(prompt)
	if err != nil {
		return "", err
	}
	c.password = &password
	return password, nil
}

// PromptSecret reads a line from the controlling terminal without echo.
func PromptSecret(prompt string) (string, error) {
	var w io.Writer
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		fd = int(os.Stderr.Fd())
		if !term.IsTerminal(fd) {
			return "", fmt.Errorf("no terminal output available for prompt")
		}
		w = os.Stderr
	} else {
		w = os.Stdout
	}

	fmt.Fprintf(w, "%s: ", prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", err
	}
	fmt.Fprintln(w)
	return string(b), nil
}

func (c *Config) openKeyring() (keyring.Keyring, error) {
	return keyring.Open(c.Backend)
}

func (c *Config) fullKeyName() string {
	return keyringKeyService + "." + c.KeyName
}

func (c *Config) fullPSKName() string {
	return keyringPSKService + "." + c.PSKName
}

// SavePrivateKey writes the exchange's private scalar to the system keyring
// under the configured key name.
func (c *Config) SavePrivateKey(x *pairing.Exchange) error {
	kr, err := c.openKeyring()
	if err != nil {
		return err
	}

	scalar := x.PrivateBytes()
	defer agreement.Zeroize(scalar)

	if err := kr.Set(keyring.Item{
		Key:  c.fullKeyName(),
		Data: scalar,
	}); err != nil {
		return fmt.Errorf("failed to enroll key in keyring: %s", err)
	}
	return nil
}

// LoadPrivateKey reads a private scalar from the system keyring and rebuilds
// the exchange around it using the configured pairing options.
func (c *Config) LoadPrivateKey() (*pairing.Exchange, error) {
	opts, err := c.PairingOptions()
	if err != nil {
		return nil, err
	}
	kr, err := c.openKeyring()
	if err != nil {
		return nil, err
	}
	item, err := kr.Get(c.fullKeyName())
	if err != nil {
		return nil, fmt.Errorf("could not load key: %s", err)
	}
	defer agreement.Zeroize(item.Data)
	return pairing.Resume(opts, item.Data)
}

// DeletePrivateKey removes the private key from the system keyring.
func (c *Config) DeletePrivateKey() error {
	kr, err := c.openKeyring()
	if err != nil {
		return err
	}
	return kr.Remove(c.fullKeyName())
}

// SavePSK writes a derived pre-shared key to the system keyring under the
// configured PSK name.
func (c *Config) SavePSK(psk string) error {
	kr, err := c.openKeyring()
	if err != nil {
		return err
	}
	if err := kr.Set(keyring.Item{
		Key:  c.fullPSKName(),
		Data: []byte(psk),
	}); err != nil {
		return fmt.Errorf("failed to enroll PSK in keyring: %s", err)
	}
	return nil
}

// LoadPSK reads a previously stored pre-shared key from the system keyring.
func (c *Config) LoadPSK() (string, error) {
	kr, err := c.openKeyring()
	if err != nil {
		return "", err
	}
	item, err := kr.Get(c.fullPSKName())
	if err != nil {
		return "", fmt.Errorf("could not load PSK: %s", err)
	}
	return string(item.Data), nil
}

// DeletePSK removes the pre-shared key from the system keyring.
func (c *Config) DeletePSK() error {
	kr, err := c.openKeyring()
	if err != nil {
		return err
	}
	return kr.Remove(c.fullPSKName())
}
