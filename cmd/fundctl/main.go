package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"fundchain/cmd/internal/secret"
	"fundchain/crypto"
	"fundchain/gateway/middleware"
	"fundchain/native/fundraise"
	"fundchain/native/token"
)

const (
	keygenCommand    = "keygen"
	tokenCommand     = "token"
	addressesCommand = "addresses"
	defaultSecretEnv = "FUND_JWT_SECRET"
)

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			usage(os.Stderr)
		} else {
			fmt.Fprintf(os.Stderr, "fundctl: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case keygenCommand:
		return runKeygen(out)
	case tokenCommand:
		return runToken(args[1:], out, time.Now())
	case addressesCommand:
		return runAddresses(args[1:], out)
	default:
		return errUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: fundctl <command> [flags]")
	fmt.Fprintln(w, "  keygen      generate a signing key and print its identity")
	fmt.Fprintln(w, "  token       issue a gateway bearer token for an identity")
	fmt.Fprintln(w, "  addresses   derive the record addresses of a platform")
}

func runKeygen(out io.Writer) error {
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "address: %s\n", key.PubKey().Address().String())
	fmt.Fprintf(out, "private key: %s\n", hex.EncodeToString(key.Bytes()))
	return nil
}

func runToken(args []string, out io.Writer, now time.Time) error {
	fs := pflag.NewFlagSet(tokenCommand, pflag.ContinueOnError)
	subject := fs.String("subject", "", "identity the token signs for (bech32 or 0x hex)")
	keyHex := fs.String("key", "", "derive the subject from this hex private key")
	issuer := fs.String("issuer", "fundchain", "token issuer, must match Gateway.JWTIssuer")
	ttl := fs.Duration("ttl", time.Hour, "token lifetime")
	secretEnv := fs.String("secret-env", defaultSecretEnv, "environment variable holding the gateway secret")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var signer [20]byte
	switch {
	case strings.TrimSpace(*keyHex) != "":
		raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(*keyHex), "0x"))
		if err != nil {
			return fmt.Errorf("decode key: %w", err)
		}
		key, err := crypto.PrivateKeyFromBytes(raw)
		if err != nil {
			return fmt.Errorf("load key: %w", err)
		}
		signer = key.PubKey().Address().Bytes()
	case strings.TrimSpace(*subject) != "":
		parsed, err := crypto.ParseIdentity(*subject)
		if err != nil {
			return fmt.Errorf("subject: %w", err)
		}
		signer = parsed
	default:
		return errors.New("--subject or --key required")
	}
	if *ttl <= 0 {
		return errors.New("--ttl must be positive")
	}

	value, err := secret.NewSource(*secretEnv, "gateway secret").Get()
	if err != nil {
		return err
	}
	signed, err := middleware.IssueToken(value, *issuer, signer, *ttl, now)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, signed)
	return nil
}

func runAddresses(args []string, out io.Writer) error {
	fs := pflag.NewFlagSet(addressesCommand, pflag.ContinueOnError)
	authority := fs.String("authority", "", "platform authority identity")
	campaign := fs.String("campaign", "", "campaign authority identity")
	slots := fs.Uint64("slots", 0, "number of contributor slots to list")
	if err := fs.Parse(args); err != nil {
		return err
	}
	owner, err := crypto.ParseIdentity(*authority)
	if err != nil {
		return fmt.Errorf("authority: %w", err)
	}
	platform := fundraise.PlatformAddress(owner)
	fmt.Fprintf(out, "platform: %s\n", crypto.FormatIdentity(platform))
	fmt.Fprintf(out, "leaderboard: %s\n", crypto.FormatIdentity(fundraise.LeaderboardAddress(owner)))
	if strings.TrimSpace(*campaign) != "" {
		campaignAuthority, err := crypto.ParseIdentity(*campaign)
		if err != nil {
			return fmt.Errorf("campaign: %w", err)
		}
		record := fundraise.CampaignAddress(platform, campaignAuthority)
		fmt.Fprintf(out, "campaign: %s\n", crypto.FormatIdentity(record))
		fmt.Fprintf(out, "campaign token account: %s\n", crypto.FormatIdentity(token.AssociatedAccountOf(record)))
	}
	for slot := uint64(0); slot < *slots; slot++ {
		fmt.Fprintf(out, "contributor %d: %s\n", slot, crypto.FormatIdentity(fundraise.ContributorAddress(platform, slot)))
	}
	return nil
}
