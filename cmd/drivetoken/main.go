// Command drivetoken runs the one-off OAuth consent flow for the Drive
// backend and writes the resulting token file.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"wallpapers/internal/config"
	"wallpapers/internal/store/drive"

	"github.com/go-faster/errors"
	"golang.org/x/oauth2"
)

func main() {
	if err := run(context.Background(), os.Stdin, os.Stdout); err != nil {
		fmt.Fprint(os.Stderr, "drivetoken error: "+err.Error()+"\n")
		os.Exit(1)
	}
}

func run(ctx context.Context, in io.Reader, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	oc, err := drive.OAuthConfig(cfg.Drive.CredentialsPath)
	if err != nil {
		return err
	}

	authURL := oc.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	fmt.Fprintf(out, "Authorize this app by visiting this url:\n%s\n\nEnter the code from that page here: ", authURL)

	code, err := readCode(in)
	if err != nil {
		return err
	}

	tok, err := oc.Exchange(ctx, code)
	if err != nil {
		return errors.Wrap(err, "exchange code")
	}

	if err := drive.SaveToken(cfg.Drive.TokenPath, tok); err != nil {
		return err
	}

	fmt.Fprintf(out, "Token stored to %s\n", cfg.Drive.TokenPath)
	return nil
}

func readCode(in io.Reader) (string, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", errors.Wrap(err, "read code")
	}

	code := strings.TrimSpace(line)
	if code == "" {
		return "", errors.New("no authorization code entered")
	}
	return code, nil
}
