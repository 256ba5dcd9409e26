package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/meridianbank/console/internal/api"
	"github.com/meridianbank/console/internal/config"
	"github.com/meridianbank/console/internal/console"
	"github.com/meridianbank/console/internal/models"
	"github.com/meridianbank/console/internal/session"
)

func main() {
	backendFlag := pflag.String("backend", "", "backend base URL (overrides config)")
	receiptFlag := pflag.String("receipts", "", "directory for exported PDF receipts (overrides config)")
	pflag.Parse()

	config.Init()
	cfg := config.Get()
	if *backendFlag != "" {
		cfg.BackendURL = *backendFlag
	}
	if *receiptFlag != "" {
		cfg.ReceiptDir = *receiptFlag
	}

	client, err := api.New(cfg.BackendURL, cfg.HTTPTimeout)
	if err != nil {
		log.Fatalf("Failed to build API client: %v", err)
	}

	ctx := context.Background()
	sess := session.NewManager(client)
	stdin := bufio.NewScanner(os.Stdin)

	for {
		profile := signIn(ctx, sess, stdin)
		if profile == nil {
			return
		}

		ui := console.New(client, sess, profile.Role, cfg.ReceiptDir, os.Stdin, os.Stdout)
		err := ui.Run(ctx)
		if err == api.ErrLoginRequired {
			continue
		}
		if err != nil {
			log.Fatalf("Console failed: %v", err)
		}
		if sess.Profile() != nil {
			// quit while still signed in
			return
		}
		// signed out; back to the login prompt
	}
}

// signIn prompts for credentials until login succeeds or input ends.
func signIn(ctx context.Context, sess *session.Manager, stdin *bufio.Scanner) *models.UserProfile {
	for {
		fmt.Print("User ID: ")
		if !stdin.Scan() {
			return nil
		}
		userID, err := strconv.ParseInt(strings.TrimSpace(stdin.Text()), 10, 64)
		if err != nil {
			fmt.Println("User ID must be a number.")
			continue
		}

		fmt.Print("Password: ")
		if !stdin.Scan() {
			return nil
		}
		password := stdin.Text()

		profile, err := sess.Login(ctx, userID, password)
		if err != nil {
			fmt.Println(api.UserMessage(err, "login"))
			continue
		}
		return profile
	}
}
