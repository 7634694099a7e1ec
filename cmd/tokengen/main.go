package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yungbote/skillplanner-backend/internal/platform/envutil"
	"github.com/yungbote/skillplanner-backend/internal/platform/gcal"
)

// Runs the one-time OAuth authorization flow and writes token.json so
// the server and CLI can use the calendar API non-interactively.
func main() {
	credentialsFile := envutil.Str("GOOGLE_CREDENTIALS_FILE", "credentials.json")
	tokenFile := envutil.Str("GOOGLE_TOKEN_FILE", "token.json")

	config, err := gcal.LoadOAuthConfig(credentialsFile)
	if err != nil {
		fmt.Printf("Could not load %s: %v\n", credentialsFile, err)
		os.Exit(1)
	}

	token, err := gcal.AuthorizeInteractive(context.Background(), config, os.Stdin, os.Stdout)
	if err != nil {
		fmt.Printf("Authorization failed: %v\n", err)
		os.Exit(1)
	}

	if err := gcal.SaveToken(tokenFile, token); err != nil {
		fmt.Printf("Could not save %s: %v\n", tokenFile, err)
		os.Exit(1)
	}
	fmt.Printf("Token saved to %s\n", tokenFile)
}
