// Command alumnictl is the operator tool: schema bootstrap and admin-flag
// management directly against the database. The admin flag is never
// mutable through the user-facing API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	userrepo "github.com/mezunhub/alumni-core/internal/user/repo"
	"github.com/mezunhub/alumni-core/pkg/database"
)

const usage = `usage: alumnictl <command> [flags]

commands:
  init                    create the users table if missing
  grant-admin  -email     set the admin flag for an account
  revoke-admin -email     clear the admin flag for an account
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	_ = godotenv.Load()

	sqlDB, err := database.Connect(database.ConfigFromEnv())
	if err != nil {
		fatal(err)
	}
	defer sqlDB.Close()

	repo := userrepo.NewUserRepo(sqlx.NewDb(sqlDB, "postgres"))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch os.Args[1] {
	case "init":
		if err := repo.EnsureTable(ctx); err != nil {
			fatal(err)
		}
		fmt.Println("users table ready")

	case "grant-admin":
		email := emailFlag("grant-admin")
		if err := repo.SetAdminByEmail(ctx, email, true); err != nil {
			fatal(err)
		}
		fmt.Printf("granted admin to %s\n", email)

	case "revoke-admin":
		email := emailFlag("revoke-admin")
		if err := repo.SetAdminByEmail(ctx, email, false); err != nil {
			fatal(err)
		}
		fmt.Printf("revoked admin from %s\n", email)

	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func emailFlag(cmd string) string {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	email := fs.String("email", "", "account email")
	fs.Parse(os.Args[2:])
	if *email == "" {
		fmt.Fprintln(os.Stderr, "error: -email is required")
		os.Exit(2)
	}
	return *email
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
