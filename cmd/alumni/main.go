// Command alumni is a small terminal client for the alumni API. It keeps
// the session on disk, so login survives restarts until the token expires
// or logout is called.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mezunhub/alumni-core/internal/client"
	"github.com/mezunhub/alumni-core/internal/user/entity"
)

const usage = `usage: alumni <command> [flags]

commands:
  register  -first -last -email -password   create an account and sign in
  login     -email -password                sign in
  whoami                                    show the cached session user
  profile                                   fetch the full profile
  update    [-first -last -workplace -location -sector -seniority -position]
  show      -id                             fetch a public profile
  logout                                    clear the session
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	baseURL := os.Getenv("ALUMNI_API")
	if baseURL == "" {
		baseURL = "http://localhost:8431"
	}
	path, err := client.DefaultSessionPath()
	if err != nil {
		fatal(err)
	}
	c := client.New(baseURL, client.NewSessionStore(path))
	if err := c.Load(); err != nil {
		fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch os.Args[1] {
	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		first := fs.String("first", "", "first name")
		last := fs.String("last", "", "last name")
		email := fs.String("email", "", "email")
		password := fs.String("password", "", "password")
		fs.Parse(os.Args[2:])
		u, err := c.Register(ctx, *first, *last, *email, *password)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("registered and signed in as %s %s <%s>\n", u.FirstName, u.LastName, u.Email)

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "email")
		password := fs.String("password", "", "password")
		fs.Parse(os.Args[2:])
		u, err := c.Login(ctx, *email, *password)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("signed in as %s %s <%s>\n", u.FirstName, u.LastName, u.Email)

	case "whoami":
		u, ok := c.CurrentUser()
		if !ok {
			fmt.Println("not signed in")
			os.Exit(1)
		}
		printJSON(u)

	case "profile":
		p, err := c.Profile(ctx)
		if err != nil {
			fatal(err)
		}
		printJSON(p)

	case "update":
		fs := flag.NewFlagSet("update", flag.ExitOnError)
		first := fs.String("first", "", "first name")
		last := fs.String("last", "", "last name")
		workplace := fs.String("workplace", "", "workplace")
		location := fs.String("location", "", "location")
		sector := fs.String("sector", "", "sector")
		seniority := fs.String("seniority", "", "seniority")
		position := fs.String("position", "", "position")
		fs.Parse(os.Args[2:])
		patch := entity.ProfilePatch{
			FirstName: optional(*first),
			LastName:  optional(*last),
			Workplace: optional(*workplace),
			Location:  optional(*location),
			Sector:    optional(*sector),
			Seniority: optional(*seniority),
			Position:  optional(*position),
		}
		p, err := c.UpdateProfile(ctx, patch)
		if err != nil {
			fatal(err)
		}
		printJSON(p)

	case "show":
		fs := flag.NewFlagSet("show", flag.ExitOnError)
		id := fs.String("id", "", "user id")
		fs.Parse(os.Args[2:])
		p, err := c.PublicProfile(ctx, *id)
		if err != nil {
			fatal(err)
		}
		printJSON(p)

	case "logout":
		if err := c.Logout(); err != nil {
			fatal(err)
		}
		fmt.Println("signed out")

	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
