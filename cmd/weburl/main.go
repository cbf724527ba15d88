// Command weburl is a small inspector CLI over the weburl package,
// exercising parse/path/query outside of tests (SPEC_FULL.md §4 domain
// -stack wiring for github.com/urfave/cli/v2).
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/pavlik/weburl/weburl"
)

func main() {
	app := &cli.App{
		Name:  "weburl",
		Usage: "inspect and edit WHATWG URLs",
		Commands: []*cli.Command{
			parseCommand(),
			pathCommand(),
			queryCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "weburl:", err)
		os.Exit(1)
	}
}

func baseFlag() *cli.StringFlag {
	return &cli.StringFlag{Name: "base", Usage: "base URL to resolve against"}
}

func parseURL(c *cli.Context, input string) (*weburl.URL, error) {
	var base *weburl.URL
	if b := c.String("base"); b != "" {
		parsedBase, err := weburl.Parse(b, nil)
		if err != nil {
			return nil, fmt.Errorf("parsing --base: %w", err)
		}
		base = parsedBase
	}
	return weburl.Parse(input, base)
}

func parseCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "parse a URL and print its components",
		ArgsUsage: "<url>",
		Flags:     []cli.Flag{baseFlag()},
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return cli.Exit("expected exactly one argument: <url>", 1)
			}
			u, err := parseURL(c, c.Args().First())
			if err != nil {
				return err
			}
			fmt.Printf("href:      %s\n", u.Href())
			fmt.Printf("scheme:    %s\n", u.Scheme())
			fmt.Printf("username:  %s\n", u.Username())
			fmt.Printf("password:  %s\n", u.Password())
			fmt.Printf("hostname:  %s\n", u.Hostname())
			fmt.Printf("port:      %s\n", u.Port())
			fmt.Printf("path:      %s\n", u.Path())
			fmt.Printf("query:     %s\n", u.Query())
			fmt.Printf("fragment:  %s\n", u.Fragment())
			fmt.Printf("opaque:    %v\n", u.CannotBeABaseURL())
			return nil
		},
	}
}

func pathCommand() *cli.Command {
	return &cli.Command{
		Name:      "path",
		Usage:     "print or edit a URL's path segments",
		ArgsUsage: "<url> [-- <segments to append>]",
		Flags:     []cli.Flag{baseFlag()},
		Action: func(c *cli.Context) error {
			if c.Args().Len() < 1 {
				return cli.Exit("expected at least one argument: <url>", 1)
			}
			u, err := parseURL(c, c.Args().First())
			if err != nil {
				return err
			}
			pc := u.PathComponents()
			if extra := c.Args().Slice()[1:]; len(extra) > 0 {
				if err := pc.Append(extra...); err != nil {
					return err
				}
				fmt.Println(u.Href())
				return nil
			}
			fmt.Println(strings.Join(pc.All(), "\n"))
			return nil
		},
	}
}

func queryCommand() *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "print or edit a URL's query key-value pairs",
		ArgsUsage: "<url> [key=value to set]",
		Flags:     []cli.Flag{baseFlag()},
		Action: func(c *cli.Context) error {
			if c.Args().Len() < 1 {
				return cli.Exit("expected at least one argument: <url>", 1)
			}
			u, err := parseURL(c, c.Args().First())
			if err != nil {
				return err
			}
			schema := weburl.NewSchema()
			kvps, err := u.QueryPairs(schema)
			if err != nil {
				return err
			}
			if rest := c.Args().Slice()[1:]; len(rest) > 0 {
				for _, kv := range rest {
					key, value, _ := strings.Cut(kv, "=")
					if _, err := kvps.Set(key, value); err != nil {
						return err
					}
				}
				fmt.Println(u.Href())
				return nil
			}
			for _, p := range kvps.All() {
				fmt.Printf("%s=%s\n", p.Key(schema), p.Value(schema))
			}
			return nil
		},
	}
}
