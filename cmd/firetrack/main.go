// Command firetrack is a field CLI over the client SDK: log in, resolve
// scanned QR codes, and record inspections and replacements against the
// extinguisher-tracking backend.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	firetrack "github.com/zenfield/firetrack"
	"github.com/zenfield/firetrack/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "firetrack:", err)
		os.Exit(1)
	}
}

func run() error {
	// A .env next to the binary is the field-device way to pin the
	// backend; absence is fine.
	_ = godotenv.Load()

	var (
		configPath  = pflag.String("config", "", "path to a YAML config file")
		baseURL     = pflag.String("base-url", os.Getenv("FIRETRACK_BASE_URL"), "backend root URL")
		timeout     = pflag.Duration("timeout", 0, "request timeout (0 keeps the default)")
		sessionFile = pflag.String("session-file", defaultSessionFile(), "durable session record path")

		inspector = pflag.String("inspector", "", "inspector name for add-inspection")
		status    = pflag.String("status", "ok", "inspection status")
		notes     = pflag.String("notes", "", "free-form notes")

		cylinder = pflag.String("cylinder", "", "cylinder condition for replace")
		hose     = pflag.String("hose", "", "hose condition for replace")
		stand    = pflag.String("stand", "", "stand condition for replace")
		fullW    = pflag.Float64("full-weight", 0, "full weight in kg for replace")
		actualW  = pflag.Float64("actual-weight", 0, "actual weight in kg for replace")
	)
	pflag.Usage = usage
	pflag.Parse()
	args := pflag.Args()
	if len(args) == 0 {
		usage()
		return fmt.Errorf("command required")
	}

	b := firetrack.New().WithStore(store.NewFileStore(*sessionFile))
	if *configPath != "" {
		cfg, err := firetrack.LoadConfig(*configPath)
		if err != nil {
			return err
		}
		b = b.WithConfig(cfg)
	}
	if *baseURL != "" {
		b = b.WithBaseURL(*baseURL)
	}
	if *timeout > 0 {
		b = b.WithTimeout(*timeout)
	}
	client, err := b.Build()
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := client.RestoreSession(ctx); err != nil {
		return err
	}

	switch args[0] {
	case "login":
		if len(args) != 2 {
			return fmt.Errorf("usage: firetrack login <username>")
		}
		password := os.Getenv("FIRETRACK_PASSWORD")
		if password == "" {
			fmt.Fprint(os.Stderr, "password: ")
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			password = strings.TrimRight(line, "\r\n")
		}
		sess, err := client.Login(ctx, args[1], password)
		if err != nil {
			return err
		}
		fmt.Printf("logged in as %s (%s), session expires %s\n",
			sess.User.Username, sess.User.Role, sess.ExpiresAt.Local().Format(time.RFC1123))
		return nil

	case "logout":
		client.Logout(ctx)
		fmt.Println("logged out")
		return nil

	case "whoami":
		user, ok := client.CurrentUser()
		if !ok {
			return fmt.Errorf("not logged in")
		}
		sess, _ := client.CurrentSession()
		fmt.Printf("%s <%s> role=%s project=%s expires in %s\n",
			user.Username, user.Email, user.Role, user.ProjectID,
			sess.ExpiresIn(time.Now()).Round(time.Second))
		return nil

	case "resolve":
		if len(args) != 2 {
			return fmt.Errorf("usage: firetrack resolve <scanned-code>")
		}
		flow := client.NewScanFlow()
		if err := flow.StartCapture(); err != nil {
			return err
		}
		if err := flow.HandleBarcode(ctx, args[1]); err != nil {
			return err
		}
		asset, ok := flow.Asset()
		if !ok {
			return fmt.Errorf("scan produced no asset")
		}
		printAsset(asset)
		return nil

	case "asset":
		id, err := parseID(args, "asset")
		if err != nil {
			return err
		}
		asset, err := client.Asset(ctx, id)
		if err != nil {
			return err
		}
		printAsset(*asset)
		return nil

	case "inspections":
		id, err := parseID(args, "inspections")
		if err != nil {
			return err
		}
		list, err := client.Inspections(ctx, id)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("no inspections on record")
			return nil
		}
		for _, ins := range list {
			fmt.Printf("%s  %-10s %s  %s\n", ins.InspectionDate, ins.Status, ins.InspectorName, ins.Notes)
		}
		return nil

	case "add-inspection":
		id, err := parseID(args, "add-inspection")
		if err != nil {
			return err
		}
		err = client.AddInspection(ctx, firetrack.InspectionInput{
			ExtinguisherID: id,
			InspectorName:  *inspector,
			Status:         *status,
			Notes:          *notes,
		})
		if err != nil {
			return err
		}
		fmt.Println("inspection recorded")
		return nil

	case "replace":
		if len(args) != 3 {
			return fmt.Errorf("usage: firetrack replace <original-code> <replacement-code>")
		}
		cond := firetrack.Condition{
			CylinderCondition: *cylinder,
			HoseCondition:     *hose,
			StandCondition:    *stand,
			FullWeight:        *fullW,
			ActualWeight:      *actualW,
		}
		flow := client.NewReplacementFlow()
		for _, code := range args[1:] {
			if err := flow.StartCapture(); err != nil {
				return err
			}
			if err := flow.HandleBarcode(ctx, code); err != nil {
				return err
			}
		}
		if err := flow.Submit(ctx, cond, cond, *notes); err != nil {
			return err
		}
		orig, _ := flow.Original()
		repl, _ := flow.Replacement()
		fmt.Printf("replacement recorded: %d -> %d\n", orig.ID, repl.ID)
		return nil

	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func parseID(args []string, cmd string) (int64, error) {
	if len(args) != 2 {
		return 0, fmt.Errorf("usage: firetrack %s <asset-id>", cmd)
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid asset id %q", args[1])
	}
	return id, nil
}

func printAsset(a firetrack.Asset) {
	fmt.Printf("#%d  %s\n", a.ID, a.TypeCapacity)
	fmt.Printf("  %s, block %s, floor %s (%s)\n", a.Location, a.Block, a.Floor, a.Area)
	fmt.Printf("  %s, %s, %s\n", a.City, a.State, a.Country)
	if link, ok := a.MapLink(); ok {
		fmt.Printf("  map: %s\n", link)
	}
}

func defaultSessionFile() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "firetrack", "session.json")
	}
	return ".firetrack-session.json"
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: firetrack [flags] <command>

commands:
  login <username>                       authenticate and persist the session
  logout                                 end the session
  whoami                                 show the active identity
  resolve <scanned-code>                 resolve a QR payload to an asset
  asset <id>                             fetch an asset record
  inspections <id>                       list an asset's inspection history
  add-inspection <id> [--notes ...]      record an inspection
  replace <orig-code> <repl-code>        record a replacement event

flags:`)
	pflag.PrintDefaults()
}
