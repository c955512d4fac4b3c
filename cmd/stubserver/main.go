// Command stubserver runs the in-process development backend so the CLI
// and client SDK can be exercised without the production service.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/zenfield/firetrack/api"
	"github.com/zenfield/firetrack/internal/stub"
)

func main() {
	_ = godotenv.Load()

	var (
		addr       = pflag.String("addr", ":8080", "listen address")
		secret     = pflag.String("jwt-secret", os.Getenv("STUB_JWT_SECRET"), "HS256 signing secret")
		sessionTTL = pflag.Duration("session-ttl", time.Hour, "issued session lifetime")
		approval   = pflag.Bool("require-approval", false, "queue non-admin updates behind approval")
	)
	pflag.Parse()

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "stubserver: jwt secret required (--jwt-secret or STUB_JWT_SECRET)")
		os.Exit(1)
	}

	server := stub.New(stub.Config{
		JWTSecret:       []byte(*secret),
		SessionTTL:      *sessionTTL,
		RequireApproval: *approval,
		Accounts: []stub.Account{
			{
				Username:     "admin",
				PasswordHash: stub.HashPassword("admin123"),
				Email:        "admin@example.com",
				Role:         "Admin",
				Permissions:  []string{"inspect", "replace", "approve"},
				ProjectID:    "demo",
			},
			{
				Username:     "inspector",
				PasswordHash: stub.HashPassword("inspect123"),
				Email:        "inspector@example.com",
				Role:         "Inspector",
				Permissions:  []string{"inspect", "replace"},
				ProjectID:    "demo",
			},
		},
		Assets: []api.Asset{
			{ID: 1, Location: "Main lobby", Block: "A", Area: "Reception", Floor: "G", Country: "IN", State: "KA", City: "Bengaluru", TypeCapacity: "ABC 6kg", ManufactureYear: 2021, InstallationYear: 2022, Latitude: 12.9716, Longitude: 77.5946},
			{ID: 2, Location: "Server room", Block: "B", Area: "IT", Floor: "2", Country: "IN", State: "KA", City: "Bengaluru", TypeCapacity: "CO2 4.5kg", ManufactureYear: 2022, InstallationYear: 2022},
		},
		Opaque: map[string]int64{
			"ZmlyZS1leHQtMQ": 1,
			"ZmlyZS1leHQtMg": 2,
		},
	})

	fmt.Printf("stubserver listening on %s\n", *addr)
	if err := server.Start(*addr); err != nil {
		fmt.Fprintln(os.Stderr, "stubserver:", err)
		os.Exit(1)
	}
}
