// Command adminctl provisions the first administrator account directly
// against the database, so a fresh deployment has a principal that can use
// the administrative HTTP API. The password is read from the terminal
// without echo.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/caarlos0/env/v11"
	"golang.org/x/term"

	"github.com/dsmirnov/authkeeper/internal/common"
	"github.com/dsmirnov/authkeeper/internal/cryptox"
	"github.com/dsmirnov/authkeeper/internal/logging"
	"github.com/dsmirnov/authkeeper/internal/server/auth"
	"github.com/dsmirnov/authkeeper/internal/server/config"
	"github.com/dsmirnov/authkeeper/internal/server/models"
	"github.com/dsmirnov/authkeeper/internal/server/repositories/repomanager"
	"github.com/dsmirnov/authkeeper/internal/server/services"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func getPassword(w *os.File) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

func main() {

	cfg := &config.Config{}
	cfg.LoadDefaults()
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("error parsing environment: %v", err)
	}

	fs := flag.NewFlagSet("adminctl", flag.ExitOnError)
	dsn := fs.String("d", cfg.DatabaseDSN, "database connection string")
	email := fs.String("e", "", "administrator email (required)")
	firstName := fs.String("f", "Admin", "first name")
	lastName := fs.String("l", "", "last name")
	if err := fs.Parse(os.Args[1:]); err != nil {
		log.Fatalf("%v", err)
	}

	if *email == "" {
		fs.Usage()
		log.Fatal("email is required")
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		log.Fatalf("error reading password: %v", err)
	}
	defer cryptox.WipeByteArray(password)

	ctx := context.Background()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	logger := logging.NewJSON(os.Stderr)
	hasher := auth.NewCredentialHasher(cfg.BcryptCost)
	users := services.NewUserService(db, repos, hasher, logger)

	user, err := users.Create(ctx, services.CreateUserInput{
		FirstName: *firstName,
		LastName:  *lastName,
		Email:     *email,
		Password:  string(password),
		Role:      models.RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			log.Fatalf("user %s already exists", *email)
		}
		log.Fatalf("error creating administrator: %v", err)
	}

	fmt.Printf("administrator %s created with id %d\n", user.Email, user.ID)
}
