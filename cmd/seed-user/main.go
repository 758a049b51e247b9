// Command seed-user creates an API account, hashing the password with bcrypt.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tidianess/assetflow/internal/config"
	"github.com/tidianess/assetflow/internal/domain/models"
	"github.com/tidianess/assetflow/internal/repository/mongodb"
)

func main() {
	username := flag.String("username", "", "Required: login name")
	password := flag.String("password", "", "Required: initial password")
	fullName := flag.String("full-name", "", "Optional: display name")
	role := flag.String("role", "storekeeper", "Optional: role claim")
	flag.Parse()

	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "--username and --password are required")
		os.Exit(1)
	}

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := mongodb.NewStore(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect mongodb: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close(context.Background()) }()

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash password: %v\n", err)
		os.Exit(1)
	}

	user := models.User{
		Username:     *username,
		FullName:     *fullName,
		Role:         *role,
		PasswordHash: string(hash),
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}

	if err := mongodb.NewUserRepository(store).Create(ctx, user); err != nil {
		fmt.Fprintf(os.Stderr, "create user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("user %s created with role %s\n", *username, *role)
}
