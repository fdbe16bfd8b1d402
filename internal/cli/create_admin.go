package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/shelfwise/bookshelf/internal/auth"
	"github.com/shelfwise/bookshelf/internal/config"
	"github.com/shelfwise/bookshelf/internal/database"
	"github.com/shelfwise/bookshelf/internal/database/users"
	"github.com/shelfwise/bookshelf/internal/entities"
)

// CreateAdminCommand creates an administrator account from the command line.
type CreateAdminCommand struct {
	Username     string
	Password     string
	Nickname     string
	DatabasePath string
}

func NewCreateAdminCommand() *CreateAdminCommand {
	return &CreateAdminCommand{}
}

func (cmd *CreateAdminCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)

	fs.StringVar(&cmd.Username, "username", "", "Username for the new administrator (required)")
	fs.StringVar(&cmd.Password, "password", "", "Password for the new administrator (required)")
	fs.StringVar(&cmd.Nickname, "nickname", "", "Display name (defaults to the username)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-admin [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create an administrator account.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s create-admin -username admin -password secret\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s create-admin -username admin -password secret -db ./my-library.db\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.Username == "" || cmd.Password == "" {
		fs.Usage()
		return fmt.Errorf("username and password are required")
	}
	if cmd.Nickname == "" {
		cmd.Nickname = cmd.Username
	}
	return nil
}

func (cmd *CreateAdminCommand) Run() error {
	cfg := config.NewConfig()

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	repo := users.NewRepository(db.DB)
	existing, err := repo.FindByUsername(cmd.Username)
	if err != nil {
		return fmt.Errorf("look up username: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("username %q is already taken", cmd.Username)
	}

	hasher := auth.NewHasher(cfg.Auth.PasswordScheme, cfg.Auth.BcryptCost)
	digest, err := hasher.Hash(cmd.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	id, err := repo.Add(&entities.User{
		Username:    cmd.Username,
		Password:    digest,
		Nickname:    cmd.Nickname,
		Role:        entities.RoleAdmin,
		LastLoginIP: "never login",
		CreatedIP:   "cli",
	})
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}

	fmt.Printf("Created administrator %q (id %d)\n", cmd.Username, id)
	return nil
}
