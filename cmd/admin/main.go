package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"resumeforge/internal/auth"
	"resumeforge/internal/config"
	"resumeforge/internal/database"
)

const usage = `usage: admin <command> [flags]

commands:
  migrate                       执行数据库迁移
  create-user --username NAME   创建账号并打印一次性随机密码
  reset-password --username NAME 重置账号密码并打印新密码
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cmd := os.Args[1]
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	var (
		username = fs.String("username", "", "账号用户名")
		dbHost   = fs.String("db-host", "", "数据库 Host（可选，默认读 DATABASE_HOST）")
		dbPort   = fs.Int("db-port", 0, "数据库 Port（可选，默认读 DATABASE_PORT）")
		dbName   = fs.String("db-name", "", "数据库名（可选，默认读 POSTGRES_DB）")
		dbUser   = fs.String("db-user", "", "数据库用户（可选，默认读 POSTGRES_USER）")
		dbPass   = fs.String("db-password", "", "数据库密码（可选，默认读 POSTGRES_PASSWORD）")
		sslMode  = fs.String("db-sslmode", "", "数据库 SSLMODE（可选，默认读 DATABASE_SSLMODE）")
	)
	_ = fs.Parse(os.Args[2:])

	dbCfg, err := loadDatabaseConfig(*dbHost, *dbPort, *dbName, *dbUser, *dbPass, *sslMode)
	if err != nil {
		log.Fatalf("load database config: %v", err)
	}

	db, err := database.InitDatabase(dbCfg)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	store := database.NewStore(db)
	ctx := context.Background()

	switch cmd {
	case "migrate":
		fmt.Println("数据库迁移完成")
	case "create-user":
		if err := createUser(ctx, store, strings.ToLower(strings.TrimSpace(*username))); err != nil {
			log.Fatal(err)
		}
	case "reset-password":
		if err := resetPassword(ctx, store, strings.ToLower(strings.TrimSpace(*username))); err != nil {
			log.Fatal(err)
		}
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func createUser(ctx context.Context, store *database.Store, username string) error {
	if username == "" {
		return errors.New("missing required flag: --username")
	}

	switch _, err := store.FindUserByUsername(ctx, username); {
	case err == nil:
		return fmt.Errorf("user %q already exists", username)
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return fmt.Errorf("query user: %w", err)
	}

	password, hashed, err := newPassword()
	if err != nil {
		return err
	}
	user := database.User{Username: username, PasswordHash: hashed}
	if err := store.CreateUser(ctx, &user); err != nil {
		return err
	}

	fmt.Printf("已创建账号：\n")
	fmt.Printf("用户 ID: %s\n", user.ID)
	fmt.Printf("用户名: %s\n", username)
	fmt.Printf("初始密码: %s\n", password)
	fmt.Printf("提示：该密码仅显示一次。\n")
	return nil
}

func resetPassword(ctx context.Context, store *database.Store, username string) error {
	if username == "" {
		return errors.New("missing required flag: --username")
	}

	user, err := store.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %q not found", username)
		}
		return fmt.Errorf("query user: %w", err)
	}

	password, hashed, err := newPassword()
	if err != nil {
		return err
	}
	if err := store.UpdateUserPassword(ctx, user.ID, hashed); err != nil {
		return err
	}

	fmt.Printf("用户 %s 的新密码: %s\n", username, password)
	return nil
}

func newPassword() (plain, hashed string, err error) {
	plain, err = auth.GeneratePassword(24)
	if err != nil {
		return "", "", fmt.Errorf("generate password: %w", err)
	}
	hashed, err = auth.HashPassword(plain)
	if err != nil {
		return "", "", err
	}
	return plain, hashed, nil
}

func loadDatabaseConfig(host string, port int, name, user, password, sslmode string) (config.DatabaseConfig, error) {
	fallback := func(value, env string) string {
		if strings.TrimSpace(value) != "" {
			return value
		}
		return strings.TrimSpace(os.Getenv(env))
	}

	host = fallback(host, "DATABASE_HOST")
	name = fallback(name, "POSTGRES_DB")
	user = fallback(user, "POSTGRES_USER")
	password = fallback(password, "POSTGRES_PASSWORD")
	sslmode = fallback(sslmode, "DATABASE_SSLMODE")
	if port <= 0 {
		if env := strings.TrimSpace(os.Getenv("DATABASE_PORT")); env != "" {
			p, err := strconv.Atoi(env)
			if err != nil {
				return config.DatabaseConfig{}, fmt.Errorf("parse DATABASE_PORT: %w", err)
			}
			port = p
		}
	}

	if host == "" {
		host = "localhost"
	}
	if port <= 0 {
		port = 5432
	}
	if sslmode == "" {
		sslmode = "disable"
	}
	if name == "" {
		return config.DatabaseConfig{}, errors.New("database name is required (POSTGRES_DB)")
	}
	if user == "" {
		return config.DatabaseConfig{}, errors.New("database user is required (POSTGRES_USER)")
	}
	if password == "" {
		return config.DatabaseConfig{}, errors.New("database password is required (POSTGRES_PASSWORD)")
	}

	return config.DatabaseConfig{
		Host:     host,
		Port:     port,
		Name:     name,
		User:     user,
		Password: password,
		SSLMode:  sslmode,
	}, nil
}
