// Package cli реализует команды административной утилиты jobctl.
package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/iudanet/jobboard/internal/cli/iocli"
	"github.com/iudanet/jobboard/internal/server/storage"
)

// PasswordEnv переменная окружения с паролем для create-user
const PasswordEnv = "JOBCTL_USER_PASSWORD"

// Store хранилище, с которым работают команды
type Store interface {
	storage.JobStorage
	storage.UserStorage
}

// Passwords источники пароля, кроме переменной окружения
type Passwords struct {
	FromFile string
}

type Cli struct {
	io    iocli.IO
	store Store
	now   func() time.Time
}

func New(io iocli.IO, store Store) *Cli {
	return &Cli{
		io:    io,
		store: store,
		now:   time.Now,
	}
}

// PrintUsage печатает справку по командам
func PrintUsage(io iocli.IO) {
	io.Println("Usage: jobctl [flags] <command> [args]")
	io.Println("")
	io.Println("Commands:")
	io.Println("  import <file.json>     upsert job listings from a JSON array")
	io.Println("  create-user <email>    create a verified user account")
	io.Println("  stats                  print job statistics")
	io.Println("  mail                   list messages captured in the mail outbox")
	io.Println("")
	io.Println("Flags:")
	io.Println("  -env-file, -password-file, -version")
}

// getPassword возвращает пароль из источников по приоритету:
// 1. Переменная окружения JOBCTL_USER_PASSWORD
// 2. Файл
// 3. Интерактивный ввод с подтверждением
func (c *Cli) getPassword(passwords Passwords) (string, error) {
	// Priority 1: Environment variable
	if envPassword := os.Getenv(PasswordEnv); envPassword != "" {
		return envPassword, nil
	}

	// Priority 2: File
	if passwords.FromFile != "" {
		content, err := os.ReadFile(passwords.FromFile)
		if err != nil {
			return "", fmt.Errorf("failed to read password file: %w", err)
		}
		// Убираем trailing newline/whitespace
		password := strings.TrimSpace(string(content))
		if password == "" {
			return "", fmt.Errorf("password file is empty")
		}
		return password, nil
	}

	// Priority 3: Interactive prompt
	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	confirm, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}

	if password != confirm {
		return "", fmt.Errorf("passwords do not match")
	}

	return password, nil
}
