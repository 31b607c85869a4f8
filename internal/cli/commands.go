package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/iudanet/jobboard/internal/crypto"
	"github.com/iudanet/jobboard/internal/mailer"
	"github.com/iudanet/jobboard/internal/models"
	"github.com/iudanet/jobboard/internal/server/storage"
	"github.com/iudanet/jobboard/internal/stats"
	"github.com/iudanet/jobboard/internal/validation"
)

// RunImport загружает вакансии из JSON файла (массив объектов Job).
// Существующие вакансии с тем же job_id перезаписываются.
func (c *Cli) RunImport(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: jobctl import <file.json>")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	var jobs []*models.Job
	if err := json.Unmarshal(data, &jobs); err != nil {
		return fmt.Errorf("failed to parse %s: %w", args[0], err)
	}

	// Сначала проверяем весь файл, чтобы не импортировать его наполовину
	for i, job := range jobs {
		if job == nil || job.ID == "" {
			return fmt.Errorf("job #%d: job_id is required", i+1)
		}
	}

	for _, job := range jobs {
		if err := c.store.UpsertJob(ctx, job); err != nil {
			return fmt.Errorf("failed to import job %s: %w", job.ID, err)
		}
	}

	c.io.Printf("✓ Imported %d jobs\n", len(jobs))
	return nil
}

// RunCreateUser создает подтвержденного пользователя
func (c *Cli) RunCreateUser(ctx context.Context, args []string, passwords Passwords) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: jobctl create-user <email>")
	}

	email := validation.NormalizeEmail(args[0])
	if err := validation.ValidateEmail(email); err != nil {
		return err
	}

	password, err := c.getPassword(passwords)
	if err != nil {
		return err
	}

	if err := validation.ValidatePassword(password); err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		Verified:     true,
	}

	if err := c.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			return fmt.Errorf("user %s already exists", email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	c.io.Println("✓ User created")
	c.io.Printf("User ID: %s\n", user.ID)
	c.io.Printf("Email: %s\n", user.Email)

	return nil
}

// RunStats печатает снимок статистики в JSON
func (c *Cli) RunStats(ctx context.Context) error {
	snapshot, err := stats.NewAggregator(c.store).Compute(ctx, c.now())
	if err != nil {
		return fmt.Errorf("failed to compute stats: %w", err)
	}

	out, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	c.io.Println(string(out))
	return nil
}

// RunMail печатает письма из outbox (режим без SMTP)
func (c *Cli) RunMail(ctx context.Context, outboxPath string) error {
	outbox, err := mailer.NewOutbox(outboxPath)
	if err != nil {
		return err
	}
	defer outbox.Close()

	messages, err := outbox.List(ctx)
	if err != nil {
		return err
	}

	if len(messages) == 0 {
		c.io.Println("Outbox is empty")
		return nil
	}

	for _, msg := range messages {
		c.io.Printf("#%d %s to=%s subject=%q\n", msg.ID, msg.SentAt.Format("2006-01-02 15:04:05"), msg.To, msg.Subject)
		c.io.Println(msg.HTML)
		c.io.Println("")
	}

	return nil
}
